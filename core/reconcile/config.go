package reconcile

// Config holds the tunables of sync runs.
type Config struct {
	// BatchSize is the number of drafts processed together.
	BatchSize int `mapstructure:"batch_size" default:"50"`
	// Concurrency bounds the drafts of one batch written at the same time.
	Concurrency int `mapstructure:"concurrency" default:"50"`
	// CacheSize bounds the key cache.
	CacheSize int `mapstructure:"cache_size" default:"10000"`
	// MaxActions bounds the actions sent in one update request.
	MaxActions int `mapstructure:"max_actions" default:"500"`
}
