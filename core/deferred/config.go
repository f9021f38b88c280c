package deferred

import (
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Backends of the deferral store.
const (
	BackendNone     = "none"
	BackendMemory   = "memory"
	BackendDatabase = "database"
	BackendStorage  = "storage"
	BackendRedis    = "redis"
)

// Config holds configuration for deferring drafts with missing references.
type Config struct {
	// Backend selects where waiting drafts are kept: none, memory, database, storage or redis.
	Backend string `mapstructure:"backend" default:"none"`
	// ContainerPrefix is prepended to the resource kind to name a container.
	ContainerPrefix string `mapstructure:"container_prefix" default:"catalogsync.unresolved."`
	// RetentionDays is the age after which cleanup deletes waiting drafts.
	RetentionDays int `mapstructure:"retention_days" default:"30"`
	// PageSize is the number of entries read per page.
	PageSize int `mapstructure:"page_size" default:"500"`
}

// Enabled reports whether drafts are deferred at all.
func (c Config) Enabled() bool {
	return c.Backend != "" && c.Backend != BackendNone
}

// Validate checks the backend name.
func (c Config) Validate() error {
	switch c.Backend {
	case "", BackendNone, BackendMemory, BackendDatabase, BackendStorage, BackendRedis:
		return nil
	}
	return fmt.Errorf("unknown deferral backend %q", c.Backend)
}

// Container returns the container of the given resource kind.
func (c Config) Container(kind string) string {
	return c.ContainerPrefix + kind
}

// RedisConfig holds the connection settings of the Redis backend.
type RedisConfig struct {
	// Addr is the host:port of the server.
	Addr string `mapstructure:"addr" default:"localhost:6379"`
	// Password authenticates the connection.
	Password string `mapstructure:"password" default:""`
	// DB is the database number.
	DB int `mapstructure:"db" default:"0"`
	// Prefix namespaces the keys of the store.
	Prefix string `mapstructure:"prefix" default:"deferred"`
}

// NewRedisClient creates a client for cfg. It does not connect.
func NewRedisClient(cfg RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}
