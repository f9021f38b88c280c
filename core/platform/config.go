package platform

// Config holds the connection settings of the remote platform API.
type Config struct {
	// BaseURL is the API host, e.g. https://api.example.com.
	BaseURL string `mapstructure:"base_url" default:"http://localhost:8080"`
	// ProjectKey is the first path segment of every request.
	ProjectKey string `mapstructure:"project_key" default:"catalog"`
	// Token is sent as a bearer token.
	Token string `mapstructure:"token" default:""`
	// TimeoutSeconds bounds each request.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
	// PageSize is the number of resources requested per page.
	PageSize int `mapstructure:"page_size" default:"500"`
	// MaxRetries is the number of extra attempts for 5xx responses.
	MaxRetries int `mapstructure:"max_retries" default:"2"`
}
