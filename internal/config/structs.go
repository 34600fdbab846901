package config

type Config struct {
	// App: Global application metadata used in page titles and the banner
	App InConfigAppConfig `mapstructure:"app"`

	// Server: Network configuration and execution environment
	Server ServerConfig `mapstructure:"server"`

	// Database: SQLite engine parameters
	Database DatabaseConfig `mapstructure:"database"`

	// Storage: Content-addressed avatar blob store on disk
	Storage StorageConfig `mapstructure:"storage"`

	// Session: Cookie session signing and lifetime
	Session SessionConfig `mapstructure:"session"`

	// Image: Upload limits and the "standard size" bound for listings
	Image ImageConfig `mapstructure:"image"`

	// Cache: In-memory blob cache settings to reduce disk I/O
	Cache CacheConfig `mapstructure:"cache"`

	// Security: Rate limiting
	Security SecurityConfig `mapstructure:"security"`

	// BaseURL: The public-facing root URL used for absolute link generation
	BaseURL string `mapstructure:"base_url"`
}

type InConfigAppConfig struct {
	// Name: Identity of the service shown in page headings (e.g., "Rav")
	Name string `mapstructure:"name"`

	// Version: Application semantic version (e.g., "0.1.0")
	Version string `mapstructure:"version"`

	// Tagline: Suffix appended to gallery page titles
	Tagline string `mapstructure:"tagline"`
}

type ServerConfig struct {
	// Port: The TCP port the HTTP server will bind to (default: 8980)
	Port int `mapstructure:"port"`

	// Env: Execution context (development, staging, production)
	Env string `mapstructure:"env"`
}

type DatabaseConfig struct {
	// Path: Physical location of the SQLite database file (e.g., ./data/rav.db)
	Path string `mapstructure:"path"`
}

type StorageConfig struct {
	// Path: Root directory for hash-sharded avatar blobs (e.g., ./data/avatars)
	Path string `mapstructure:"path"`
}

type SessionConfig struct {
	// SecretPath: File holding the random cookie-signing secret.
	// Generated on first start if absent.
	SecretPath string `mapstructure:"secret_path"`

	// MaxAge: Session cookie lifetime in seconds (default: 30 days)
	MaxAge int `mapstructure:"max_age"`
}

type ImageConfig struct {
	// StdWidth: Avatars wider or taller than this are excluded from
	// front-page and gallery listings (default: 250)
	StdWidth int `mapstructure:"std_width"`

	// MaxUploadSize: Transport-level cap for the /upload endpoint (e.g., "10MB")
	MaxUploadSize string `mapstructure:"max_upload_size"`
}

type CacheConfig struct {
	// Enabled: Toggles the in-memory blob caching layer
	Enabled bool `mapstructure:"enabled"`

	// MaxCapacity: Maximum RAM allocated for cache in MB (e.g., 100)
	MaxCapacity int `mapstructure:"max_capacity"`

	// TTL: Expiration time for cached items (e.g., "30m", "24h")
	TTL string `mapstructure:"ttl"`
}

type SecurityConfig struct {
	// RateLimit: Per-IP request quotas using a token-bucket algorithm
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
}

type RateLimitConfig struct {
	// Enabled: Global toggle for the rate limiting middleware
	Enabled bool `mapstructure:"enabled"`

	// Requests: Number of allowed requests per time window
	Requests int `mapstructure:"requests"`

	// Window: The timeframe for the request limit (e.g., "1s", "1m")
	Window string `mapstructure:"window"`

	// Burst: Temporary allowed spike capacity above the steady-rate limit
	Burst int `mapstructure:"burst"`
}
