package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config is the process-wide configuration, populated from environment
// variables. Every field has a usable default so a bare binary starts
// with local state under ./data.
type Config struct {
	Server    ServerConfig
	Storage   StorageConfig
	Redis     RedisConfig
	Content   ContentConfig
	Logging   LogConfig
	RateLimit RateLimitConfig
}

// ServerConfig sets the listen address of the HTTP surface.
type ServerConfig struct {
	Port string `envconfig:"PORT" default:"8090"`
	Host string `envconfig:"HOST" default:"0.0.0.0"`
	// AllowedOrigins narrows CORS; empty allows any origin.
	AllowedOrigins []string `envconfig:"ALLOWED_ORIGINS"`
}

// StorageConfig holds on-disk state locations.
type StorageConfig struct {
	// StateDir receives the persisted metadata and desktop blobs plus
	// saved sessions.
	StateDir string `envconfig:"STATE_DIR" default:"./data"`
	// AssetsDir holds bundled default assets (wallpapers, sample media)
	// registered as lazy content sources at bootstrap.
	AssetsDir string `envconfig:"ASSETS_DIR" default:"./assets"`
	// SaveDelay is the debounce window between a mutation and its flush.
	SaveDelay time.Duration `envconfig:"SAVE_DELAY" default:"2s"`
}

// RedisConfig holds the content store backend configuration. With Embedded
// set (the default) an in-process server backs the buckets and Addr is
// ignored.
type RedisConfig struct {
	Embedded bool   `envconfig:"REDIS_EMBEDDED" default:"true"`
	Addr     string `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	Password string `envconfig:"REDIS_PASSWORD" default:""`
	DB       int    `envconfig:"REDIS_DB" default:"0"`
}

// ContentConfig tunes content storage and fetching.
type ContentConfig struct {
	// CacheEntries bounds the read-through LRU; CacheTTL expires it.
	CacheEntries int           `envconfig:"CONTENT_CACHE_ENTRIES" default:"256"`
	CacheTTL     time.Duration `envconfig:"CONTENT_CACHE_TTL" default:"5m"`
	// CacheMaxBytes keeps large payloads out of the LRU.
	CacheMaxBytes int `envconfig:"CONTENT_CACHE_MAX_BYTES" default:"131072"`
	// CompressMin is the payload size above which entries are compressed.
	CompressMin int `envconfig:"CONTENT_COMPRESS_MIN" default:"4096"`
	// FetchTimeout bounds one remote asset fetch.
	FetchTimeout time.Duration `envconfig:"CONTENT_FETCH_TIMEOUT" default:"30s"`
	// FetchRPS rate-limits outbound asset fetches.
	FetchRPS int `envconfig:"CONTENT_FETCH_RPS" default:"10"`
	// SharedBase, when set, enables last-resort re-fetch of shared
	// content by uuid from <SharedBase>/<uuid>.
	SharedBase string `envconfig:"CONTENT_SHARED_BASE" default:""`
}

// LogConfig selects log level and output format.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info"`
	Development bool   `envconfig:"LOG_DEV" default:"false"`
}

// RateLimitConfig tunes the per-IP request limiter.
type RateLimitConfig struct {
	RequestsPerSecond int  `envconfig:"RATE_LIMIT_RPS" default:"100"`
	Burst             int  `envconfig:"RATE_LIMIT_BURST" default:"200"`
	Enabled           bool `envconfig:"RATE_LIMIT_ENABLED" default:"true"`
}

// Load populates Config from the environment. Unset variables take their
// struct defaults; a variable that fails to parse is an error rather than
// a silent fallback to defaults.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return &cfg, nil
}

// Default returns the built-in defaults without reading the environment.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port: "8090",
			Host: "0.0.0.0",
		},
		Storage: StorageConfig{
			StateDir:  "./data",
			AssetsDir: "./assets",
			SaveDelay: 2 * time.Second,
		},
		Redis: RedisConfig{
			Embedded: true,
			Addr:     "localhost:6379",
		},
		Content: ContentConfig{
			CacheEntries:  256,
			CacheTTL:      5 * time.Minute,
			CacheMaxBytes: 128 * 1024,
			CompressMin:   4096,
			FetchTimeout:  30 * time.Second,
			FetchRPS:      10,
		},
		Logging: LogConfig{
			Level:       "info",
			Development: false,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 100,
			Burst:             200,
			Enabled:           true,
		},
	}
}
