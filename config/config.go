package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// Config содержит все конфигурационные параметры приложения.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Database  DatabaseConfig  `koanf:"database"`
	Session   SessionConfig   `koanf:"session"`
	Media     MediaConfig     `koanf:"media"`
	Cache     CacheConfig     `koanf:"cache"`
	RateLimit RateLimitConfig `koanf:"rate_limit"`
	Logging   LoggingConfig   `koanf:"logging"`
}

type ServerConfig struct {
	Port            string        `koanf:"port"`
	Host            string        `koanf:"host"`
	CookieSecure    bool          `koanf:"cookie_secure"`
	// TemplatesDir and StaticDir override the files built into the binary.
	// Empty means embedded.
	TemplatesDir    string        `koanf:"templates_dir"`
	StaticDir       string        `koanf:"static_dir"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	IdleTimeout     time.Duration `koanf:"idle_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

type DatabaseConfig struct {
	// Driver is "sqlite3" or "pgx".
	Driver string `koanf:"driver"`
	// DSN - Data Source Name, например: "yatube.db?_foreign_keys=on"
	DSN string `koanf:"dsn"`
}

type SessionConfig struct {
	Expiration      time.Duration `koanf:"expiration"`
	CleanupInterval time.Duration `koanf:"cleanup_interval"`
}

type MediaConfig struct {
	Root        string `koanf:"root"`
	MaxUploadMB int64  `koanf:"max_upload_mb"`
}

type CacheConfig struct {
	IndexTTL time.Duration `koanf:"index_ttl"`
	MaxCost  int64         `koanf:"max_cost"`
}

type RateLimitConfig struct {
	Enabled  bool          `koanf:"enabled"`
	Requests int           `koanf:"requests"`
	Window   time.Duration `koanf:"window"`
}

type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// Addr returns the listen address for the HTTP server.
func (c *Config) Addr() string {
	return c.Server.Host + ":" + c.Server.Port
}

// Default returns the configuration used when nothing is overridden.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            "8080",
			Host:            "",
			CookieSecure:    false,
			TemplatesDir:    "",
			StaticDir:       "",
			ReadTimeout:     5 * time.Second,
			WriteTimeout:    10 * time.Second,
			IdleTimeout:     120 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Database: DatabaseConfig{
			Driver: "sqlite3",
			DSN:    "yatube.db?_foreign_keys=on",
		},
		Session: SessionConfig{
			Expiration:      24 * time.Hour,
			CleanupInterval: 30 * time.Minute,
		},
		Media: MediaConfig{
			Root:        "./media",
			MaxUploadMB: 5,
		},
		Cache: CacheConfig{
			IndexTTL: 20 * time.Second,
			MaxCost:  32 << 20,
		},
		RateLimit: RateLimitConfig{
			Enabled:  true,
			Requests: 20,
			Window:   time.Minute,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// DefaultConfigPaths are searched in order when no explicit path is given.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
}

// envMappings maps environment variables onto koanf keys.
var envMappings = map[string]string{
	"YATUBE_PORT":              "server.port",
	"YATUBE_HOST":              "server.host",
	"YATUBE_COOKIE_SECURE":     "server.cookie_secure",
	"YATUBE_TEMPLATES_DIR":     "server.templates_dir",
	"YATUBE_STATIC_DIR":        "server.static_dir",
	"YATUBE_DB_DRIVER":         "database.driver",
	"YATUBE_DB_DSN":            "database.dsn",
	"YATUBE_SESSION_TTL":       "session.expiration",
	"YATUBE_MEDIA_ROOT":        "media.root",
	"YATUBE_MAX_UPLOAD_MB":     "media.max_upload_mb",
	"YATUBE_INDEX_CACHE_TTL":   "cache.index_ttl",
	"YATUBE_RATE_LIMIT":        "rate_limit.enabled",
	"YATUBE_RATE_LIMIT_REQS":   "rate_limit.requests",
	"YATUBE_RATE_LIMIT_WINDOW": "rate_limit.window",
	"YATUBE_LOG_LEVEL":         "logging.level",
	"YATUBE_LOG_FORMAT":        "logging.format",
}

// Load собирает конфигурацию: значения по умолчанию, затем YAML-файл, затем
// переменные окружения. Пустой path означает поиск по DefaultConfigPaths.
func Load(path string) (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	k := koanf.New(".")
	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("config: failed to load defaults: %w", err)
	}

	if path == "" {
		path = findConfigFile()
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("config: failed to load %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("YATUBE_", ".", envTransform), nil); err != nil {
		return nil, fmt.Errorf("config: failed to load environment: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("config: failed to unmarshal: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// envTransform возвращает пустую строку для неизвестных переменных, koanf их пропускает.
func envTransform(key string) string {
	if mapped, ok := envMappings[key]; ok {
		return mapped
	}
	return ""
}

func findConfigFile() string {
	for _, p := range DefaultConfigPaths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// Validate checks values that would otherwise fail much later.
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "sqlite3", "pgx":
	default:
		return fmt.Errorf("config: unsupported database driver %q", c.Database.Driver)
	}
	if strings.TrimSpace(c.Database.DSN) == "" {
		return fmt.Errorf("config: database dsn is empty")
	}
	if c.Session.Expiration <= 0 {
		return fmt.Errorf("config: session expiration must be positive")
	}
	if c.Session.CleanupInterval <= 0 {
		return fmt.Errorf("config: session cleanup_interval must be positive")
	}
	if c.Media.MaxUploadMB <= 0 {
		return fmt.Errorf("config: media max_upload_mb must be positive")
	}
	return nil
}
