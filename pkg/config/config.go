package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"
)

type Config struct {
	AppURL string `mapstructure:"app_url"`

	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Session   SessionConfig   `mapstructure:"session"`
	GitHub    GitHubConfig    `mapstructure:"github"`
	Media     MediaConfig     `mapstructure:"media"`
	Content   ContentConfig   `mapstructure:"content"`
	Log       LogConfig       `mapstructure:"log"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Cache     CacheConfig     `mapstructure:"cache"`
}

type ServerConfig struct {
	Addr            string        `mapstructure:"addr"`
	Mode            string        `mapstructure:"mode"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type DatabaseConfig struct {
	// Driver is "sqlite" or "postgres".
	Driver       string        `mapstructure:"driver"`
	DSN          string        `mapstructure:"dsn"`
	MaxOpenConns int           `mapstructure:"max_open_conns"`
	MaxIdleConns int           `mapstructure:"max_idle_conns"`
	ConnMaxLife  time.Duration `mapstructure:"conn_max_life"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Prefix   string `mapstructure:"prefix"`
}

type SessionConfig struct {
	Secret string `mapstructure:"secret"`
	Name   string `mapstructure:"name"`
	Secure bool   `mapstructure:"secure"`
}

type GitHubConfig struct {
	ClientID     string `mapstructure:"client_id"`
	ClientSecret string `mapstructure:"client_secret"`
	RedirectURL  string `mapstructure:"redirect_url"`
}

type MediaConfig struct {
	Dir       string `mapstructure:"dir"`
	PublicURL string `mapstructure:"public_url"`
	MaxBytes  int64  `mapstructure:"max_bytes"`
}

type ContentConfig struct {
	// ImportRoot bounds the directories the admin import may read.
	ImportRoot string `mapstructure:"import_root"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type RateLimitConfig struct {
	// PerMinute is the sustained number of write requests per client IP.
	PerMinute int `mapstructure:"per_minute"`
	Burst     int `mapstructure:"burst"`
}

type CacheConfig struct {
	TTL             time.Duration `mapstructure:"ttl"`
	RefreshInterval time.Duration `mapstructure:"refresh_interval"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app_url", "http://localhost:8080")

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)

	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "./data/site.db")
	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_life", time.Hour)

	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.prefix", "ffw:")

	v.SetDefault("session.secret", "")
	v.SetDefault("session.name", "ffw_admin")
	v.SetDefault("session.secure", false)

	// Keys without a default are invisible to AutomaticEnv during Unmarshal.
	v.SetDefault("github.client_id", "")
	v.SetDefault("github.client_secret", "")
	v.SetDefault("github.redirect_url", "")

	v.SetDefault("media.dir", "./data/media")
	v.SetDefault("media.public_url", "/media/")
	v.SetDefault("media.max_bytes", 10<<20)

	v.SetDefault("content.import_root", "./content")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetDefault("rate_limit.per_minute", 5)
	v.SetDefault("rate_limit.burst", 3)

	v.SetDefault("cache.ttl", 5*time.Minute)
	v.SetDefault("cache.refresh_interval", 4*time.Minute)
}

// Load reads .env (if present), an optional config file and the environment.
// Environment keys are the upper-cased config paths with dots replaced by
// underscores, e.g. DATABASE_DSN or REDIS_ADDR.
func Load(configFile string) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found or error loading it.")
	}

	v := viper.New()
	setDefaults(v)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", configFile, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if cfg.GitHub.RedirectURL == "" {
		cfg.GitHub.RedirectURL = strings.TrimRight(cfg.AppURL, "/") + "/admin/auth/callback"
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}
	switch c.Server.Mode {
	case "release", "debug", "test":
	default:
		return fmt.Errorf("unsupported server mode %q", c.Server.Mode)
	}
	if c.Session.Secret == "" && c.Server.Mode == "release" {
		return fmt.Errorf("SESSION_SECRET must be set in release mode")
	}
	return nil
}

// OAuth returns the GitHub OAuth config, or nil when no client is configured.
func (c *Config) OAuth() *oauth2.Config {
	if c.GitHub.ClientID == "" {
		return nil
	}
	return &oauth2.Config{
		ClientID:     c.GitHub.ClientID,
		ClientSecret: c.GitHub.ClientSecret,
		Scopes:       []string{"read:user", "user:email"},
		Endpoint:     github.Endpoint,
		RedirectURL:  c.GitHub.RedirectURL,
	}
}
