package config

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Storefront StorefrontConfig `mapstructure:"storefront"`
	Session    SessionConfig    `mapstructure:"session"`
	Database   DatabaseConfig   `mapstructure:"database"`
	CORS       CORSConfig       `mapstructure:"cors"`
	Log        LogConfig        `mapstructure:"log"`
}

type ServerConfig struct {
	Host                    string        `mapstructure:"host"`
	Port                    int           `mapstructure:"port"`
	Mode                    string        `mapstructure:"mode"`
	ReadTimeout             time.Duration `mapstructure:"read_timeout"`
	WriteTimeout            time.Duration `mapstructure:"write_timeout"`
	GracefulShutdownTimeout time.Duration `mapstructure:"graceful_shutdown_timeout"`
}

// StorefrontConfig points at the remote commerce GraphQL API.
type StorefrontConfig struct {
	StoreDomain string        `mapstructure:"store_domain"`
	APIVersion  string        `mapstructure:"api_version"`
	AccessToken string        `mapstructure:"access_token"`
	Country     string        `mapstructure:"country"`
	Language    string        `mapstructure:"language"`
	Timeout     time.Duration `mapstructure:"timeout"`
	CacheTTL    time.Duration `mapstructure:"cache_ttl"`
}

type SessionConfig struct {
	Backend    string        `mapstructure:"backend"` // "cookie" | "memory" | "redis" | "postgres"
	CookieName string        `mapstructure:"cookie_name"`
	Secret     string        `mapstructure:"secret"`
	MaxAge     time.Duration `mapstructure:"max_age"`
	Secure     bool          `mapstructure:"secure"`
}

type DatabaseConfig struct {
	Postgres PostgresConfig `mapstructure:"postgres"`
	Redis    RedisConfig    `mapstructure:"redis"`
}

type PostgresConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	DB              string        `mapstructure:"db"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	AutoMigrate     bool          `mapstructure:"auto_migrate"`
}

type RedisConfig struct {
	Host      string `mapstructure:"host"`
	Port      int    `mapstructure:"port"`
	Password  string `mapstructure:"password"`
	DB        int    `mapstructure:"db"`
	PoolSize  int    `mapstructure:"pool_size"`
	KeyPrefix string `mapstructure:"key_prefix"`
}

type CORSConfig struct {
	AllowedOrigins   []string      `mapstructure:"allowed_origins"`
	AllowedMethods   []string      `mapstructure:"allowed_methods"`
	AllowedHeaders   []string      `mapstructure:"allowed_headers"`
	AllowCredentials bool          `mapstructure:"allow_credentials"`
	MaxAge           time.Duration `mapstructure:"max_age"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads config.yaml, overlays environment variables, and returns Config.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	setDefaults(v)

	// Environment variable override: STOREFRONT_ACCESS_TOKEN -> storefront.access_token
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 3000)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.read_timeout", 10*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)
	v.SetDefault("server.graceful_shutdown_timeout", 10*time.Second)

	v.SetDefault("storefront.api_version", "2023-04")
	v.SetDefault("storefront.country", "US")
	v.SetDefault("storefront.language", "EN")
	v.SetDefault("storefront.timeout", 10*time.Second)
	v.SetDefault("storefront.cache_ttl", 10*time.Second)

	v.SetDefault("session.backend", "cookie")
	v.SetDefault("session.cookie_name", "session")
	v.SetDefault("session.max_age", 30*24*time.Hour)

	v.SetDefault("database.redis.key_prefix", "storefront:")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
}

// Validate rejects configurations the server cannot start with.
func (c *Config) Validate() error {
	if c.Storefront.StoreDomain == "" {
		return errors.New("storefront.store_domain is required")
	}
	if c.Storefront.AccessToken == "" {
		return errors.New("storefront.access_token is required")
	}
	if c.Session.Secret == "" {
		return errors.New("session.secret is required")
	}
	switch c.Session.Backend {
	case "cookie", "memory", "redis", "postgres":
	default:
		return errors.New("session.backend must be one of cookie, memory, redis, postgres")
	}
	return nil
}
