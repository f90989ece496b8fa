package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	AppEnv   string `mapstructure:"APP_ENV"`
	HTTPPort string `mapstructure:"HTTP_PORT"`
	LogLevel string `mapstructure:"LOG_LEVEL"`

	DBDriver       string `mapstructure:"DB_DRIVER"`
	DBHost         string `mapstructure:"DB_HOST"`
	DBPort         int    `mapstructure:"DB_PORT"`
	DBUser         string `mapstructure:"DB_USER"`
	DBPassword     string `mapstructure:"DB_PASSWORD"`
	DBName         string `mapstructure:"DB_NAME"`
	SQLitePath     string `mapstructure:"SQLITE_PATH"`
	MigrationsPath string `mapstructure:"MIGRATIONS_PATH"`

	SessionBackend string        `mapstructure:"SESSION_BACKEND"`
	SessionTTL     time.Duration `mapstructure:"SESSION_TTL"`
	SessionCookie  string        `mapstructure:"SESSION_COOKIE"`
	RedisAddr      string        `mapstructure:"REDIS_ADDR"`
	RedisPassword  string        `mapstructure:"REDIS_PASSWORD"`

	KafkaBrokers string `mapstructure:"KAFKA_BROKERS"`

	RequestTimeout  time.Duration `mapstructure:"REQUEST_TIMEOUT"`
	ShutdownTimeout time.Duration `mapstructure:"SHUTDOWN_TIMEOUT"`
}

var defaults = map[string]interface{}{
	"APP_ENV":          "dev",
	"HTTP_PORT":        "8080",
	"LOG_LEVEL":        "info",
	"DB_DRIVER":        "sqlite",
	"DB_HOST":          "localhost",
	"DB_PORT":          5432,
	"DB_USER":          "postgres",
	"DB_PASSWORD":      "postgres",
	"DB_NAME":          "carrito",
	"SQLITE_PATH":      "carrito.db?_pragma=foreign_keys(1)",
	"MIGRATIONS_PATH":  "",
	"SESSION_BACKEND":  "memory",
	"SESSION_TTL":      "24h",
	"SESSION_COOKIE":   "sid",
	"REDIS_ADDR":       "localhost:6379",
	"REDIS_PASSWORD":   "",
	"KAFKA_BROKERS":    "",
	"REQUEST_TIMEOUT":  "30s",
	"SHUTDOWN_TIMEOUT": "10s",
}

// Load reads configuration from the environment. When CONFIG_FILE points to
// an env file its values are read first and environment variables still win.
func Load() (*Config, error) {
	v := viper.New()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}

	if file := os.Getenv("CONFIG_FILE"); file != "" {
		v.SetConfigFile(file)
		v.SetConfigType("env")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file %s: %w", file, err)
		}
	}
	v.AutomaticEnv()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.MigrationsPath == "" {
		cfg.MigrationsPath = "internal/repository/migrations/" + cfg.DBDriver
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.DBDriver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("DB_DRIVER must be postgres or sqlite, got %q", c.DBDriver)
	}
	switch c.SessionBackend {
	case "redis", "memory":
	default:
		return fmt.Errorf("SESSION_BACKEND must be redis or memory, got %q", c.SessionBackend)
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive")
	}
	return nil
}

// Brokers splits KAFKA_BROKERS on commas. An empty result disables the
// order event publisher.
func (c *Config) Brokers() []string {
	var out []string
	for _, b := range strings.Split(c.KafkaBrokers, ",") {
		if b = strings.TrimSpace(b); b != "" {
			out = append(out, b)
		}
	}
	return out
}

func (c *Config) IsDev() bool {
	return c.AppEnv == "dev"
}
