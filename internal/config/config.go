// Package config provides application configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/spf13/viper"
)

// Storage drivers accepted by STORAGE_DRIVER.
const (
	DriverJSON     = "json"
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Corrupt read policies accepted by CORRUPT_READ_POLICY.
const (
	PolicyStrict  = "strict"
	PolicyLenient = "lenient"
)

// Date layouts accepted by DATE_FORMAT.
const (
	DateLayoutISO      = "2006-01-02"
	DateLayoutDayFirst = "02-01-2006"
)

// Config holds application configuration values loaded from file or environment variables.
type Config struct {
	Port               string  `mapstructure:"PORT"`
	Env                string  `mapstructure:"APP_ENV"`
	LogLevel           string  `mapstructure:"LOG_LEVEL"`
	StorageDriver      string  `mapstructure:"STORAGE_DRIVER"`
	PostsFile          string  `mapstructure:"POSTS_FILE"`
	SQLitePath         string  `mapstructure:"SQLITE_PATH"`
	DatabaseURL        string  `mapstructure:"DATABASE_URL"`
	CorruptReadPolicy  string  `mapstructure:"CORRUPT_READ_POLICY"`
	DateFormat         string  `mapstructure:"DATE_FORMAT"`
	RequireAuthor      bool    `mapstructure:"REQUIRE_AUTHOR"`
	AllowedOrigins     string  `mapstructure:"ALLOWED_ORIGINS"`
	RedisURL           string  `mapstructure:"REDIS_URL"`
	RateLimitPerMinute int     `mapstructure:"RATE_LIMIT_PER_MINUTE"`
	TracingEnabled     bool    `mapstructure:"TRACING_ENABLED"`
	TracingExporter    string  `mapstructure:"TRACING_EXPORTER"`
	OTLPEndpoint       string  `mapstructure:"OTLP_ENDPOINT"`
	TracingSampleRatio float64 `mapstructure:"TRACING_SAMPLE_RATIO"`
}

// LoadConfig loads application configuration from file and environment variables.
func LoadConfig() (*Config, error) {
	viper.AddConfigPath(".")
	viper.AddConfigPath("..")
	viper.AddConfigPath("../..")
	viper.SetConfigName("config")
	viper.SetConfigType("yml")
	viper.AutomaticEnv()

	// The base config file is optional.
	_ = viper.ReadInConfig()

	env := viper.GetString("APP_ENV")
	if env != "" && env != "development" && env != "test" {
		viper.SetConfigName("config." + env)
		if err := viper.MergeInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config.%s.yml: %w", env, err)
			}
		} else {
			log.Printf("Loaded profile-specific configuration: config.%s.yml", env)
		}
	}

	viper.SetDefault("PORT", "5002")
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("STORAGE_DRIVER", DriverJSON)
	viper.SetDefault("POSTS_FILE", "data/posts.json")
	viper.SetDefault("SQLITE_PATH", "data/posts.db")
	viper.SetDefault("DATABASE_URL", "")
	viper.SetDefault("CORRUPT_READ_POLICY", PolicyStrict)
	viper.SetDefault("DATE_FORMAT", DateLayoutISO)
	viper.SetDefault("REQUIRE_AUTHOR", true)
	viper.SetDefault("ALLOWED_ORIGINS", "*")
	viper.SetDefault("REDIS_URL", "")
	viper.SetDefault("RATE_LIMIT_PER_MINUTE", 10)
	viper.SetDefault("TRACING_ENABLED", false)
	viper.SetDefault("TRACING_EXPORTER", "stdout")
	viper.SetDefault("OTLP_ENDPOINT", "")
	viper.SetDefault("TRACING_SAMPLE_RATIO", 1.0)

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}

	config.normalize()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

func (c *Config) normalize() {
	c.StorageDriver = strings.ToLower(strings.TrimSpace(c.StorageDriver))
	c.CorruptReadPolicy = strings.ToLower(strings.TrimSpace(c.CorruptReadPolicy))
	c.Env = strings.ToLower(strings.TrimSpace(c.Env))
	c.DateFormat = strings.TrimSpace(c.DateFormat)
}

// Validate ensures that required configuration values are present and consistent.
func (c *Config) Validate() error {
	if c.Port == "" {
		return errors.New("PORT is required")
	}

	switch c.StorageDriver {
	case DriverJSON:
		if c.PostsFile == "" {
			return errors.New("POSTS_FILE is required for the json storage driver")
		}
	case DriverMemory:
	case DriverSQLite:
		if c.SQLitePath == "" {
			return errors.New("SQLITE_PATH is required for the sqlite storage driver")
		}
	case DriverPostgres:
		if c.DatabaseURL == "" {
			return errors.New("DATABASE_URL is required for the postgres storage driver")
		}
	default:
		return fmt.Errorf("unsupported STORAGE_DRIVER %q", c.StorageDriver)
	}

	switch c.CorruptReadPolicy {
	case PolicyStrict, PolicyLenient:
	default:
		return fmt.Errorf("unsupported CORRUPT_READ_POLICY %q", c.CorruptReadPolicy)
	}

	switch c.DateFormat {
	case DateLayoutISO, DateLayoutDayFirst:
	default:
		return fmt.Errorf("unsupported DATE_FORMAT %q (use %s or %s)", c.DateFormat, DateLayoutISO, DateLayoutDayFirst)
	}

	if c.RateLimitPerMinute < 0 {
		return errors.New("RATE_LIMIT_PER_MINUTE must not be negative")
	}

	if c.IsProduction() {
		if c.CorruptReadPolicy == PolicyLenient {
			log.Println("WARNING: CORRUPT_READ_POLICY is 'lenient' in production. Unreadable post data will be served as an empty collection.")
		}
		if c.AllowedOrigins == "*" {
			log.Println("WARNING: ALLOWED_ORIGINS is set to '*' in production.")
		}
	}

	return nil
}

// IsProduction reports whether the production profile is active.
func (c *Config) IsProduction() bool {
	return c.Env == "production" || c.Env == "prod"
}

// IsTest reports whether the test profile is active.
func (c *Config) IsTest() bool {
	return c.Env == "test"
}
