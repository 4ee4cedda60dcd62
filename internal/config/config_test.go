package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Port:              "5002",
		Env:               "development",
		StorageDriver:     DriverJSON,
		PostsFile:         "data/posts.json",
		CorruptReadPolicy: PolicyStrict,
		DateFormat:        DateLayoutISO,
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(c *Config)
		expectError bool
	}{
		{"Defaults are valid", func(c *Config) {}, false},
		{"Missing port", func(c *Config) { c.Port = "" }, true},
		{"Memory driver needs no path", func(c *Config) { c.StorageDriver = DriverMemory; c.PostsFile = "" }, false},
		{"JSON driver without file", func(c *Config) { c.PostsFile = "" }, true},
		{"SQLite driver without path", func(c *Config) { c.StorageDriver = DriverSQLite }, true},
		{"SQLite driver with path", func(c *Config) { c.StorageDriver = DriverSQLite; c.SQLitePath = "posts.db" }, false},
		{"Postgres driver without DSN", func(c *Config) { c.StorageDriver = DriverPostgres }, true},
		{"Unknown driver", func(c *Config) { c.StorageDriver = "mongo" }, true},
		{"Lenient policy", func(c *Config) { c.CorruptReadPolicy = PolicyLenient }, false},
		{"Unknown policy", func(c *Config) { c.CorruptReadPolicy = "ignore" }, true},
		{"Day-first date layout", func(c *Config) { c.DateFormat = DateLayoutDayFirst }, false},
		{"Unknown date layout", func(c *Config) { c.DateFormat = "01/02/2006" }, true},
		{"Negative rate limit", func(c *Config) { c.RateLimitPerMinute = -1 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validConfig()
			tt.mutate(c)

			err := c.Validate()
			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	defer viper.Reset()
	t.Setenv("APP_ENV", "test")

	c, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "5002", c.Port)
	assert.Equal(t, DriverJSON, c.StorageDriver)
	assert.Equal(t, "data/posts.json", c.PostsFile)
	assert.Equal(t, PolicyStrict, c.CorruptReadPolicy)
	assert.Equal(t, DateLayoutISO, c.DateFormat)
	assert.True(t, c.RequireAuthor)
	assert.Equal(t, 10, c.RateLimitPerMinute)
	assert.True(t, c.IsTest())
}

func TestLoadConfig_NormalizesEnvironment(t *testing.T) {
	defer viper.Reset()
	t.Setenv("APP_ENV", "test")
	t.Setenv("STORAGE_DRIVER", "  MEMORY ")
	t.Setenv("CORRUPT_READ_POLICY", "Lenient")

	c, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, DriverMemory, c.StorageDriver)
	assert.Equal(t, PolicyLenient, c.CorruptReadPolicy)
}

func TestLoadConfig_RejectsInvalidDriver(t *testing.T) {
	defer viper.Reset()
	t.Setenv("APP_ENV", "test")
	t.Setenv("STORAGE_DRIVER", "cassandra")

	_, err := LoadConfig()
	assert.Error(t, err)
}
