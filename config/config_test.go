package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfig(t *testing.T) {
	// Test with default values
	config := LoadConfig()
	assert.Equal(t, "pricetracker.db", config.DBPath)
	assert.Equal(t, ":8080", config.ListenAddr)
	assert.Equal(t, "@every 1h", config.ScrapeSchedule)
	assert.Equal(t, 30*time.Second, config.ScrapeTimeout)
	assert.Equal(t, 15*time.Second, config.TitleFetchTimeout)
	assert.Equal(t, 10*time.Second, config.WebhookTimeout)
	assert.Equal(t, "", config.RedisAddr)
	assert.Equal(t, "", config.MemcacheAddr)

	// Test with environment variables
	os.Setenv("DB_PATH", "/tmp/test.db")
	os.Setenv("LISTEN_ADDR", ":9090")
	os.Setenv("SCRAPE_SCHEDULE", "@every 10m")
	os.Setenv("SCRAPE_TIMEOUT_SECONDS", "5")
	os.Setenv("REDIS_ADDR", "redis.example.com:6379")
	os.Setenv("REDIS_DB", "1")

	config = LoadConfig()
	assert.Equal(t, "/tmp/test.db", config.DBPath)
	assert.Equal(t, ":9090", config.ListenAddr)
	assert.Equal(t, "@every 10m", config.ScrapeSchedule)
	assert.Equal(t, 5*time.Second, config.ScrapeTimeout)
	assert.Equal(t, "redis.example.com:6379", config.RedisAddr)
	assert.Equal(t, 1, config.RedisDB)

	// Clean up
	os.Unsetenv("DB_PATH")
	os.Unsetenv("LISTEN_ADDR")
	os.Unsetenv("SCRAPE_SCHEDULE")
	os.Unsetenv("SCRAPE_TIMEOUT_SECONDS")
	os.Unsetenv("REDIS_ADDR")
	os.Unsetenv("REDIS_DB")
}

func TestValidate(t *testing.T) {
	config := LoadConfig()
	assert.NoError(t, config.Validate())

	config.DBPath = ""
	assert.Error(t, config.Validate())

	config = LoadConfig()
	config.ScrapeTimeout = 0
	assert.Error(t, config.Validate())
}
