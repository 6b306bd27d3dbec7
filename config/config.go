package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config represents the application configuration
type Config struct {
	// Database configuration
	DBPath string

	// HTTP API configuration
	ListenAddr string

	// Scrape configuration
	ScrapeSchedule    string
	ScrapeTimeout     time.Duration
	TitleFetchTimeout time.Duration
	WebhookTimeout    time.Duration
	CooldownBlockTime time.Duration

	// Redis configuration (optional event feed)
	RedisAddr            string
	RedisDB              int
	RedisStream          string
	RedisStreamCount     int
	RedisStreamMaxLength int

	// Memcache configuration (optional fetch-cooldown cache)
	MemcacheAddr string

	// Environment
	Environment string
}

// LoadConfig loads the configuration from environment variables with defaults
func LoadConfig() *Config {
	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))
	streamCount, _ := strconv.Atoi(getEnv("REDIS_STREAM_COUNT", "1"))
	streamMaxLen, _ := strconv.Atoi(getEnv("REDIS_STREAM_MAX_LENGTH", "500"))
	scrapeTimeout, _ := strconv.Atoi(getEnv("SCRAPE_TIMEOUT_SECONDS", "30"))
	titleTimeout, _ := strconv.Atoi(getEnv("TITLE_FETCH_TIMEOUT_SECONDS", "15"))
	webhookTimeout, _ := strconv.Atoi(getEnv("WEBHOOK_TIMEOUT_SECONDS", "10"))
	blockTime, _ := strconv.Atoi(getEnv("COOLDOWN_BLOCK_SECONDS", "300"))

	return &Config{
		DBPath:               getEnv("DB_PATH", "pricetracker.db"),
		ListenAddr:           getEnv("LISTEN_ADDR", ":8080"),
		ScrapeSchedule:       getEnv("SCRAPE_SCHEDULE", "@every 1h"),
		ScrapeTimeout:        time.Duration(scrapeTimeout) * time.Second,
		TitleFetchTimeout:    time.Duration(titleTimeout) * time.Second,
		WebhookTimeout:       time.Duration(webhookTimeout) * time.Second,
		CooldownBlockTime:    time.Duration(blockTime) * time.Second,
		RedisAddr:            getEnv("REDIS_ADDR", ""),
		RedisDB:              redisDB,
		RedisStream:          getEnv("REDIS_STREAM", "pricetracker"),
		RedisStreamCount:     streamCount,
		RedisStreamMaxLength: streamMaxLen,
		MemcacheAddr:         getEnv("MEMCACHE_ADDR", ""),
		Environment:          getEnv("TRACKER_ENVIRONMENT", "development"),
	}
}

// Validate checks the configuration for invalid values
func (c *Config) Validate() error {
	if c.DBPath == "" {
		return fmt.Errorf("DB_PATH must not be empty")
	}
	if c.ScrapeTimeout <= 0 {
		return fmt.Errorf("SCRAPE_TIMEOUT_SECONDS must be positive")
	}
	if c.WebhookTimeout <= 0 {
		return fmt.Errorf("WEBHOOK_TIMEOUT_SECONDS must be positive")
	}
	if c.RedisStreamCount <= 0 {
		return fmt.Errorf("REDIS_STREAM_COUNT must be positive")
	}
	return nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
