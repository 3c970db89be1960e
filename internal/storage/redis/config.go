package redis

import "time"

// Config holds Redis connection settings
type Config struct {
	// URL is the Redis connection URL, e.g. redis://localhost:6379/0
	URL string

	// Pool settings
	PoolSize     int
	MinIdleConns int

	// ConnectTimeout bounds the startup ping
	ConnectTimeout time.Duration
}

// DefaultConfig returns the settings used when only a URL is configured
func DefaultConfig() Config {
	return Config{
		URL:            "redis://localhost:6379",
		PoolSize:       10,
		MinIdleConns:   2,
		ConnectTimeout: 5 * time.Second,
	}
}
