package redis

import "time"

// Config holds Redis connection and behavior settings.
type Config struct {
	// URL is the Redis connection URL (e.g., redis://localhost:6379)
	URL string

	// Pool settings
	PoolSize     int
	MinIdleConns int

	// AccountTTL bounds how long a snapshot survives without a refresh.
	// Zero means no expiry.
	AccountTTL time.Duration
}

// DefaultConfig returns sensible defaults for Redis configuration.
func DefaultConfig() Config {
	return Config{
		URL:          "redis://localhost:6379",
		PoolSize:     10,
		MinIdleConns: 2,
		AccountTTL:   24 * time.Hour,
	}
}
