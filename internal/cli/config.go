package cli

import (
	"os"
)

// Config holds CLI configuration
type Config struct {
	BaseURL string
	APIKey  string
	Output  string
	Verbose bool
}

// DefaultConfig returns a Config with default values
func DefaultConfig() *Config {
	return &Config{
		BaseURL: getEnvOrDefault("INDUSBRIDGE_URL", "https://indusnetwork.highms.pro"),
		APIKey:  os.Getenv("INDUSBRIDGE_API_KEY"),
		Output:  "text",
		Verbose: false,
	}
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
