package cli

import "os"

// Config holds CLI configuration
type Config struct {
	ServerURL string
	Output    string
}

// DefaultConfig returns a Config with default values
func DefaultConfig() *Config {
	server := os.Getenv("LASERTAG_SERVER")
	if server == "" {
		server = "http://localhost:8080"
	}
	return &Config{
		ServerURL: server,
		Output:    "text",
	}
}
