package config

import (
	"os"
	"path/filepath"
)

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		GitHub: GitHubConfig{
			APIURL:  "https://api.github.com",
			Timeout: 30,
		},
		Download: DownloadConfig{
			Concurrency: 5,
		},
	}
}

// DefaultConfigPath returns the default configuration file path.
// The GHDL_CONFIG environment variable overrides it.
func DefaultConfigPath() string {
	if p := os.Getenv("GHDL_CONFIG"); p != "" {
		return p
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(homeDir, ".config", "ghdl", "config.json")
}
