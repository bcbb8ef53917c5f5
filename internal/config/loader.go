package config

import (
	"encoding/json"
	"os"
)

// Load loads configuration from the specified file path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, NewConfigErrorWithCause(ConfigNotFound, path, "configuration file not found", err)
		}
		return nil, NewConfigErrorWithCause(ConfigInvalid, path, "failed to read configuration file", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, NewConfigErrorWithCause(ConfigInvalid, path, "invalid JSON syntax", err)
	}

	mergeDefaults(&cfg)

	if err := Validate(&cfg, path); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadOrDefault loads configuration or returns defaults if no file exists.
// An empty path also yields the defaults.
func LoadOrDefault(path string) (*Config, error) {
	if path == "" {
		return DefaultConfig(), nil
	}
	cfg, err := Load(path)
	if err != nil {
		if cfgErr, ok := err.(*ConfigError); ok && cfgErr.Type == ConfigNotFound {
			return DefaultConfig(), nil
		}
		return nil, err
	}
	return cfg, nil
}

// Validate validates the configuration.
func Validate(cfg *Config, path string) error {
	if cfg.GitHub.Timeout < 0 {
		return NewConfigErrorWithField(ConfigValidationFailed, path, "github.timeout", "timeout cannot be negative")
	}
	if cfg.Download.Concurrency < 1 {
		return NewConfigErrorWithField(ConfigValidationFailed, path, "download.concurrency", "concurrency must be at least 1")
	}
	return nil
}

// mergeDefaults fills zero-valued fields from the defaults, so a partial
// config file only overrides what it names.
func mergeDefaults(cfg *Config) {
	defaults := DefaultConfig()
	if cfg.GitHub.APIURL == "" {
		cfg.GitHub.APIURL = defaults.GitHub.APIURL
	}
	if cfg.GitHub.Timeout == 0 {
		cfg.GitHub.Timeout = defaults.GitHub.Timeout
	}
	if cfg.Download.Concurrency == 0 {
		cfg.Download.Concurrency = defaults.Download.Concurrency
	}
}
