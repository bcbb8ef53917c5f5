// Package config loads the optional ghdl configuration file.
package config

// Config represents the global ghdl configuration.
type Config struct {
	// GitHub configuration for repository access.
	GitHub GitHubConfig `json:"github"`
	// Download configuration for the fetch pipeline.
	Download DownloadConfig `json:"download"`
}

// GitHubConfig represents GitHub-specific settings.
type GitHubConfig struct {
	// APIURL is the GitHub API base URL (for enterprise installations).
	APIURL string `json:"api_url"`
	// Timeout is the request timeout in seconds.
	Timeout int `json:"timeout"`
}

// DownloadConfig represents fetch pipeline settings.
type DownloadConfig struct {
	// Concurrency is the default number of parallel downloads.
	// The -j flag overrides it per invocation.
	Concurrency int `json:"concurrency"`
}
