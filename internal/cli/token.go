package cli

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/tacogips/ghdl/internal/debug"
)

// loadDotEnv loads the first .env file found in the working directory or
// one of its ancestors. godotenv.Load never overwrites variables that are
// already set, so a real environment variable always wins.
func loadDotEnv() {
	dir, err := os.Getwd()
	if err != nil {
		return
	}
	for {
		envPath := filepath.Join(dir, ".env")
		if _, err := os.Stat(envPath); err == nil {
			if err := godotenv.Load(envPath); err != nil {
				debug.Debug("[cli] failed to load %s: %v", envPath, err)
			} else {
				debug.DebugValue("[cli] loaded env file", envPath)
			}
			return
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return
		}
		dir = parent
	}
}

// getGitHubToken retrieves the GitHub token for API requests.
// Priority: GITHUB_TOKEN env > GH_TOKEN env > gh auth token command.
// An empty result means unauthenticated requests.
func getGitHubToken() string {
	if token := os.Getenv("GITHUB_TOKEN"); token != "" {
		return token
	}
	if token := os.Getenv("GH_TOKEN"); token != "" {
		return token
	}

	// Fall back to the gh CLI's credential storage when available.
	if _, err := exec.LookPath("gh"); err == nil {
		output, err := exec.Command("gh", "auth", "token").Output()
		if err == nil {
			if token := strings.TrimSpace(string(output)); token != "" {
				return token
			}
		}
	}

	return ""
}
