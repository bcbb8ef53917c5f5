package cli

import (
	"os"
	"path/filepath"
	"testing"
)

// TestGetGitHubTokenPriority tests the token source precedence
func TestGetGitHubTokenPriority(t *testing.T) {
	t.Setenv("GITHUB_TOKEN", "from-github-token")
	t.Setenv("GH_TOKEN", "from-gh-token")

	if got := getGitHubToken(); got != "from-github-token" {
		t.Errorf("getGitHubToken() = %q, want GITHUB_TOKEN to win", got)
	}

	t.Setenv("GITHUB_TOKEN", "")
	if got := getGitHubToken(); got != "from-gh-token" {
		t.Errorf("getGitHubToken() = %q, want GH_TOKEN fallback", got)
	}
}

// TestLoadDotEnvWalksAncestors tests .env discovery from a nested working directory
func TestLoadDotEnvWalksAncestors(t *testing.T) {
	base := t.TempDir()
	nested := filepath.Join(base, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}
	envFile := filepath.Join(base, ".env")
	if err := os.WriteFile(envFile, []byte("GHDL_TEST_DOTENV=loaded\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(nested); err != nil {
		t.Fatal(err)
	}
	defer os.Chdir(wd)

	t.Setenv("GHDL_TEST_DOTENV", "")
	os.Unsetenv("GHDL_TEST_DOTENV")

	loadDotEnv()

	if got := os.Getenv("GHDL_TEST_DOTENV"); got != "loaded" {
		t.Errorf("GHDL_TEST_DOTENV = %q, want value from ancestor .env", got)
	}
}

// TestLoadDotEnvDoesNotOverwrite tests that real environment variables win over .env
func TestLoadDotEnvDoesNotOverwrite(t *testing.T) {
	base := t.TempDir()
	if err := os.WriteFile(filepath.Join(base, ".env"), []byte("GHDL_TEST_DOTENV=from-file\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(base); err != nil {
		t.Fatal(err)
	}
	defer os.Chdir(wd)

	t.Setenv("GHDL_TEST_DOTENV", "from-env")

	loadDotEnv()

	if got := os.Getenv("GHDL_TEST_DOTENV"); got != "from-env" {
		t.Errorf("GHDL_TEST_DOTENV = %q, real environment must win", got)
	}
}
