package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/tacogips/ghdl/internal/app"
	"github.com/tacogips/ghdl/internal/config"
)

// refreshCmd represents the refresh command
var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Refresh all downloaded folders",
	Long: `Re-download every managed folder found beneath the base directory.

A folder is managed when it contains a .github-dl.json sidecar written by
"ghdl download". Each folder is refreshed independently against the
coordinate stored in its sidecar; one broken folder does not stop the
others. The sidecar timestamp is updated after a successful refresh.

Examples:
  ghdl refresh
  ghdl refresh --base-dir ~/notes
  ghdl refresh -j 10`,
	Args: cobra.NoArgs,
	RunE: runRefresh,
}

// Refresh command flags
var (
	refreshBaseDir string
	refreshJobs    int
)

func init() {
	// Flags for refresh
	refreshCmd.Flags().StringVarP(&refreshBaseDir, "base-dir", "b", ".", "Base directory to search for downloaded folders")
	refreshCmd.Flags().IntVarP(&refreshJobs, "jobs", "j", 0, "Number of parallel downloads per folder (default 5)")
}

func runRefresh(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadOrDefault(config.DefaultConfigPath())
	if err != nil {
		printErrorMsg(fmt.Sprintf("Invalid configuration: %v", err))
		return err
	}

	jobs := refreshJobs
	if jobs <= 0 {
		jobs = cfg.Download.Concurrency
	}

	result, runErr := app.Refresh(cmd.Context(), app.RefreshOptions{
		BaseDir:     refreshBaseDir,
		Concurrency: jobs,
		GitHubToken: getGitHubToken(),
		APIBaseURL:  cfg.GitHub.APIURL,
		Timeout:     time.Duration(cfg.GitHub.Timeout) * time.Second,
	})
	if result == nil {
		printErrorMsg(fmt.Sprintf("Refresh failed: %v", runErr))
		return runErr
	}

	if len(result.Units) == 0 {
		printInfo(fmt.Sprintf("No downloaded folders found in %s", refreshBaseDir))
		return nil
	}

	succeeded := 0
	for i := range result.Units {
		unit := &result.Units[i]
		switch {
		case unit.Err != nil:
			printErrorMsg(fmt.Sprintf("%s: %v", unit.Dir, unit.Err))
		case unit.Missing:
			printWarning(fmt.Sprintf("%s: remote folder %s no longer exists, skipped", unit.Dir, unit.URL))
		default:
			printSuccess(fmt.Sprintf("Refreshed %s (%d files)", unit.Dir, unit.Downloaded))
			succeeded++
		}
	}

	printSeparator()
	if failed := result.FailedCount(); failed > 0 {
		printWarning(fmt.Sprintf("Refreshed %d of %d folders, %d failed", succeeded, len(result.Units), failed))
	} else {
		printSuccess(fmt.Sprintf("Refreshed %d folders", succeeded))
	}
	return runErr
}
