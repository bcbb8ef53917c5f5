package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/tacogips/ghdl/internal/app"
	"github.com/tacogips/ghdl/internal/config"
)

// downloadCmd represents the download command
var downloadCmd = &cobra.Command{
	Use:   "download <url>",
	Short: "Download a GitHub folder",
	Long: `Download the folder behind a GitHub browsing URL into a local directory.

The URL may point at a repository root or at a subdirectory on a specific
branch, tag or commit:

  https://github.com/owner/repo
  https://github.com/owner/repo/tree/main/path/to/dir

A hidden .github-dl.json sidecar is written into the output directory so
"ghdl refresh" can re-fetch it later.

Examples:
  ghdl download https://github.com/rust-lang/book/tree/main/src -o ./book-src
  ghdl download https://github.com/owner/repo -o ./repo -j 10
  ghdl download https://github.com/owner/repo/tree/main/docs -o ./docs --force`,
	Args: cobra.ExactArgs(1),
	RunE: runDownload,
}

// Download command flags
var (
	downloadOutput string
	downloadJobs   int
	downloadForce  bool
)

func init() {
	// Flags for download
	downloadCmd.Flags().StringVarP(&downloadOutput, "output", "o", "", "Output directory to save the folder (required)")
	downloadCmd.Flags().IntVarP(&downloadJobs, "jobs", "j", 0, "Number of parallel downloads (default 5)")
	downloadCmd.Flags().BoolVarP(&downloadForce, "force", "f", false, "Overwrite a non-empty output directory without asking")
	downloadCmd.MarkFlagRequired("output")
}

func runDownload(cmd *cobra.Command, args []string) error {
	url := args[0]

	cfg, err := config.LoadOrDefault(config.DefaultConfigPath())
	if err != nil {
		printErrorMsg(fmt.Sprintf("Invalid configuration: %v", err))
		return err
	}

	jobs := downloadJobs
	if jobs <= 0 {
		jobs = cfg.Download.Concurrency
	}

	// Refuse to silently mix a download into an existing directory.
	nonEmpty, err := app.OutputDirNonEmpty(downloadOutput)
	if err != nil {
		return err
	}
	if nonEmpty && !downloadForce {
		overwrite, err := confirmOverwrite(downloadOutput)
		if err != nil {
			return err
		}
		if !overwrite {
			printInfo("Aborted.")
			return nil
		}
	}

	printProgress(fmt.Sprintf("Downloading %s", url))

	result, err := app.Download(cmd.Context(), app.DownloadOptions{
		URL:         url,
		OutputDir:   downloadOutput,
		Concurrency: jobs,
		GitHubToken: getGitHubToken(),
		APIBaseURL:  cfg.GitHub.APIURL,
		Timeout:     time.Duration(cfg.GitHub.Timeout) * time.Second,
	})

	if err != nil {
		if result != nil && len(result.Failed) > 0 {
			// Partial success: the run failed, but report what made it.
			printWarning(fmt.Sprintf("%d of %d files failed to download:", len(result.Failed), result.FilesTotal))
			for _, f := range result.Failed {
				printErrorMsg(fmt.Sprintf("  %v", f))
			}
			printInfo(fmt.Sprintf("%d files were downloaded to %s before the failures", result.Downloaded, downloadOutput))
		} else {
			printErrorMsg(fmt.Sprintf("Download failed: %v", err))
		}
		return err
	}

	printSuccess(fmt.Sprintf("Downloaded %d files to %s", result.Downloaded, downloadOutput))
	if result.Skipped > 0 {
		printInfo(fmt.Sprintf("  Skipped: %d entries without downloadable content", result.Skipped))
	}
	printInfo(fmt.Sprintf("  Source: %s", result.Coordinate))
	return nil
}
