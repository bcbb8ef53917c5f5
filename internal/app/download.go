// Package app implements the download and refresh workflows on top of the
// resolver, lister, scheduler and metadata store.
package app

import (
	"context"
	"errors"
	"io"
	"os"
	"time"

	"github.com/tacogips/ghdl/internal/debug"
	"github.com/tacogips/ghdl/internal/fetch"
	"github.com/tacogips/ghdl/internal/github"
	"github.com/tacogips/ghdl/internal/meta"
	"github.com/tacogips/ghdl/internal/tree"
)

// DownloadOptions contains options for the download command.
type DownloadOptions struct {
	// URL is the GitHub browsing URL of the folder to download.
	URL string
	// OutputDir is the directory the subtree is written to.
	OutputDir string
	// Concurrency bounds parallel downloads and directory listings.
	// Zero means the scheduler default.
	Concurrency int
	// GitHubToken is the optional bearer token.
	GitHubToken string
	// APIBaseURL overrides the GitHub API base URL (tests, enterprise hosts).
	APIBaseURL string
	// Timeout bounds a single API request. Zero means the client default.
	Timeout time.Duration
}

// DownloadResult contains the results of the download operation.
type DownloadResult struct {
	// Coordinate is the resolved repository coordinate.
	Coordinate github.Coordinate
	// FilesTotal is the number of file entries in the manifest.
	FilesTotal int
	// Downloaded is the number of files written.
	Downloaded int
	// Skipped is the number of file entries with no fetchable content.
	Skipped int
	// Failed lists per-file failures; non-empty only on partial failure.
	Failed []*fetch.FileError
}

// Download resolves the URL, lists the remote subtree, materializes it
// beneath OutputDir and writes the sidecar. On partial failure the result
// carries the per-file errors and the returned AppError has type
// DownloadFailed; the sidecar is only written after a fully clean run.
func Download(ctx context.Context, opts DownloadOptions) (*DownloadResult, error) {
	debug.DebugSection("[app] Download workflow start")
	debug.DebugValue("[app] URL", opts.URL)
	debug.DebugValue("[app] OutputDir", opts.OutputDir)
	debug.DebugValue("[app] Concurrency", opts.Concurrency)

	if opts.OutputDir == "" {
		return nil, NewValidationError("output directory cannot be empty", nil)
	}

	coord, err := github.ParseTreeURL(opts.URL)
	if err != nil {
		return nil, NewResolveError("failed to resolve URL", err)
	}

	client := newClient(opts.GitHubToken, opts.APIBaseURL, opts.Timeout)

	// URLs without a /tree/ref segment point at the default branch, which
	// takes one extra API call to name.
	if coord.Ref == "" {
		debug.Debug("[app] resolving default branch for %s/%s", coord.Owner, coord.Repo)
		ref, err := client.DefaultBranch(ctx, coord.Owner, coord.Repo)
		if err != nil {
			return nil, NewResolveError("failed to resolve default branch", err)
		}
		coord.Ref = ref
	}
	debug.DebugValue("[app] Coordinate", coord)

	result, err := fetchTree(ctx, client, *coord, opts.OutputDir, opts.Concurrency)
	if err != nil {
		return result, err
	}

	if err := meta.Write(opts.OutputDir, meta.FromCoordinate(*coord, time.Now().UTC())); err != nil {
		return result, NewMetadataError("failed to write folder metadata", err)
	}

	debug.Debug("[app] Download workflow completed successfully")
	return result, nil
}

// fetchTree runs the list-then-materialize pipeline shared by download and
// refresh. The listing fully completes before any download is scheduled.
func fetchTree(ctx context.Context, client *github.Client, coord github.Coordinate, destRoot string, concurrency int) (*DownloadResult, error) {
	lister := tree.NewLister(client)
	if concurrency > 0 {
		lister.Concurrency = concurrency
	}
	entries, err := lister.ListTree(ctx, coord)
	if err != nil {
		return nil, NewListError("failed to list remote directory", err)
	}

	filesTotal := 0
	for _, e := range entries {
		if e.Kind == tree.File {
			filesTotal++
		}
	}

	scheduler := fetch.NewScheduler(client)
	if concurrency > 0 {
		scheduler.Concurrency = concurrency
	}
	res, err := scheduler.Materialize(ctx, entries, destRoot)

	result := &DownloadResult{Coordinate: coord, FilesTotal: filesTotal}
	if res != nil {
		result.Downloaded = res.Downloaded
		result.Skipped = res.Skipped
		result.Failed = res.Failed
	}

	if err != nil {
		var partial *fetch.PartialError
		if errors.As(err, &partial) {
			return result, NewDownloadError("download completed with failures", err)
		}
		return result, NewDownloadError("failed to materialize files", err)
	}
	return result, nil
}

// OutputDirNonEmpty reports whether dir exists and contains any entry.
func OutputDirNonEmpty(dir string) (bool, error) {
	f, err := os.Open(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	defer f.Close()

	_, err = f.Readdirnames(1)
	if err == io.EOF {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func newClient(token, baseURL string, timeout time.Duration) *github.Client {
	if baseURL == "" {
		baseURL = github.DefaultBaseURL
	}
	return github.NewClientWithBaseURL(baseURL, token, timeout)
}
