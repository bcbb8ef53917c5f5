package app

import (
	"context"
	"fmt"
	"time"

	"github.com/tacogips/ghdl/internal/debug"
	"github.com/tacogips/ghdl/internal/github"
	"github.com/tacogips/ghdl/internal/meta"
)

// RefreshOptions contains options for the refresh command.
type RefreshOptions struct {
	// BaseDir is the directory scanned for managed folders.
	BaseDir string
	// Concurrency bounds parallel downloads per folder.
	Concurrency int
	// GitHubToken is the optional bearer token.
	GitHubToken string
	// APIBaseURL overrides the GitHub API base URL.
	APIBaseURL string
	// Timeout bounds a single API request.
	Timeout time.Duration
}

// RefreshUnit is the outcome of refreshing one managed folder.
type RefreshUnit struct {
	// Dir is the managed directory.
	Dir string
	// URL is the browsing URL recorded in the sidecar, for display.
	URL string
	// Downloaded is the number of files written.
	Downloaded int
	// Missing is true when the remote folder no longer exists (HTTP 404).
	// A missing remote is reported but not counted as a failure.
	Missing bool
	// Err is the failure for this folder, nil on success.
	Err error
}

// Succeeded reports whether the unit refreshed cleanly.
func (u *RefreshUnit) Succeeded() bool {
	return u.Err == nil && !u.Missing
}

// RefreshResult is the per-folder report of a refresh run.
type RefreshResult struct {
	// Units holds one entry per discovered managed folder, in scan order.
	Units []RefreshUnit
}

// FailedCount returns the number of folders that failed.
func (r *RefreshResult) FailedCount() int {
	n := 0
	for i := range r.Units {
		if r.Units[i].Err != nil {
			n++
		}
	}
	return n
}

// Refresh discovers every managed folder beneath BaseDir and re-runs the
// fetch pipeline for each against its sidecar coordinate. Folders are
// independent units of work: one failure is recorded in the report and the
// run continues. The returned error is non-nil when any unit failed.
func Refresh(ctx context.Context, opts RefreshOptions) (*RefreshResult, error) {
	debug.DebugSection("[app] Refresh workflow start")
	debug.DebugValue("[app] BaseDir", opts.BaseDir)

	baseDir := opts.BaseDir
	if baseDir == "" {
		baseDir = "."
	}

	folders, err := meta.Scan(baseDir)
	if err != nil {
		return nil, NewRefreshError("failed to scan for managed folders", err)
	}
	debug.DebugValue("[app] Managed folders found", len(folders))

	client := newClient(opts.GitHubToken, opts.APIBaseURL, opts.Timeout)

	result := &RefreshResult{}
	for _, folder := range folders {
		result.Units = append(result.Units, refreshFolder(ctx, client, folder, opts.Concurrency))
	}

	if failed := result.FailedCount(); failed > 0 {
		return result, NewRefreshError(fmt.Sprintf("%d of %d folders failed to refresh", failed, len(result.Units)), nil)
	}
	return result, nil
}

func refreshFolder(ctx context.Context, client *github.Client, folder meta.Folder, concurrency int) RefreshUnit {
	unit := RefreshUnit{Dir: folder.Dir}

	if folder.Err != nil {
		// Corrupt sidecars are surfaced, never treated as "not managed".
		unit.Err = folder.Err
		return unit
	}

	coord := folder.Meta.Coordinate()
	unit.URL = folder.Meta.URL
	if unit.URL == "" {
		unit.URL = coord.TreeURL()
	}
	debug.Debug("[app] refreshing %s from %s", folder.Dir, coord)

	res, err := fetchTree(ctx, client, coord, folder.Dir, concurrency)
	if res != nil {
		unit.Downloaded = res.Downloaded
	}
	if err != nil {
		if github.IsNotFound(err) {
			unit.Missing = true
			return unit
		}
		unit.Err = err
		return unit
	}

	// Keep the stored record (including its original URL) and only bump
	// the timestamp.
	md := *folder.Meta
	md.LastRefreshed = time.Now().UTC()
	if err := meta.Write(folder.Dir, &md); err != nil {
		unit.Err = NewMetadataError("failed to update folder metadata", err)
	}
	return unit
}
