// Package fetch materializes a manifest onto the local filesystem with a
// bounded worker pool.
package fetch

import (
	"context"
	"os"
	"path/filepath"
	"sync"

	"github.com/tacogips/ghdl/internal/debug"
	"github.com/tacogips/ghdl/internal/tree"
)

// DefaultConcurrency is the worker pool size used when none is configured.
const DefaultConcurrency = 5

// BlobFetcher is the slice of the API client the scheduler consumes.
type BlobFetcher interface {
	FetchBlob(ctx context.Context, downloadURL string) ([]byte, error)
}

// Result reports what a Materialize run did.
type Result struct {
	// Downloaded is the number of files written.
	Downloaded int
	// Skipped is the number of file entries without a download URL.
	Skipped int
	// Failed lists the files that could not be fetched or written.
	Failed []*FileError
}

// Scheduler downloads manifest files into a destination directory.
type Scheduler struct {
	// Client fetches blob contents.
	Client BlobFetcher
	// Concurrency bounds parallel downloads. Zero means DefaultConcurrency.
	Concurrency int
}

// NewScheduler creates a Scheduler with the default worker pool size.
func NewScheduler(client BlobFetcher) *Scheduler {
	return &Scheduler{Client: client, Concurrency: DefaultConcurrency}
}

// Materialize writes every manifest entry beneath destRoot. All directories
// are created before any file download is scheduled, so a worker never races
// its parent directory. File failures do not cancel other downloads; the
// pool drains fully and the run returns a PartialError aggregating them.
// Already-written files stay on disk — this is a best-effort mirror, not a
// transaction.
func (s *Scheduler) Materialize(ctx context.Context, entries []tree.Entry, destRoot string) (*Result, error) {
	concurrency := s.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	if err := os.MkdirAll(destRoot, 0o755); err != nil {
		return nil, err
	}

	// Directory phase. MkdirAll tolerates directories that already exist,
	// which keeps repeated downloads and refreshes idempotent.
	total := 0
	for _, e := range entries {
		switch e.Kind {
		case tree.Dir:
			if err := os.MkdirAll(filepath.Join(destRoot, filepath.FromSlash(e.Path)), 0o755); err != nil {
				return nil, err
			}
		case tree.File:
			total++
		}
	}

	debug.Debug("[fetch] materializing %d files into %s with %d workers", total, destRoot, concurrency)

	jobs := make(chan tree.Entry)
	result := &Result{}

	var wg sync.WaitGroup
	var mu sync.Mutex
	for i := 0; i < concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for e := range jobs {
				s.download(ctx, e, destRoot, result, &mu)
			}
		}()
	}

	for _, e := range entries {
		if e.Kind == tree.File {
			jobs <- e
		}
	}
	close(jobs)
	wg.Wait()

	if len(result.Failed) > 0 {
		return result, &PartialError{Failed: result.Failed, Total: total}
	}
	return result, nil
}

func (s *Scheduler) download(ctx context.Context, e tree.Entry, destRoot string, result *Result, mu *sync.Mutex) {
	if e.DownloadURL == "" {
		// The contents API omits download_url for oversized blobs and
		// submodule pointers; nothing to write for those.
		mu.Lock()
		result.Skipped++
		mu.Unlock()
		return
	}

	data, err := s.Client.FetchBlob(ctx, e.DownloadURL)
	if err == nil {
		err = writeFileAtomic(filepath.Join(destRoot, filepath.FromSlash(e.Path)), data)
	}

	mu.Lock()
	defer mu.Unlock()
	if err != nil {
		result.Failed = append(result.Failed, &FileError{Path: e.Path, Err: err})
		return
	}
	result.Downloaded++
}

// writeFileAtomic writes data to a temporary file in the destination
// directory and renames it into place, so a concurrent reader or an
// interrupted run never observes a half-written file.
func writeFileAtomic(dest string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(dest), ".ghdl-*.tmp")
	if err != nil {
		return err
	}

	_, err = tmp.Write(data)
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err == nil {
		err = os.Chmod(tmp.Name(), 0o644)
	}
	if err == nil {
		err = os.Rename(tmp.Name(), dest)
	}
	if err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return nil
}
