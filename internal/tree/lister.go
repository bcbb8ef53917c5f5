// Package tree turns a remote repository coordinate into a flat manifest
// of entries to materialize.
package tree

import (
	"context"
	"fmt"
	"path"
	"sort"
	"sync"

	"github.com/tacogips/ghdl/internal/github"
)

// DefaultConcurrency bounds how many directory listings run in flight.
const DefaultConcurrency = 5

// Kind distinguishes manifest entry types.
type Kind int

const (
	// File is a regular file entry.
	File Kind = iota
	// Dir is a directory entry.
	Dir
)

// String returns the kind name.
func (k Kind) String() string {
	if k == Dir {
		return "dir"
	}
	return "file"
}

// Entry is one manifest record. Path is relative to the coordinate path
// the listing started from.
type Entry struct {
	Path        string
	Kind        Kind
	SHA         string
	Size        int64
	DownloadURL string
}

// CycleError indicates the API reported a directory path that was already
// visited during the walk. Real trees are acyclic, so this points at an
// anomalous API response.
type CycleError struct {
	// Path is the repository path that was revisited.
	Path string
}

// Error returns the error message.
func (e *CycleError) Error() string {
	return fmt.Sprintf("directory tree cycle detected at %q", e.Path)
}

// DirectoryLister is the slice of the API client the lister consumes.
type DirectoryLister interface {
	ListDirectory(ctx context.Context, coord github.Coordinate) ([]github.Content, error)
}

// Lister enumerates a repository subtree through the contents API.
type Lister struct {
	// Client lists directories.
	Client DirectoryLister
	// Concurrency bounds parallel directory listings. Zero means
	// DefaultConcurrency.
	Concurrency int
}

// NewLister creates a Lister with the default listing concurrency.
func NewLister(client DirectoryLister) *Lister {
	return &Lister{Client: client, Concurrency: DefaultConcurrency}
}

// ListTree walks the subtree rooted at coord.Path and returns the complete
// manifest, directories included, sorted by relative path. The walk fans
// out over sibling directories up to the configured concurrency and fully
// completes before returning; the first listing error aborts the walk.
func (l *Lister) ListTree(ctx context.Context, coord github.Coordinate) ([]Entry, error) {
	concurrency := l.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	w := &walker{
		client:  l.Client,
		sem:     make(chan struct{}, concurrency),
		visited: map[string]bool{normalizePath(coord.Path): true},
	}

	w.wg.Add(1)
	go w.walk(ctx, coord, "")
	w.wg.Wait()

	if w.err != nil {
		return nil, w.err
	}

	sort.Slice(w.entries, func(i, j int) bool { return w.entries[i].Path < w.entries[j].Path })
	return w.entries, nil
}

// walker holds the shared state of one ListTree run.
type walker struct {
	client DirectoryLister
	sem    chan struct{}

	wg sync.WaitGroup

	mu      sync.Mutex
	visited map[string]bool
	entries []Entry
	err     error
}

func (w *walker) walk(ctx context.Context, coord github.Coordinate, relDir string) {
	defer w.wg.Done()

	w.sem <- struct{}{}
	defer func() { <-w.sem }()

	if w.failed() {
		return
	}

	items, err := w.client.ListDirectory(ctx, coord)
	if err != nil {
		w.fail(err)
		return
	}

	for _, item := range items {
		rel := path.Join(relDir, item.Name)

		switch item.Type {
		case github.TypeDir:
			apiPath := normalizePath(item.Path)

			w.mu.Lock()
			if w.visited[apiPath] {
				w.mu.Unlock()
				w.fail(&CycleError{Path: item.Path})
				return
			}
			w.visited[apiPath] = true
			w.entries = append(w.entries, Entry{Path: rel, Kind: Dir, SHA: item.SHA})
			w.mu.Unlock()

			w.wg.Add(1)
			go w.walk(ctx, coord.WithPath(item.Path), rel)

		case github.TypeFile:
			w.mu.Lock()
			w.entries = append(w.entries, Entry{
				Path:        rel,
				Kind:        File,
				SHA:         item.SHA,
				Size:        item.Size,
				DownloadURL: item.DownloadURL,
			})
			w.mu.Unlock()

		default:
			// Symlinks and submodules are not materialized.
		}
	}
}

func (w *walker) failed() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.err != nil
}

// fail records the first error; later ones are dropped.
func (w *walker) fail(err error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.err == nil {
		w.err = err
	}
}

func normalizePath(p string) string {
	if p == "" {
		return "."
	}
	return path.Clean(p)
}
