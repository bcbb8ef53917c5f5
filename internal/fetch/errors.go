package fetch

import (
	"fmt"
	"strings"
)

// FileError records a single file that failed to download or write.
type FileError struct {
	// Path is the manifest-relative path of the file.
	Path string
	// Err is the underlying failure.
	Err error
}

// Error returns the error message.
func (e *FileError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

// Unwrap returns the underlying error.
func (e *FileError) Unwrap() error {
	return e.Err
}

// PartialError aggregates the per-file failures of a Materialize run.
// Files outside Failed were downloaded successfully and remain on disk.
type PartialError struct {
	// Failed lists every file that failed.
	Failed []*FileError
	// Total is the number of files the run attempted.
	Total int
}

// Error returns a summary followed by one line per failed file.
func (e *PartialError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d of %d files failed", len(e.Failed), e.Total)
	for _, f := range e.Failed {
		fmt.Fprintf(&b, "\n  %v", f)
	}
	return b.String()
}
