// Package meta reads and writes the hidden sidecar file that marks a
// directory as managed and records how to refresh it.
package meta

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/tacogips/ghdl/internal/github"
)

// FileName is the sidecar file written inside each materialized directory.
// Its presence is the sole marker that a directory is managed.
const FileName = ".github-dl.json"

// Metadata is the persisted sidecar record. The JSON field names match the
// sidecars written by earlier versions of the tool; unknown future fields
// are ignored on read.
type Metadata struct {
	Owner string `json:"owner"`
	Repo  string `json:"repo"`
	Ref   string `json:"reference"`
	Path  string `json:"path"`
	// URL is the original browsing URL, kept for display.
	URL string `json:"url,omitempty"`
	// LastRefreshed is when the folder contents were last synced.
	LastRefreshed time.Time `json:"last_refreshed,omitempty"`
}

// FromCoordinate builds a Metadata record for a coordinate.
func FromCoordinate(coord github.Coordinate, timestamp time.Time) *Metadata {
	return &Metadata{
		Owner:         coord.Owner,
		Repo:          coord.Repo,
		Ref:           coord.Ref,
		Path:          coord.Path,
		URL:           coord.TreeURL(),
		LastRefreshed: timestamp,
	}
}

// Coordinate returns the repository coordinate stored in the record.
func (m *Metadata) Coordinate() github.Coordinate {
	return github.Coordinate{Owner: m.Owner, Repo: m.Repo, Ref: m.Ref, Path: m.Path}
}

// CorruptError indicates a sidecar file exists but does not parse to the
// expected shape. It is distinct from "not managed": callers must surface
// it rather than treat the directory as unmanaged.
type CorruptError struct {
	// Path is the sidecar file path.
	Path string
	// Err is the parse or validation failure.
	Err error
}

// Error returns the error message.
func (e *CorruptError) Error() string {
	return fmt.Sprintf("corrupt metadata file %s: %v", e.Path, e.Err)
}

// Unwrap returns the underlying error.
func (e *CorruptError) Unwrap() error {
	return e.Err
}

// Read loads the sidecar from dir. It returns (nil, nil) when no sidecar
// exists, and a CorruptError when one exists but cannot be parsed or is
// missing required fields.
func Read(dir string) (*Metadata, error) {
	sidecarPath := filepath.Join(dir, FileName)

	data, err := os.ReadFile(sidecarPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var md Metadata
	if err := json.Unmarshal(data, &md); err != nil {
		return nil, &CorruptError{Path: sidecarPath, Err: err}
	}
	if md.Owner == "" || md.Repo == "" || md.Ref == "" {
		return nil, &CorruptError{Path: sidecarPath, Err: fmt.Errorf("missing required owner/repo/reference fields")}
	}
	return &md, nil
}

// Write serializes the record to the sidecar in dir, overwriting any
// existing one. The write goes through a temp file and rename so a
// concurrent reader never sees a truncated sidecar.
func Write(dir string, md *Metadata) error {
	data, err := json.MarshalIndent(md, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')

	tmp, err := os.CreateTemp(dir, ".github-dl-*.tmp")
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
		err = os.Rename(tmp.Name(), filepath.Join(dir, FileName))
	}
	if err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return nil
}
