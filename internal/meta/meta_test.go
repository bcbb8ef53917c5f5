package meta

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/tacogips/ghdl/internal/github"
)

func TestWriteReadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	coord := github.Coordinate{Owner: "rust-lang", Repo: "book", Ref: "main", Path: "src"}
	stamp := time.Date(2025, 6, 1, 12, 30, 0, 0, time.UTC)

	if err := Write(dir, FromCoordinate(coord, stamp)); err != nil {
		t.Fatalf("Write() unexpected error: %v", err)
	}

	md, err := Read(dir)
	if err != nil {
		t.Fatalf("Read() unexpected error: %v", err)
	}
	if md == nil {
		t.Fatal("Read() returned nil for a managed directory")
	}
	if got := md.Coordinate(); got != coord {
		t.Errorf("Coordinate() = %+v, want %+v", got, coord)
	}
	if !md.LastRefreshed.Equal(stamp) {
		t.Errorf("LastRefreshed = %v, want %v", md.LastRefreshed, stamp)
	}
	if md.URL != "https://github.com/rust-lang/book/tree/main/src" {
		t.Errorf("URL = %q", md.URL)
	}
}

func TestReadMissingSidecar(t *testing.T) {
	md, err := Read(t.TempDir())
	if err != nil {
		t.Fatalf("Read() unexpected error: %v", err)
	}
	if md != nil {
		t.Errorf("Read() = %+v, want nil for unmanaged directory", md)
	}
}

func TestReadCorruptSidecar(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "not JSON", content: "{{{"},
		{name: "wrong shape", content: `["a", "b"]`},
		{name: "missing required fields", content: `{"owner": "o"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			if err := os.WriteFile(filepath.Join(dir, FileName), []byte(tt.content), 0o644); err != nil {
				t.Fatal(err)
			}

			_, err := Read(dir)
			if err == nil {
				t.Fatal("Read() expected error for corrupt sidecar")
			}
			var corrupt *CorruptError
			if !errors.As(err, &corrupt) {
				t.Errorf("Read() error type = %T, want *CorruptError", err)
			}
		})
	}
}

func TestReadIgnoresUnknownFields(t *testing.T) {
	dir := t.TempDir()
	content := `{
  "owner": "o",
  "repo": "r",
  "reference": "main",
  "path": "docs",
  "url": "https://github.com/o/r/tree/main/docs",
  "future_field": {"nested": true}
}`
	if err := os.WriteFile(filepath.Join(dir, FileName), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	md, err := Read(dir)
	if err != nil {
		t.Fatalf("Read() unexpected error: %v", err)
	}
	if md.Owner != "o" || md.Ref != "main" || md.Path != "docs" {
		t.Errorf("Read() = %+v", md)
	}
}

func TestWriteOverwritesExisting(t *testing.T) {
	dir := t.TempDir()
	coord := github.Coordinate{Owner: "o", Repo: "r", Ref: "main"}

	if err := Write(dir, FromCoordinate(coord, time.Unix(1000, 0).UTC())); err != nil {
		t.Fatal(err)
	}
	later := time.Unix(2000, 0).UTC()
	if err := Write(dir, FromCoordinate(coord, later)); err != nil {
		t.Fatal(err)
	}

	md, err := Read(dir)
	if err != nil {
		t.Fatal(err)
	}
	if !md.LastRefreshed.Equal(later) {
		t.Errorf("LastRefreshed = %v, want %v", md.LastRefreshed, later)
	}
}
