package meta

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/tacogips/ghdl/internal/github"
)

func managedDir(t *testing.T, base string, rel string, coord github.Coordinate) string {
	t.Helper()
	dir := filepath.Join(base, filepath.FromSlash(rel))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := Write(dir, FromCoordinate(coord, time.Now().UTC())); err != nil {
		t.Fatal(err)
	}
	return dir
}

func TestScanFindsNestedManagedFolders(t *testing.T) {
	base := t.TempDir()
	coord := github.Coordinate{Owner: "o", Repo: "r", Ref: "main"}

	first := managedDir(t, base, "notes/book", coord)
	second := managedDir(t, base, "vendor", coord.WithPath("lib"))

	// Plain directories and files must not show up.
	if err := os.MkdirAll(filepath.Join(base, "unmanaged", "deep"), 0o755); err != nil {
		t.Fatal(err)
	}

	folders, err := Scan(base)
	if err != nil {
		t.Fatalf("Scan() unexpected error: %v", err)
	}
	if len(folders) != 2 {
		t.Fatalf("Scan() found %d folders, want 2", len(folders))
	}
	// Sorted by directory path.
	if folders[0].Dir != first || folders[1].Dir != second {
		t.Errorf("Scan() dirs = %q, %q", folders[0].Dir, folders[1].Dir)
	}
	for _, f := range folders {
		if f.Err != nil {
			t.Errorf("Scan() folder %s unexpected error: %v", f.Dir, f.Err)
		}
		if f.Meta == nil {
			t.Errorf("Scan() folder %s has nil metadata", f.Dir)
		}
	}
}

func TestScanReportsCorruptSidecar(t *testing.T) {
	base := t.TempDir()
	good := managedDir(t, base, "good", github.Coordinate{Owner: "o", Repo: "r", Ref: "main"})

	bad := filepath.Join(base, "bad")
	if err := os.MkdirAll(bad, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(bad, FileName), []byte("not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	folders, err := Scan(base)
	if err != nil {
		t.Fatalf("Scan() unexpected error: %v", err)
	}
	if len(folders) != 2 {
		t.Fatalf("Scan() found %d folders, want 2", len(folders))
	}

	if folders[0].Dir != bad || folders[0].Err == nil {
		t.Errorf("corrupt folder not reported: %+v", folders[0])
	}
	if folders[1].Dir != good || folders[1].Err != nil {
		t.Errorf("good folder misreported: %+v", folders[1])
	}
}

func TestScanEmptyBase(t *testing.T) {
	folders, err := Scan(t.TempDir())
	if err != nil {
		t.Fatalf("Scan() unexpected error: %v", err)
	}
	if len(folders) != 0 {
		t.Errorf("Scan() = %d folders, want 0", len(folders))
	}
}
