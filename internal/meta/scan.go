package meta

import (
	"io/fs"
	"path/filepath"
	"sort"
)

// Folder is one managed directory discovered by Scan. Err is set when the
// sidecar exists but could not be read (typically a CorruptError); callers
// report it instead of silently skipping the directory.
type Folder struct {
	// Dir is the directory containing the sidecar.
	Dir string
	// Meta is the parsed sidecar, nil when Err is set.
	Meta *Metadata
	// Err is the read failure, if any.
	Err error
}

// Scan walks baseDir recursively and returns every directory containing a
// sidecar file, sorted by path. Unreadable sidecars are included with Err
// set; a broken folder never aborts the scan.
func Scan(baseDir string) ([]Folder, error) {
	var folders []Folder

	err := filepath.WalkDir(baseDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || d.Name() != FileName {
			return nil
		}

		dir := filepath.Dir(p)
		md, readErr := Read(dir)
		folders = append(folders, Folder{Dir: dir, Meta: md, Err: readErr})
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(folders, func(i, j int) bool { return folders[i].Dir < folders[j].Dir })
	return folders, nil
}
