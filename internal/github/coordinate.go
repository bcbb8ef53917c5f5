package github

import "fmt"

// Coordinate identifies a subtree of a repository at a specific ref.
// Path is relative to the repository root; empty means the root itself.
// A Coordinate is immutable once resolved.
type Coordinate struct {
	Owner string
	Repo  string
	Ref   string
	Path  string
}

// WithPath returns a copy of the coordinate pointing at a different path.
func (c Coordinate) WithPath(path string) Coordinate {
	c.Path = path
	return c
}

// TreeURL returns the browsing URL for the coordinate.
func (c Coordinate) TreeURL() string {
	url := fmt.Sprintf("https://github.com/%s/%s/tree/%s", c.Owner, c.Repo, c.Ref)
	if c.Path != "" {
		url += "/" + c.Path
	}
	return url
}

// String formats the coordinate as owner/repo@ref[/path].
func (c Coordinate) String() string {
	s := fmt.Sprintf("%s/%s@%s", c.Owner, c.Repo, c.Ref)
	if c.Path != "" {
		s += "/" + c.Path
	}
	return s
}
