package github

import (
	"net/url"
	"strings"
)

// ParseTreeURL parses a GitHub browsing URL into a Coordinate.
// Supported formats:
//   - https://github.com/owner/repo
//   - https://github.com/owner/repo/tree/ref
//   - https://github.com/owner/repo/tree/ref/path/to/dir
//
// When the URL carries no /tree/ref segment the returned coordinate has an
// empty Ref; callers resolve it to the repository default branch with
// Client.DefaultBranch. ParseTreeURL itself performs no network I/O.
func ParseTreeURL(raw string) (*Coordinate, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, NewInvalidURLError(raw, "URL cannot be empty")
	}

	u, err := url.Parse(raw)
	if err != nil {
		return nil, NewInvalidURLError(raw, err.Error())
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, NewInvalidURLError(raw, "expected an http(s) URL")
	}
	host := strings.TrimPrefix(u.Hostname(), "www.")
	if host != "github.com" {
		return nil, NewInvalidURLError(raw, "host is not github.com")
	}

	segments := splitPath(u.Path)
	if len(segments) < 2 {
		return nil, NewInvalidURLError(raw, "expected https://github.com/owner/repo[/tree/ref[/path]]")
	}

	owner := segments[0]
	repo := strings.TrimSuffix(segments[1], ".git")
	if owner == "" || repo == "" {
		return nil, NewInvalidURLError(raw, "owner and repo cannot be empty")
	}

	coord := &Coordinate{Owner: owner, Repo: repo}

	// owner/repo alone points at the default branch root.
	if len(segments) == 2 {
		return coord, nil
	}

	if segments[2] != "tree" || len(segments) < 4 {
		return nil, NewInvalidURLError(raw, "expected https://github.com/owner/repo/tree/ref[/path]")
	}

	coord.Ref = segments[3]
	if len(segments) > 4 {
		coord.Path = strings.Join(segments[4:], "/")
	}
	return coord, nil
}

// splitPath splits a URL path into its non-empty segments.
func splitPath(p string) []string {
	var segments []string
	for _, s := range strings.Split(p, "/") {
		if s != "" {
			segments = append(segments, s)
		}
	}
	return segments
}
