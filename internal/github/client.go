package github

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/tacogips/ghdl/internal/debug"
)

// Content entry types returned by the contents API.
const (
	TypeFile = "file"
	TypeDir  = "dir"
)

const (
	// DefaultBaseURL is the GitHub REST API base URL.
	DefaultBaseURL = "https://api.github.com"

	// defaultTimeout bounds a single HTTP request.
	defaultTimeout = 30 * time.Second

	// maxRateLimitWait caps how long the client sleeps before its single
	// rate-limit retry. Resets further away surface the 403 immediately.
	maxRateLimitWait = 2 * time.Minute

	userAgent = "ghdl"
	perPage   = 100
)

// Content is a single entry returned by the directory-listing endpoint.
type Content struct {
	Name        string `json:"name"`
	Path        string `json:"path"`
	Type        string `json:"type"`
	SHA         string `json:"sha"`
	Size        int64  `json:"size"`
	DownloadURL string `json:"download_url"`
}

// Client is a thin GitHub REST API client covering the two endpoints the
// downloader needs: directory listing and raw blob fetch.
type Client struct {
	// HTTPClient is the HTTP client for API requests.
	HTTPClient *http.Client
	// BaseURL is the API base URL, overridable for tests.
	BaseURL string
	// Token is the optional bearer token. Empty means unauthenticated.
	Token string
}

// NewClient creates a client for the public GitHub API.
// An empty token makes unauthenticated requests.
func NewClient(token string) *Client {
	return &Client{
		HTTPClient: &http.Client{Timeout: defaultTimeout},
		BaseURL:    DefaultBaseURL,
		Token:      token,
	}
}

// NewClientWithBaseURL creates a client against a custom API base URL.
func NewClientWithBaseURL(baseURL, token string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		HTTPClient: &http.Client{Timeout: timeout},
		BaseURL:    strings.TrimSuffix(baseURL, "/"),
		Token:      token,
	}
}

// ListDirectory lists the entries directly under coord.Path at coord.Ref.
// Paginated responses are followed transparently and concatenated.
func (c *Client) ListDirectory(ctx context.Context, coord Coordinate) ([]Content, error) {
	next := c.contentsURL(coord)

	var entries []Content
	for next != "" {
		resp, err := c.do(ctx, next)
		if err != nil {
			return nil, err
		}

		var page []Content
		err = json.NewDecoder(resp.Body).Decode(&page)
		resp.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to decode directory listing for %s: %w", coord, err)
		}
		entries = append(entries, page...)

		next = nextPageURL(resp.Header.Get("Link"))
	}

	debug.DebugValue("[github] listed entries", fmt.Sprintf("%s -> %d", coord, len(entries)))
	return entries, nil
}

// FetchBlob downloads the raw bytes behind a content download URL.
func (c *Client) FetchBlob(ctx context.Context, downloadURL string) ([]byte, error) {
	resp, err := c.do(ctx, downloadURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read blob from %s: %w", downloadURL, err)
	}
	return data, nil
}

// DefaultBranch returns the repository's default branch name.
func (c *Client) DefaultBranch(ctx context.Context, owner, repo string) (string, error) {
	repoURL := fmt.Sprintf("%s/repos/%s/%s", c.BaseURL, url.PathEscape(owner), url.PathEscape(repo))

	resp, err := c.do(ctx, repoURL)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var info struct {
		DefaultBranch string `json:"default_branch"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return "", fmt.Errorf("failed to decode repository info for %s/%s: %w", owner, repo, err)
	}
	if info.DefaultBranch == "" {
		return "", fmt.Errorf("repository %s/%s reported no default branch", owner, repo)
	}
	return info.DefaultBranch, nil
}

// contentsURL builds the directory-listing URL for a coordinate.
func (c *Client) contentsURL(coord Coordinate) string {
	u := fmt.Sprintf("%s/repos/%s/%s/contents", c.BaseURL, url.PathEscape(coord.Owner), url.PathEscape(coord.Repo))
	if coord.Path != "" {
		u += "/" + escapePath(coord.Path)
	}
	return fmt.Sprintf("%s?ref=%s&per_page=%d", u, url.QueryEscape(coord.Ref), perPage)
}

// do issues a GET and returns the response on 2xx. On a rate-limited
// response it waits for the advertised reset and retries exactly once;
// any other non-2xx becomes an APIError. The caller owns resp.Body.
func (c *Client) do(ctx context.Context, rawURL string) (*http.Response, error) {
	for attempt := 0; ; attempt++ {
		resp, err := c.get(ctx, rawURL)
		if err != nil {
			return nil, err
		}

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			return resp, nil
		}

		if wait, limited := rateLimitWait(resp); limited && attempt == 0 {
			drainBody(resp)
			debug.Debug("[github] rate limited, retrying %s in %s", rawURL, wait)
			if err := sleepContext(ctx, wait); err != nil {
				return nil, err
			}
			continue
		}

		apiErr := &APIError{
			StatusCode: resp.StatusCode,
			Message:    errorMessage(resp),
			URL:        rawURL,
		}
		resp.Body.Close()
		return nil, apiErr
	}
}

func (c *Client) get(ctx context.Context, rawURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/vnd.github.v3+json")
	if c.Token != "" {
		req.Header.Set("Authorization", "token "+c.Token)
	}
	return c.HTTPClient.Do(req)
}

// rateLimitWait inspects a 403/429 response for rate-limit headers and
// returns how long to wait before retrying. The second return value is
// false when the response is not a retryable rate-limit rejection or the
// reset lies beyond maxRateLimitWait.
func rateLimitWait(resp *http.Response) (time.Duration, bool) {
	if resp.StatusCode != http.StatusForbidden && resp.StatusCode != http.StatusTooManyRequests {
		return 0, false
	}

	if retryAfter := resp.Header.Get("Retry-After"); retryAfter != "" {
		secs, err := strconv.Atoi(retryAfter)
		if err != nil || secs < 0 {
			return 0, false
		}
		wait := time.Duration(secs) * time.Second
		if wait > maxRateLimitWait {
			return 0, false
		}
		return wait, true
	}

	if resp.Header.Get("X-RateLimit-Remaining") != "0" {
		return 0, false
	}
	reset, err := strconv.ParseInt(resp.Header.Get("X-RateLimit-Reset"), 10, 64)
	if err != nil {
		return 0, false
	}
	wait := time.Until(time.Unix(reset, 0)) + time.Second
	if wait < 0 {
		wait = 0
	}
	if wait > maxRateLimitWait {
		return 0, false
	}
	return wait, true
}

// errorMessage extracts the API error message from a response body.
func errorMessage(resp *http.Response) string {
	body, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err != nil {
		return ""
	}
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Message != "" {
		return payload.Message
	}
	return strings.TrimSpace(string(body))
}

func drainBody(resp *http.Response) {
	io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
	resp.Body.Close()
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// escapePath escapes each segment of a repository path while keeping the
// separators intact.
func escapePath(p string) string {
	segments := strings.Split(p, "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return strings.Join(segments, "/")
}

// nextPageURL extracts the rel="next" target from a Link header.
// Returns "" when there is no next page.
func nextPageURL(link string) string {
	for _, part := range strings.Split(link, ",") {
		section := strings.Split(part, ";")
		if len(section) < 2 {
			continue
		}
		target := strings.Trim(strings.TrimSpace(section[0]), "<>")
		for _, param := range section[1:] {
			if strings.TrimSpace(param) == `rel="next"` {
				return target
			}
		}
	}
	return ""
}
