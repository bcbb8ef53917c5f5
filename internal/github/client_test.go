package github

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(serverURL string) *Client {
	return NewClientWithBaseURL(serverURL, "", 5*time.Second)
}

func TestListDirectoryAuthHeader(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode([]Content{})
	}))
	defer server.Close()

	client := NewClientWithBaseURL(server.URL, "secret-token", 5*time.Second)
	_, err := client.ListDirectory(context.Background(), Coordinate{Owner: "o", Repo: "r", Ref: "main"})
	require.NoError(t, err)
	assert.Equal(t, "token secret-token", gotAuth)
}

func TestListDirectoryUnauthenticated(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode([]Content{})
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).ListDirectory(context.Background(), Coordinate{Owner: "o", Repo: "r", Ref: "main"})
	require.NoError(t, err)
	assert.Empty(t, gotAuth)
}

func TestListDirectoryPagination(t *testing.T) {
	var server *httptest.Server
	server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		page := r.URL.Query().Get("page")
		switch page {
		case "", "1":
			w.Header().Set("Link", fmt.Sprintf(`<%s%s?page=2>; rel="next", <%s%s?page=2>; rel="last"`,
				server.URL, r.URL.Path, server.URL, r.URL.Path))
			json.NewEncoder(w).Encode([]Content{
				{Name: "a.txt", Path: "a.txt", Type: TypeFile},
				{Name: "b.txt", Path: "b.txt", Type: TypeFile},
			})
		case "2":
			json.NewEncoder(w).Encode([]Content{
				{Name: "c.txt", Path: "c.txt", Type: TypeFile},
			})
		default:
			t.Errorf("unexpected page %q", page)
		}
	}))
	defer server.Close()

	entries, err := newTestClient(server.URL).ListDirectory(context.Background(), Coordinate{Owner: "o", Repo: "r", Ref: "main"})
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "c.txt", entries[2].Name)
}

func TestListDirectoryPathEncoding(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		json.NewEncoder(w).Encode([]Content{})
	}))
	defer server.Close()

	coord := Coordinate{Owner: "o", Repo: "r", Ref: "main", Path: "docs/sub dir"}
	_, err := newTestClient(server.URL).ListDirectory(context.Background(), coord)
	require.NoError(t, err)
	assert.Equal(t, "/repos/o/r/contents/docs/sub dir", gotPath)
}

func TestRateLimitRetriesOnce(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.Header().Set("X-RateLimit-Remaining", "0")
			w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(time.Now().Add(-5*time.Second).Unix(), 10))
			w.WriteHeader(http.StatusForbidden)
			return
		}
		json.NewEncoder(w).Encode([]Content{{Name: "a.txt", Path: "a.txt", Type: TypeFile}})
	}))
	defer server.Close()

	entries, err := newTestClient(server.URL).ListDirectory(context.Background(), Coordinate{Owner: "o", Repo: "r", Ref: "main"})
	require.NoError(t, err)
	assert.Len(t, entries, 1)
	assert.EqualValues(t, 2, atomic.LoadInt32(&calls))
}

func TestRateLimitRetryAfterHeader(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.Header().Set("Retry-After", "0")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		json.NewEncoder(w).Encode([]Content{})
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).ListDirectory(context.Background(), Coordinate{Owner: "o", Repo: "r", Ref: "main"})
	require.NoError(t, err)
	assert.EqualValues(t, 2, atomic.LoadInt32(&calls))
}

func TestRateLimitGivesUpAfterSecondRejection(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Header().Set("X-RateLimit-Remaining", "0")
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(time.Now().Add(-5*time.Second).Unix(), 10))
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).ListDirectory(context.Background(), Coordinate{Owner: "o", Repo: "r", Ref: "main"})
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusForbidden, apiErr.StatusCode)
	// One retry per call site, no more.
	assert.EqualValues(t, 2, atomic.LoadInt32(&calls))
}

func TestNonRateLimit403IsNotRetried(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Header().Set("X-RateLimit-Remaining", "42")
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).ListDirectory(context.Background(), Coordinate{Owner: "o", Repo: "r", Ref: "main"})
	require.Error(t, err)
	assert.EqualValues(t, 1, atomic.LoadInt32(&calls))
}

func TestAPIErrorMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"message": "Not Found"})
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).ListDirectory(context.Background(), Coordinate{Owner: "o", Repo: "r", Ref: "main"})
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Equal(t, "Not Found", apiErr.Message)
	assert.True(t, IsNotFound(err))
}

func TestFetchBlob(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("raw file bytes"))
	}))
	defer server.Close()

	data, err := newTestClient(server.URL).FetchBlob(context.Background(), server.URL+"/raw/a.txt")
	require.NoError(t, err)
	assert.Equal(t, []byte("raw file bytes"), data)
}

func TestDefaultBranch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repos/owner/repo", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]string{"default_branch": "trunk"})
	}))
	defer server.Close()

	branch, err := newTestClient(server.URL).DefaultBranch(context.Background(), "owner", "repo")
	require.NoError(t, err)
	assert.Equal(t, "trunk", branch)
}

func TestNextPageURL(t *testing.T) {
	tests := []struct {
		name string
		link string
		want string
	}{
		{
			name: "next and last",
			link: `<https://api.github.com/x?page=2>; rel="next", <https://api.github.com/x?page=5>; rel="last"`,
			want: "https://api.github.com/x?page=2",
		},
		{
			name: "no next",
			link: `<https://api.github.com/x?page=1>; rel="prev"`,
			want: "",
		},
		{
			name: "empty header",
			link: "",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, nextPageURL(tt.link))
		})
	}
}
