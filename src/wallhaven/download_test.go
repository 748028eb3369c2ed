package wallhaven

import (
	"bytes"
	"context"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.asdf.cafe/abs3nt/wallhaven_wallpaper/constants"
	"git.asdf.cafe/abs3nt/wallhaven_wallpaper/errors"
)

func TestFileName(t *testing.T) {
	ts := time.Date(2024, 3, 9, 7, 5, 3, 0, time.UTC)

	tests := []struct {
		name string
		url  string
		want string
	}{
		{"jpg", "https://w.wallhaven.cc/full/ab/wallhaven-abcdef.jpg", "wall_20240309_070503.jpg"},
		{"png", "https://w.wallhaven.cc/full/ab/wallhaven-abcdef.png", "wall_20240309_070503.png"},
		{"query string ignored", "https://example.com/img.png?token=1.2", "wall_20240309_070503.png"},
		{"no extension", "https://example.com/image", "wall_20240309_070503.jpg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FileName(ts, tt.url); got != tt.want {
				t.Errorf("FileName() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestClient_DownloadStreamsToTimestampedFile(t *testing.T) {
	t.Parallel()

	// Larger than one chunk so the copy loops.
	payload := bytes.Repeat([]byte("wallpaper"), constants.DownloadChunkSize)
	var gotKey string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get(constants.APIKeyHeader)
		w.Header().Set("Content-Length", strconv.Itoa(len(payload)))
		_, _ = w.Write(payload)
	}))
	t.Cleanup(server.Close)

	ts := time.Date(2024, 1, 2, 3, 4, 5, 0, time.Local)
	client := newTestClient(t, server, WithClock(func() time.Time { return ts }))
	dir := t.TempDir()

	got, err := client.Download(context.Background(), server.URL+"/full/wallhaven-x.png", dir)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "wall_20240102_030405.png"), got)
	data, err := os.ReadFile(got)
	require.NoError(t, err)
	assert.Equal(t, payload, data)
	assert.Empty(t, gotKey, "image CDN requests carry no API key")
}

func TestClient_DownloadHTTPError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	t.Cleanup(server.Close)

	dir := t.TempDir()
	_, err := newTestClient(t, server).Download(context.Background(), server.URL+"/missing.jpg", dir)
	require.Error(t, err)

	var apiErr *errors.APIError
	assert.True(t, stderrors.As(err, &apiErr))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "no file is created before the response succeeds")
}

func TestClient_DownloadTruncatedBodyLeavesPartialFile(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Promise more than is sent so the client sees an unexpected EOF.
		w.Header().Set("Content-Length", "100000")
		_, _ = w.Write([]byte("partial"))
	}))
	t.Cleanup(server.Close)

	ts := time.Date(2024, 1, 2, 3, 4, 5, 0, time.Local)
	client := newTestClient(t, server, WithClock(func() time.Time { return ts }))
	dir := t.TempDir()

	_, err := client.Download(context.Background(), server.URL+"/x.jpg", dir)
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, errors.ErrDownloadFailed))

	data, err := os.ReadFile(filepath.Join(dir, "wall_20240102_030405.jpg"))
	require.NoError(t, err, "partial file stays on disk")
	assert.Equal(t, "partial", string(data))
}

func TestClient_DownloadEmptyURL(t *testing.T) {
	client := NewClient("k", nil)
	_, err := client.Download(context.Background(), "", t.TempDir())
	assert.True(t, stderrors.Is(err, errors.ErrMissingURL))
}
