package wallhaven

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.asdf.cafe/abs3nt/wallhaven_wallpaper/constants"
	"git.asdf.cafe/abs3nt/wallhaven_wallpaper/errors"
)

func newTestClient(t *testing.T, server *httptest.Server, opts ...Option) *Client {
	t.Helper()
	opts = append([]Option{WithBaseURL(server.URL), WithHTTPClient(server.Client())}, opts...)
	return NewClient("test-key", slog.New(slog.DiscardHandler), opts...)
}

func TestSearch_toQuery(t *testing.T) {
	tests := []struct {
		name   string
		search Search
		want   url.Values
	}{
		{
			name:   "defaults",
			search: Search{},
			want:   url.Values{"sorting": {"random"}, "page": {"1"}},
		},
		{
			name: "all filters",
			search: Search{
				Query:      "mountains",
				Categories: "100",
				Purities:   "110",
				Sorting:    constants.SortToplist,
				AtLeast:    "2560x1440",
				Ratios:     []string{"16x9", "16x10"},
			},
			want: url.Values{
				"q":          {"mountains"},
				"categories": {"100"},
				"purity":     {"110"},
				"sorting":    {"toplist"},
				"atleast":    {"2560x1440"},
				"ratios":     {"16x9,16x10"},
				"page":       {"1"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.search.toQuery())
		})
	}
}

func TestClient_SearchSendsKeyAndDecodesCandidates(t *testing.T) {
	t.Parallel()

	var gotQuery url.Values
	var gotKey, gotUserAgent, gotPath string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.Query()
		gotKey = r.Header.Get(constants.APIKeyHeader)
		gotUserAgent = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(SearchResults{Data: []Wallpaper{
			{ID: "A", Path: "https://w.example/full/a.jpg", Resolution: "1920x1080"},
			{ID: "B", Path: "https://w.example/full/b.png"},
		}})
	}))
	t.Cleanup(server.Close)

	client := newTestClient(t, server)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	t.Cleanup(cancel)

	got, err := client.Search(ctx, &Search{Query: "mountains"})
	require.NoError(t, err)

	assert.Equal(t, "/search", gotPath)
	assert.Equal(t, "mountains", gotQuery.Get("q"))
	assert.Equal(t, "1", gotQuery.Get("page"))
	assert.Equal(t, "random", gotQuery.Get("sorting"))
	assert.Equal(t, "test-key", gotKey)
	assert.Equal(t, constants.UserAgent, gotUserAgent)

	require.Len(t, got, 2)
	assert.Equal(t, "A", got[0].ID)
	assert.Equal(t, "https://w.example/full/a.jpg", got[0].Path)
	assert.Equal(t, "1920x1080", got[0].Resolution)
	assert.Equal(t, "B", got[1].ID)
}

func TestClient_SearchEmptyData(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":[],"meta":{"current_page":1}}`))
	}))
	t.Cleanup(server.Close)

	got, err := newTestClient(t, server).Search(context.Background(), &Search{})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestClient_SearchErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		handler http.HandlerFunc
		check   func(t *testing.T, err error)
	}{
		{
			name: "unauthorized",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "nope", http.StatusUnauthorized)
			},
			check: func(t *testing.T, err error) {
				var apiErr *errors.APIError
				require.True(t, stderrors.As(err, &apiErr))
				assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
				assert.True(t, stderrors.Is(err, errors.ErrAPIRequest))
			},
		},
		{
			name: "server error is not retried",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadGateway)
			},
			check: func(t *testing.T, err error) {
				var apiErr *errors.APIError
				require.True(t, stderrors.As(err, &apiErr))
				assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
			},
		},
		{
			name: "invalid json",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"data":`))
			},
			check: func(t *testing.T, err error) {
				assert.True(t, stderrors.Is(err, errors.ErrInvalidResponse))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var calls atomic.Int32
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				calls.Add(1)
				tt.handler(w, r)
			}))
			t.Cleanup(server.Close)

			_, err := newTestClient(t, server).Search(context.Background(), &Search{})
			require.Error(t, err)
			tt.check(t, err)
			assert.Equal(t, int32(1), calls.Load())
		})
	}
}

func TestClient_SearchTransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	client := newTestClient(t, server)
	server.Close()

	_, err := client.Search(context.Background(), &Search{})
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, errors.ErrAPIRequest))
}
