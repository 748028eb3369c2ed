// Package wallhaven provides functionality for interacting with the Wallhaven API
package wallhaven

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"git.asdf.cafe/abs3nt/wallhaven_wallpaper/constants"
	"git.asdf.cafe/abs3nt/wallhaven_wallpaper/errors"
)

// Search provides various parameters to search for on wallhaven
type Search struct {
	Query      string
	Categories string
	Purities   string
	Sorting    string
	AtLeast    string
	Ratios     []string
	Page       int64
}

func (s Search) toQuery() url.Values {
	v := url.Values{}
	if s.Query != "" {
		v.Add("q", s.Query)
	}
	if s.Categories != "" {
		v.Add("categories", s.Categories)
	}
	if s.Purities != "" {
		v.Add("purity", s.Purities)
	}
	if len(s.Ratios) > 0 {
		v.Add("ratios", strings.Join(s.Ratios, ","))
	}
	if s.AtLeast != "" {
		v.Add("atleast", s.AtLeast)
	}
	sorting := s.Sorting
	if sorting == "" {
		sorting = constants.DefaultSort
	}
	v.Add("sorting", sorting)
	page := s.Page
	if page <= 0 {
		page = constants.DefaultPage
	}
	v.Add("page", strconv.FormatInt(page, 10))
	return v
}

// Result Structs -- server responses

// SearchResults a wrapper containing search results from wh
type SearchResults struct {
	Data []Wallpaper `json:"data"`
}

// Wallpaper is one search candidate. Path is the full-size image URL.
type Wallpaper struct {
	ID         string `json:"id"`
	Path       string `json:"path"`
	URL        string `json:"url"`
	Resolution string `json:"resolution"`
	FileType   string `json:"file_type"`
	FileSize   int64  `json:"file_size"`
}

// Client talks to the wallhaven API and downloads images. It holds its own
// HTTP clients so several can coexist (tests use httptest servers).
type Client struct {
	baseURL  string
	apiKey   string
	api      *http.Client
	download *http.Client
	logger   *slog.Logger
	now      func() time.Time
}

// Option customizes a Client.
type Option func(*Client)

// WithBaseURL points the client at another API root.
func WithBaseURL(base string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(base, "/") }
}

// WithHTTPClient replaces both the API and download HTTP clients.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.api = hc
		c.download = hc
	}
}

// WithClock sets the time source used to name downloaded files.
func WithClock(now func() time.Time) Option {
	return func(c *Client) { c.now = now }
}

// NewClient creates a wallhaven client authenticated with apiKey
func NewClient(apiKey string, logger *slog.Logger, opts ...Option) *Client {
	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        constants.MaxIdleConns,
		MaxIdleConnsPerHost: constants.MaxIdleConnsPerHost,
		IdleConnTimeout:     constants.IdleConnTimeout * time.Second,
	}
	c := &Client{
		baseURL: constants.BaseURL,
		apiKey:  apiKey,
		api: &http.Client{
			Timeout:   constants.RequestTimeout * time.Second,
			Transport: transport,
		},
		download: &http.Client{
			Timeout:   constants.DownloadTimeout * time.Second,
			Transport: transport,
		},
		logger: logger,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Search performs one search request on WH and returns the candidates of
// the first page. An empty slice is not an error.
func (c *Client) Search(ctx context.Context, search *Search) ([]Wallpaper, error) {
	c.logger.Debug("Making API request to wallhaven", "endpoint", "/search")
	resp, err := c.get(ctx, c.api, c.baseURL+"/search", search.toQuery(), true)
	if err != nil {
		return nil, err
	}

	out := &SearchResults{}
	if err := processResponse(resp, out); err != nil {
		return nil, err
	}
	c.logger.Debug("API request successful", "results_count", len(out.Data))
	return out.Data, nil
}

func processResponse(resp *http.Response, out interface{}) error {
	defer resp.Body.Close()

	byt, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if err := json.Unmarshal(byt, out); err != nil {
		return fmt.Errorf("%w: %v", errors.ErrInvalidResponse, err)
	}

	return nil
}

func (c *Client) get(ctx context.Context, hc *http.Client, rawURL string, v url.Values, authed bool) (*http.Response, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse URL: %w", err)
	}
	if v != nil {
		u.RawQuery = v.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if authed && c.apiKey != "" {
		req.Header.Set(constants.APIKeyHeader, c.apiKey)
	}
	req.Header.Set("User-Agent", constants.UserAgent)

	resp, err := hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errors.ErrAPIRequest, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		// The key travels in a header, so the URL is safe to report.
		return nil, errors.NewAPIError(u.Redacted(), resp.StatusCode, http.StatusText(resp.StatusCode))
	}
	return resp, nil
}
