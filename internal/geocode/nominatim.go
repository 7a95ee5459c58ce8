// Package geocode provides a forward geocoding client backed by the OSM
// Nominatim API. Nominatim's usage policy caps anonymous clients at one
// request per second, so the client enforces that spacing itself.
package geocode

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/cleanupdata/shoreline/pkg/errors"
)

const (
	defaultBaseURL  = "https://nominatim.openstreetmap.org"
	defaultInterval = time.Second
	userAgent       = "shoreline-cleanup-data"
)

// Client is a rate-limited Nominatim forward geocoder. It satisfies
// dataset.Geocoder. Safe for concurrent use.
type Client struct {
	httpClient *http.Client
	baseURL    string

	mu   sync.Mutex
	last time.Time
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL points the client at a different Nominatim instance.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.httpClient = h }
}

// NewClient returns a Client honoring Nominatim's one-request-per-second
// policy.
func NewClient(opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    defaultBaseURL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type searchResult struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

// Forward resolves a free-text place query to coordinates. A query with no
// results returns a LookupError; callers are expected to treat misses as
// recoverable.
func (c *Client) Forward(ctx context.Context, query string) (float64, float64, error) {
	if err := c.wait(ctx); err != nil {
		return 0, 0, err
	}

	u := c.baseURL + "/search?" + url.Values{
		"q":      {query},
		"format": {"json"},
		"limit":  {"1"},
	}.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return 0, 0, errors.WrapIO("request", u, err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, 0, errors.NewLookupError(query, "geocoding request failed", err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return 0, 0, errors.NewLookupError(query,
			"geocoding service returned "+resp.Status, nil)
	}

	var results []searchResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return 0, 0, errors.WrapParse("json", u, err)
	}
	if len(results) == 0 {
		return 0, 0, errors.NewLookupError(query, "no geocoding results", nil)
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return 0, 0, errors.WrapParse("json", u, err)
	}
	lon, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return 0, 0, errors.WrapParse("json", u, err)
	}
	return lat, lon, nil
}

// wait blocks until at least the minimum interval has elapsed since the
// previous request, or the context is done.
func (c *Client) wait(ctx context.Context) error {
	c.mu.Lock()
	elapsed := time.Since(c.last)
	delay := defaultInterval - elapsed
	c.last = time.Now().Add(max(delay, 0))
	c.mu.Unlock()

	if delay <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
