package integrations

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/jedrzejginter/toolkit/pkg/cache"
	"github.com/jedrzejginter/toolkit/pkg/observability"
)

// Client provides shared HTTP functionality for registry API clients.
// It handles response caching, common request headers and hook reporting.
//
// Client never retries. A failing registry is surfaced on the first error so
// a misconfigured mirror is visible immediately.
type Client struct {
	http    *http.Client
	cache   cache.Cache
	ttl     time.Duration
	headers map[string]string
	hooks   observability.RegistryHooks
}

// NewClient creates a Client with the given cache, entry TTL and default headers.
// A nil cache disables caching; nil hooks are replaced by no-ops.
func NewClient(c cache.Cache, ttl time.Duration, headers map[string]string, hooks observability.RegistryHooks) *Client {
	if c == nil {
		c = cache.NewNullCache()
	}
	return &Client{
		http:    NewHTTPClient(),
		cache:   c,
		ttl:     ttl,
		headers: headers,
		hooks:   observability.RegistryOrNoop(hooks),
	}
}

// SetHTTPClient replaces the underlying HTTP client (tests, custom transports).
func (c *Client) SetHTTPClient(h *http.Client) { c.http = h }

// Hooks returns the registry hooks the client reports to.
func (c *Client) Hooks() observability.RegistryHooks { return c.hooks }

// Cached retrieves a value from cache or executes fetch and caches the result.
// If refresh is true, the cache is read-bypassed but still written.
// kind labels the query for hooks ("versions", "latest").
func (c *Client) Cached(ctx context.Context, key, kind string, refresh bool, v any, fetch func() error) error {
	if !refresh {
		if ok, _ := cache.GetJSON(ctx, c.cache, key, v); ok {
			c.hooks.OnCacheHit(ctx, kind)
			return nil
		}
	}
	c.hooks.OnCacheMiss(ctx, kind)
	if err := fetch(); err != nil {
		return err
	}
	_ = cache.SetJSON(ctx, c.cache, key, v, c.ttl)
	return nil
}

// Get performs an HTTP GET request and JSON-decodes the response into v.
func (c *Client) Get(ctx context.Context, url string, v any) error {
	return c.GetWithHeaders(ctx, url, nil, v)
}

// GetWithHeaders performs an HTTP GET with additional headers merged with defaults.
// Request-specific headers override client defaults for the same key.
func (c *Client) GetWithHeaders(ctx context.Context, url string, headers map[string]string, v any) error {
	body, err := c.doRequest(ctx, url, headers)
	if err != nil {
		return err
	}
	defer body.Close()
	if err := json.NewDecoder(body).Decode(v); err != nil {
		return fmt.Errorf("%w: decode %s: %v", ErrInvalidResponse, url, err)
	}
	return nil
}

func (c *Client) doRequest(ctx context.Context, url string, headers map[string]string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNetwork, err)
	}

	if err := checkStatus(resp.StatusCode); err != nil {
		resp.Body.Close()
		return nil, err
	}
	return resp.Body, nil
}

func checkStatus(code int) error {
	switch {
	case code == http.StatusOK:
		return nil
	case code == http.StatusNotFound:
		return ErrNotFound
	default:
		return fmt.Errorf("%w: status %d", ErrNetwork, code)
	}
}
