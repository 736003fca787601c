package npm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jedrzejginter/toolkit/pkg/cache"
	"github.com/jedrzejginter/toolkit/pkg/integrations"
	"github.com/jedrzejginter/toolkit/pkg/observability"
)

// DefaultBaseURL is the public npm registry.
const DefaultBaseURL = "https://registry.npmjs.org"

// abbreviatedAccept requests the abbreviated ("corgi") document, which carries
// dist-tags and the version list without per-version readmes.
const abbreviatedAccept = "application/vnd.npm.install-v1+json; q=1.0, application/json; q=0.8"

// Options configures a Client. Zero values select defaults.
type Options struct {
	BaseURL  string                      // Registry URL (default: DefaultBaseURL)
	Cache    cache.Cache                 // Response cache (default: none)
	CacheTTL time.Duration               // Cache entry lifetime
	Refresh  bool                        // Bypass cached responses
	Hooks    observability.RegistryHooks // Query/caching events
}

// Client queries the npm registry HTTP API.
type Client struct {
	*integrations.Client
	baseURL string
	refresh bool
}

// NewClient creates a registry client.
func NewClient(opts Options) *Client {
	base := strings.TrimRight(opts.BaseURL, "/")
	if base == "" {
		base = DefaultBaseURL
	}
	return &Client{
		Client:  integrations.NewClient(opts.Cache, opts.CacheTTL, map[string]string{"Accept": abbreviatedAccept}, opts.Hooks),
		baseURL: base,
		refresh: opts.Refresh,
	}
}

// BaseURL returns the registry URL the client talks to.
func (c *Client) BaseURL() string { return c.baseURL }

// QueryVersions returns every published version of pkg in the order the
// registry lists them (publication order, oldest first).
func (c *Client) QueryVersions(ctx context.Context, pkg string) ([]string, error) {
	start := time.Now()
	doc, err := c.document(ctx, pkg, "versions")
	c.Hooks().OnQuery(ctx, "versions", pkg, time.Since(start), err)
	if err != nil {
		return nil, err
	}
	return doc.Versions, nil
}

// QueryLatest returns the version pkg's "latest" dist-tag points at.
func (c *Client) QueryLatest(ctx context.Context, pkg string) (string, error) {
	start := time.Now()
	doc, err := c.document(ctx, pkg, "latest")
	if err == nil && doc.Latest == "" {
		err = fmt.Errorf("%w: npm package %s has no latest dist-tag", integrations.ErrInvalidResponse, pkg)
	}
	c.Hooks().OnQuery(ctx, "latest", pkg, time.Since(start), err)
	if err != nil {
		return "", err
	}
	return doc.Latest, nil
}

// document is the cached, registry-independent subset of a packument.
type document struct {
	Name     string   `json:"name"`
	Latest   string   `json:"latest"`
	Versions []string `json:"versions"`
}

// document serves both query kinds from one cached entry per package;
// kind only labels the cache hooks.
func (c *Client) document(ctx context.Context, pkg, kind string) (*document, error) {
	pkg = integrations.NormalizePkgName(pkg)
	key := cache.Key("npm", "document", c.baseURL+"/"+pkg)

	var doc document
	err := c.Cached(ctx, key, kind, c.refresh, &doc, func() error {
		return c.fetch(ctx, pkg, &doc)
	})
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

func (c *Client) fetch(ctx context.Context, pkg string, doc *document) error {
	var data registryResponse
	if err := c.Get(ctx, c.baseURL+"/"+integrations.EscapePkgName(pkg), &data); err != nil {
		if errors.Is(err, integrations.ErrNotFound) {
			return fmt.Errorf("%w: npm package %s", err, pkg)
		}
		return err
	}
	versions, err := objectKeys(data.Versions)
	if err != nil {
		return fmt.Errorf("%w: npm package %s: %v", integrations.ErrInvalidResponse, pkg, err)
	}

	*doc = document{
		Name:     data.Name,
		Latest:   data.DistTags.Latest,
		Versions: versions,
	}
	return nil
}

// objectKeys returns the keys of a JSON object in document order.
// encoding/json maps lose ordering, and registry order is the version order.
func objectKeys(raw json.RawMessage) ([]string, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, nil
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, fmt.Errorf("versions: expected object, got %v", tok)
	}

	var keys []string
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("versions: expected key, got %v", tok)
		}
		var skip json.RawMessage
		if err := dec.Decode(&skip); err != nil {
			return nil, err
		}
		keys = append(keys, key)
	}
	return keys, nil
}

type registryResponse struct {
	Name     string          `json:"name"`
	DistTags distTags        `json:"dist-tags"`
	Versions json.RawMessage `json:"versions"`
}

type distTags struct {
	Latest string `json:"latest"`
}
