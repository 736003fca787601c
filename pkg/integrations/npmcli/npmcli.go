// Package npmcli answers registry queries by shelling out to the npm CLI.
//
// It honours whatever registry, auth and proxy configuration the user's
// .npmrc carries, at the cost of one process per query. Use the npm package
// for direct HTTP access.
package npmcli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/jedrzejginter/toolkit/pkg/integrations"
	"github.com/jedrzejginter/toolkit/pkg/observability"
)

// ExecFunc runs a command and returns its stdout and stderr.
type ExecFunc func(ctx context.Context, name string, args ...string) (stdout, stderr []byte, err error)

// Client queries the registry through `npm view`.
type Client struct {
	bin   string
	exec  ExecFunc
	hooks observability.RegistryHooks
}

// Option configures a Client.
type Option func(*Client)

// WithBinary overrides the npm executable (default "npm").
func WithBinary(bin string) Option { return func(c *Client) { c.bin = bin } }

// WithExec replaces process execution, mainly for tests.
func WithExec(fn ExecFunc) Option { return func(c *Client) { c.exec = fn } }

// WithHooks reports queries to h.
func WithHooks(h observability.RegistryHooks) Option {
	return func(c *Client) {
		if h != nil {
			c.hooks = h
		}
	}
}

// New creates a CLI-backed client.
func New(opts ...Option) *Client {
	c := &Client{bin: "npm", exec: run, hooks: observability.Noop{}}
	for _, o := range opts {
		o(c)
	}
	return c
}

// QueryVersions runs `npm view <pkg> versions --json`.
func (c *Client) QueryVersions(ctx context.Context, pkg string) ([]string, error) {
	start := time.Now()
	versions, err := c.versions(ctx, pkg)
	c.hooks.OnQuery(ctx, "versions", pkg, time.Since(start), err)
	return versions, err
}

// QueryLatest runs `npm view <pkg> version`.
func (c *Client) QueryLatest(ctx context.Context, pkg string) (string, error) {
	start := time.Now()
	out, err := c.view(ctx, pkg, "version")
	var latest string
	if err == nil {
		latest = strings.TrimSpace(string(out))
		if latest == "" {
			err = fmt.Errorf("%w: npm view %s version printed nothing", integrations.ErrInvalidResponse, pkg)
		}
	}
	c.hooks.OnQuery(ctx, "latest", pkg, time.Since(start), err)
	if err != nil {
		return "", err
	}
	return latest, nil
}

func (c *Client) versions(ctx context.Context, pkg string) ([]string, error) {
	out, err := c.view(ctx, pkg, "versions", "--json")
	if err != nil {
		return nil, err
	}
	return parseVersions(out)
}

func (c *Client) view(ctx context.Context, pkg string, args ...string) ([]byte, error) {
	pkg = integrations.NormalizePkgName(pkg)
	argv := append([]string{"view", pkg}, args...)
	stdout, stderr, err := c.exec(ctx, c.bin, argv...)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if bytes.Contains(stderr, []byte("E404")) || bytes.Contains(stdout, []byte("E404")) {
			return nil, fmt.Errorf("%w: npm package %s", integrations.ErrNotFound, pkg)
		}
		msg := strings.TrimSpace(string(stderr))
		if msg == "" {
			msg = err.Error()
		}
		return nil, fmt.Errorf("%w: npm view %s: %s", integrations.ErrNetwork, pkg, firstLine(msg))
	}
	return stdout, nil
}

// parseVersions accepts both shapes `npm view --json` prints: an array, or a
// bare string when only one version has been published.
func parseVersions(out []byte) ([]string, error) {
	out = bytes.TrimSpace(out)
	if len(out) == 0 {
		return nil, nil
	}
	if out[0] == '"' {
		var one string
		if err := json.Unmarshal(out, &one); err != nil {
			return nil, fmt.Errorf("%w: %v", integrations.ErrInvalidResponse, err)
		}
		return []string{one}, nil
	}
	var many []string
	if err := json.Unmarshal(out, &many); err != nil {
		return nil, fmt.Errorf("%w: %v", integrations.ErrInvalidResponse, err)
	}
	return many, nil
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

func run(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	return stdout.Bytes(), stderr.Bytes(), err
}
