package deps

import (
	"context"
	"regexp"
	"time"

	"github.com/jedrzejginter/toolkit/pkg/constraint"
	"github.com/jedrzejginter/toolkit/pkg/errors"
)

const (
	DefaultConcurrency  = 16               // Default parallel registry queries
	DefaultQueryTimeout = 10 * time.Second // Default per-query deadline
	DefaultCacheTTL     = 24 * time.Hour   // Default registry response cache duration
)

// Registry answers version queries for packages. Implementations live in
// pkg/integrations.
type Registry interface {
	// QueryVersions returns every published version of name in the order the
	// registry lists them.
	QueryVersions(ctx context.Context, name string) ([]string, error)
	// QueryLatest returns the version name's "latest" tag points at.
	QueryLatest(ctx context.Context, name string) (string, error)
}

// Options configures version resolution.
type Options struct {
	Concurrency  int                  // Parallel registry queries (default: 16)
	QueryTimeout time.Duration        // Deadline per query (default: 10s)
	Constraints  constraint.Table     // Constrained packages (default: none)
	Pins         map[string]string    // Versions fixed without a registry query
	Logger       func(string, ...any) // Progress callback (optional)
}

// WithDefaults returns a copy of Options with zero values replaced by defaults.
func (o Options) WithDefaults() Options {
	opts := o
	if opts.Concurrency <= 0 {
		opts.Concurrency = DefaultConcurrency
	}
	if opts.QueryTimeout <= 0 {
		opts.QueryTimeout = DefaultQueryTimeout
	}
	if opts.Constraints == nil {
		opts.Constraints = constraint.Table{}
	}
	if opts.Logger == nil {
		opts.Logger = func(string, ...any) {}
	}
	return opts
}

// release matches plain x.y.z versions: no pre-release or build tags.
var release = regexp.MustCompile(`^\d+\.\d+\.\d+$`)

// IsRelease reports whether v is a plain x.y.z version.
func IsRelease(v string) bool { return release.MatchString(v) }

// Versions returns the published versions of name in registry order. With
// excludePrerelease only plain x.y.z versions are kept. Registry failures
// come back as REGISTRY_ERROR naming the package.
func Versions(ctx context.Context, reg Registry, name string, excludePrerelease bool) ([]string, error) {
	all, err := reg.QueryVersions(ctx, name)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeRegistry, err, "query versions of %s", name)
	}
	if !excludePrerelease {
		return all, nil
	}
	out := make([]string, 0, len(all))
	for _, v := range all {
		if IsRelease(v) {
			out = append(out, v)
		}
	}
	return out, nil
}

// Latest returns the latest version of name, wrapping failures as
// REGISTRY_ERROR.
func Latest(ctx context.Context, reg Registry, name string) (string, error) {
	v, err := reg.QueryLatest(ctx, name)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeRegistry, err, "query latest version of %s", name)
	}
	return v, nil
}
