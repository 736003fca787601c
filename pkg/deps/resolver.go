package deps

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jedrzejginter/toolkit/pkg/constraint"
)

// Resolver assigns one version to each of a batch of package names.
type Resolver struct {
	reg Registry
}

// NewResolver creates a Resolver backed by reg.
func NewResolver(reg Registry) *Resolver {
	return &Resolver{reg: reg}
}

// Resolve picks a version for every name, querying the registry at most once
// per distinct name:
//
//   - pinned names take their pin and never reach the registry
//   - constrained names take the best release version their constraint accepts
//   - everything else takes the registry's latest version
//
// Queries run concurrently up to opts.Concurrency, each bounded by
// opts.QueryTimeout. The first failure cancels outstanding queries and is
// returned; no partial result is.
func (r *Resolver) Resolve(ctx context.Context, names []string, opts Options) (map[string]string, error) {
	opts = opts.WithDefaults()

	unique := make([]string, 0, len(names))
	seen := make(map[string]bool, len(names))
	for _, n := range names {
		if !seen[n] {
			seen[n] = true
			unique = append(unique, n)
		}
	}

	slots := make([]string, len(unique))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Concurrency)

	for i, name := range unique {
		if pin, ok := opts.Pins[name]; ok {
			opts.Logger("pinned %s@%s", name, pin)
			slots[i] = pin
			continue
		}
		g.Go(func() error {
			v, err := r.resolveOne(ctx, name, opts)
			if err != nil {
				return err
			}
			slots[i] = v
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make(map[string]string, len(unique))
	for i, name := range unique {
		out[name] = slots[i]
	}
	return out, nil
}

func (r *Resolver) resolveOne(ctx context.Context, name string, opts Options) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	qctx, cancel := context.WithTimeout(ctx, opts.QueryTimeout)
	defer cancel()

	start := time.Now()
	fn, constrained := opts.Constraints.Lookup(name)
	if !constrained {
		v, err := Latest(qctx, r.reg, name)
		if err != nil {
			return "", err
		}
		opts.Logger("resolved %s@%s (latest, %s)", name, v, time.Since(start).Round(time.Millisecond))
		return v, nil
	}

	versions, err := Versions(qctx, r.reg, name, true)
	if err != nil {
		return "", err
	}
	v, err := constraint.Apply(name, fn, versions)
	if err != nil {
		return "", err
	}
	opts.Logger("resolved %s@%s (constrained, %s)", name, v, time.Since(start).Round(time.Millisecond))
	return v, nil
}
