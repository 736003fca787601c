package feature

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/jedrzejginter/toolkit/pkg/manifest"
)

// Collect runs the base resolver and every enabled feature's resolver
// concurrently and waits for all of them. Patches come back base first,
// then in the order of cfg.Features(). The first failure cancels the others
// and is returned.
func Collect(ctx context.Context, cfg Config, em Emitter) ([]manifest.Patch, error) {
	if em == nil {
		em = Discard
	}
	features := cfg.Features()
	patches := make([]manifest.Patch, len(features)+1)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		p, err := Base(ctx, cfg, em)
		patches[0] = p
		return err
	})
	for i, f := range features {
		g.Go(func() error {
			p, err := Resolve(ctx, f, cfg, em)
			patches[i+1] = p
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return patches, nil
}
