package pipeline

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/jedrzejginter/toolkit/pkg/constraint"
	"github.com/jedrzejginter/toolkit/pkg/deps"
	"github.com/jedrzejginter/toolkit/pkg/errors"
	"github.com/jedrzejginter/toolkit/pkg/feature"
	"github.com/jedrzejginter/toolkit/pkg/manifest"
	"github.com/jedrzejginter/toolkit/pkg/observability"
)

// Runner executes pipeline runs against one registry.
//
// The Runner holds no per-run state. Multiple goroutines can safely use the
// same Runner with different configs.
type Runner struct {
	Registry deps.Registry
	Logger   *log.Logger
	Hooks    observability.PipelineHooks
}

// NewRunner creates a runner. A nil logger discards output; nil hooks are
// replaced with no-ops.
func NewRunner(reg deps.Registry, logger *log.Logger, hooks observability.PipelineHooks) *Runner {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Runner{Registry: reg, Logger: logger, Hooks: observability.PipelineOrNoop(hooks)}
}

// Execute runs the pipeline for cfg. On failure the run ends in the Failed
// state and no result is returned.
func (r *Runner) Execute(ctx context.Context, cfg feature.Config, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	if !cfg.Valid() {
		return nil, errors.New(errors.ErrCodeInvalidInput, "feature config was not built with feature.NewConfig")
	}
	if r.Registry == nil {
		return nil, errors.New(errors.ErrCodeInternal, "pipeline runner has no registry")
	}

	res := &Result{RunID: uuid.NewString(), State: Collecting}
	logger := r.Logger.With("run", res.RunID[:8])
	start := time.Now()

	fail := func(err error) (*Result, error) {
		logger.Debug("state", "from", res.State, "to", Failed, "err", err)
		res.State = Failed
		r.Hooks.OnRunComplete(ctx, Failed.String(), res.Stats.Packages, time.Since(start))
		return nil, err
	}

	// Collecting
	plan := &feature.Plan{}
	em := tee{plan, opts.Emitter}
	var patches []manifest.Patch
	err := r.stage(ctx, logger, res, &res.Stats.CollectTime, func() error {
		var err error
		patches, err = feature.Collect(ctx, cfg, em)
		return err
	})
	if err != nil {
		return fail(err)
	}
	res.Stats.Features = len(patches)
	res.Files = plan.Files()

	// Merging
	r.transition(logger, res, Merging)
	_ = r.stage(ctx, logger, res, &res.Stats.MergeTime, func() error {
		res.Patch = manifest.Merge(patches[0], patches[1:]...)
		return nil
	})

	// Resolving
	r.transition(logger, res, Resolving)
	names := res.Patch.Names()
	res.Stats.Packages = len(names)
	err = r.stage(ctx, logger, res, &res.Stats.ResolveTime, func() error {
		versions, err := deps.NewResolver(r.Registry).Resolve(ctx, names, deps.Options{
			Concurrency:  opts.Concurrency,
			QueryTimeout: opts.QueryTimeout,
			Constraints:  constraint.Defaults(cfg.LegacyBrowserSupport()).With(opts.Constraints),
			Pins:         map[string]string{feature.OwnPackage: OwnPackagePin(opts.OwnVersion, cfg.CIMode())},
			Logger:       logger.Debugf,
		})
		if err != nil {
			return err
		}
		res.Resolved, err = res.Patch.Resolve(versions)
		return err
	})
	if err != nil {
		return fail(err)
	}

	r.transition(logger, res, Done)
	total := time.Since(start)
	logger.Info("resolved dependencies",
		"features", res.Stats.Features,
		"packages", res.Stats.Packages,
		"files", len(res.Files),
		"duration", total.Round(time.Millisecond))
	r.Hooks.OnRunComplete(ctx, Done.String(), res.Stats.Packages, total)
	return res, nil
}

func (r *Runner) transition(logger *log.Logger, res *Result, to State) {
	logger.Debug("state", "from", res.State, "to", to)
	res.State = to
}

// stage times fn under the current state and reports it to hooks.
func (r *Runner) stage(ctx context.Context, logger *log.Logger, res *Result, elapsed *time.Duration, fn func() error) error {
	name := res.State.String()
	r.Hooks.OnStageStart(ctx, name)
	start := time.Now()
	err := fn()
	*elapsed = time.Since(start)
	r.Hooks.OnStageComplete(ctx, name, *elapsed, err)
	if err == nil {
		logger.Debug("stage complete", "stage", name, "duration", elapsed.Round(time.Microsecond))
	}
	return err
}

// tee records emissions in a plan before forwarding them.
type tee struct {
	plan *feature.Plan
	next feature.Emitter
}

func (t tee) Emit(ctx context.Context, f feature.File) error {
	if err := t.plan.Emit(ctx, f); err != nil {
		return err
	}
	return t.next.Emit(ctx, f)
}
