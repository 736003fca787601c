// Package pipeline runs the feature → patch → version pipeline that both
// the CLI and the HTTP API use.
//
// # Architecture
//
// A run moves through three stages, then ends Done or Failed:
//
//  1. Collecting: every enabled feature resolver runs (concurrently) and
//     emits its files; the run waits for all of them
//  2. Merging: the base patch absorbs every feature patch
//  3. Resolving: each distinct dependency name gets exactly one version
//
// Any failure moves the run to Failed immediately. Nothing is written by
// the pipeline itself: callers apply [Result.Resolved] to package.json only
// after Execute succeeds.
//
// # Usage
//
//	runner := pipeline.NewRunner(npm.NewClient(npm.Options{}), logger, hooks)
//	cfg, _ := feature.NewConfig(feature.Options{Features: []feature.Feature{feature.React}})
//	result, err := runner.Execute(ctx, cfg, pipeline.Options{})
//	if err != nil {
//	    log.Fatal(errors.UserMessage(err))
//	}
//	fmt.Println(result.Resolved.Dependencies["react"])
package pipeline

import (
	"time"

	"github.com/jedrzejginter/toolkit/pkg/buildinfo"
	"github.com/jedrzejginter/toolkit/pkg/constraint"
	"github.com/jedrzejginter/toolkit/pkg/deps"
	"github.com/jedrzejginter/toolkit/pkg/errors"
	"github.com/jedrzejginter/toolkit/pkg/feature"
	"github.com/jedrzejginter/toolkit/pkg/manifest"
)

// =============================================================================
// States
// =============================================================================

// State is the position of a run in the pipeline.
type State int

const (
	Collecting State = iota
	Merging
	Resolving
	Done
	Failed
)

func (s State) String() string {
	switch s {
	case Collecting:
		return "collecting"
	case Merging:
		return "merging"
	case Resolving:
		return "resolving"
	case Done:
		return "done"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// =============================================================================
// Options
// =============================================================================

// Options configures a run. Zero values select defaults.
type Options struct {
	// Concurrency bounds parallel registry queries (default: deps.DefaultConcurrency).
	Concurrency int
	// QueryTimeout bounds each registry query (default: deps.DefaultQueryTimeout).
	QueryTimeout time.Duration
	// Constraints are layered over constraint.Defaults for the run's config.
	Constraints constraint.Table
	// OwnVersion is the version the toolkit's own package is pinned to
	// (default: buildinfo.PackageVersion()).
	OwnVersion string
	// Emitter receives file emissions in addition to the result's plan.
	Emitter feature.Emitter
}

// ValidateAndSetDefaults fills zero values and rejects invalid ones.
func (o *Options) ValidateAndSetDefaults() error {
	if o.Concurrency < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "concurrency must be positive, got %d", o.Concurrency)
	}
	if o.QueryTimeout < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "query timeout must be positive, got %s", o.QueryTimeout)
	}
	if o.Concurrency == 0 {
		o.Concurrency = deps.DefaultConcurrency
	}
	if o.QueryTimeout == 0 {
		o.QueryTimeout = deps.DefaultQueryTimeout
	}
	if o.OwnVersion == "" {
		o.OwnVersion = buildinfo.PackageVersion()
	}
	if o.Emitter == nil {
		o.Emitter = feature.Discard
	}
	return nil
}

// OwnPackagePin returns the version string the toolkit's own package
// resolves to: the pinned version, or in CI mode the tarball `npm pack`
// produces next to the project.
func OwnPackagePin(version string, ciMode bool) string {
	if ciMode {
		return "file:./ginterdev-toolkit-" + version + ".tgz"
	}
	return version
}

// =============================================================================
// Result
// =============================================================================

// Result is the outcome of a successful run.
type Result struct {
	RunID    string            `json:"run_id"`
	State    State             `json:"-"`
	Patch    manifest.Patch    `json:"-"`
	Resolved manifest.Resolved `json:"resolved"`
	Files    []feature.File    `json:"files"`
	Stats    Stats             `json:"stats"`
}

// Stats holds stage timings and counts.
type Stats struct {
	CollectTime time.Duration `json:"collect_ns"`
	MergeTime   time.Duration `json:"merge_ns"`
	ResolveTime time.Duration `json:"resolve_ns"`
	Features    int           `json:"features"`
	Packages    int           `json:"packages"`
}

// Total returns the sum of the stage timings.
func (s Stats) Total() time.Duration {
	return s.CollectTime + s.MergeTime + s.ResolveTime
}
