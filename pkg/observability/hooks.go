// Package observability provides hooks for metrics and tracing.
//
// Hooks are plain interfaces with no-op defaults. They are passed explicitly
// to the components that emit events (the pipeline runner and registry
// clients) rather than registered globally, so two runners in one process
// can report to different backends.
//
// # Usage
//
//	runner := pipeline.NewRunner(registry, logger, myHooks)
//	client := npm.NewClient(npm.Options{Hooks: myHooks})
//
// The Prometheus implementation lives in internal/metrics.
package observability

import (
	"context"
	"time"
)

// =============================================================================
// Pipeline Hooks
// =============================================================================

// PipelineHooks receives events from the resolution pipeline.
type PipelineHooks interface {
	// OnStageStart is called when the pipeline enters a stage
	// (collecting, merging, resolving).
	OnStageStart(ctx context.Context, stage string)
	// OnStageComplete is called when a stage finishes, successfully or not.
	OnStageComplete(ctx context.Context, stage string, duration time.Duration, err error)
	// OnRunComplete is called once per run with the terminal state.
	OnRunComplete(ctx context.Context, state string, packages int, duration time.Duration)
}

// =============================================================================
// Registry Hooks
// =============================================================================

// RegistryHooks receives events from registry clients.
type RegistryHooks interface {
	// OnQuery records a registry round-trip. kind is "versions" or "latest".
	OnQuery(ctx context.Context, kind, pkg string, duration time.Duration, err error)
	// OnCacheHit records a query answered from the response cache.
	OnCacheHit(ctx context.Context, kind string)
	// OnCacheMiss records a query that had to go to the registry.
	OnCacheMiss(ctx context.Context, kind string)
}

// Hooks bundles every hook category; a single backend usually implements all of them.
type Hooks interface {
	PipelineHooks
	RegistryHooks
}

// =============================================================================
// No-op Implementations
// =============================================================================

// Noop implements [Hooks] and discards every event.
type Noop struct{}

func (Noop) OnStageStart(context.Context, string)                          {}
func (Noop) OnStageComplete(context.Context, string, time.Duration, error) {}
func (Noop) OnRunComplete(context.Context, string, int, time.Duration)     {}
func (Noop) OnQuery(context.Context, string, string, time.Duration, error) {}
func (Noop) OnCacheHit(context.Context, string)                            {}
func (Noop) OnCacheMiss(context.Context, string)                           {}

var _ Hooks = Noop{}

// PipelineOrNoop returns h, or [Noop] when h is nil.
func PipelineOrNoop(h PipelineHooks) PipelineHooks {
	if h == nil {
		return Noop{}
	}
	return h
}

// RegistryOrNoop returns h, or [Noop] when h is nil.
func RegistryOrNoop(h RegistryHooks) RegistryHooks {
	if h == nil {
		return Noop{}
	}
	return h
}
