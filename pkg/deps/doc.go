// Package deps resolves concrete versions for dependency names.
//
// # Overview
//
// Feature resolvers name the packages a project needs; this package decides
// which version of each one ends up in package.json. It talks to a package
// registry through the [Registry] interface (see pkg/integrations/npm and
// pkg/integrations/npmcli) and consults a [constraint.Table] for packages
// that must not resolve to their latest release.
//
// # Resolving a batch
//
//	r := deps.NewResolver(npm.NewClient(npm.Options{}))
//	versions, err := r.Resolve(ctx, patch.Names(), deps.Options{
//	    Constraints: constraint.Defaults(true),
//	    Pins:        map[string]string{"@ginterdev/toolkit": "1.0.0"},
//	})
//
// Each distinct name costs at most one registry query. Queries run
// concurrently (Options.Concurrency, default 16), each with its own deadline
// (Options.QueryTimeout, default 10s). There are no retries: the first
// failure cancels the batch.
//
// # Version order
//
// [Versions] returns versions in the order the registry publishes them.
// Constraints pick by semantic version, so the order only matters to
// callers that display it.
package deps
