// Package pkg provides the core libraries behind the toolkit scaffolding CLI.
//
// # Overview
//
// toolkit turns a selection of project features into the scripts and pinned
// dependencies a JavaScript project needs. The pkg directory is organized
// into these areas:
//
//  1. [feature] - The closed feature catalogue, the immutable Config, and one
//     resolver per feature producing a manifest patch and template emissions
//  2. [manifest] - Patches, merging, and package.json documents
//  3. [constraint] - Version constraint tables (built-in and TOML overrides)
//  4. [deps] - Batched, bounded-concurrency version resolution
//  5. [pipeline] - Orchestration (collect → merge → resolve)
//  6. [integrations] - npm registry clients (HTTP and the npm CLI)
//  7. [cache] - Registry response caches (file, redis, null)
//
// # Architecture
//
//	feature.Config
//	      ↓
//	[feature] resolvers (concurrent) → manifest.Patch per feature
//	      ↓
//	[manifest] Merge → one deduplicated patch
//	      ↓
//	[deps] Resolver + [constraint] table → exact version per package
//	      ↓
//	manifest.Resolved → package.json
//
// # Quick Start
//
//	cfg, _ := feature.NewConfig(feature.Options{
//	    Features: []feature.Feature{feature.React, feature.Jest},
//	})
//	reg := npm.NewClient(npm.Options{Cache: cache.NewNullCache()})
//	res, err := pipeline.NewRunner(reg, nil, nil).Execute(ctx, cfg, pipeline.Options{})
//	if err != nil {
//	    log.Fatal(errors.UserMessage(err))
//	}
//	fmt.Println(res.Resolved.DevDependencies["husky"]) // newest 4.x
//
// # Supporting Packages
//
// [errors] - Coded errors (REGISTRY_ERROR, UNSATISFIABLE_CONSTRAINT, ...)
// and the single-line UserMessage the CLI prints.
//
// [observability] - Pipeline and registry hooks; internal/metrics
// implements them with Prometheus collectors.
//
// [packager] - yarn/npm command lines and the install/format runner.
//
// [buildinfo] - Version information injected at build time.
package pkg
