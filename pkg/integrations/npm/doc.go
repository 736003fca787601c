// Package npm provides an HTTP client for the npm registry API.
//
// # Overview
//
// This package reads package documents from the npm registry
// (https://registry.npmjs.org) or any compatible mirror, and answers the two
// queries the scaffolding pipeline needs:
//
//   - [Client.QueryVersions]: every published version, in registry order
//   - [Client.QueryLatest]: the version tagged "latest"
//
// # Usage
//
//	client := npm.NewClient(npm.Options{CacheTTL: time.Hour})
//
//	versions, err := client.QueryVersions(ctx, "husky")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	latest, err := client.QueryLatest(ctx, "react")
//
// # Ordering
//
// The registry lists versions in publication order. The client preserves
// that order exactly; it does not re-sort by semantic version.
//
// # Caching
//
// Both queries share one cached document per package, so asking for the
// version list and the latest tag of the same package costs one request.
// Pass Options.Refresh to bypass cached responses.
package npm
