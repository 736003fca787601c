// Package manifest merges feature patches and writes the result into a
// project's package.json.
//
// # Patches
//
// A [Patch] is what one feature contributes: scripts plus the names (not
// versions) of runtime and development dependencies. Patches are only ever
// combined with [Merge]; scripts are last-writer-wins and dependency sets
// are unioned, so merging the same patch twice changes nothing.
//
// # Resolution
//
// [Patch.Names] is the deduplicated list handed to version resolution.
// [Patch.Resolve] pairs each name with its version and refuses to drop any.
// The resulting [Resolved] serialises with sorted keys.
//
// # Documents
//
// [Document] is a package.json that keeps its top-level key order across a
// read-modify-write cycle. [Apply] overlays a [Resolved] patch on it; on key
// collisions the newly computed value wins.
package manifest
