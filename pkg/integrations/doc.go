// Package integrations provides HTTP plumbing shared by package registry clients.
//
// # Overview
//
// [Client] wraps an *http.Client with a response cache, default headers and
// [observability.RegistryHooks] reporting. Registry-specific clients embed it:
//
//   - [npm]: the npm registry HTTP API (registry.npmjs.org or a mirror)
//   - [npmcli]: the `npm view` command, which honours the user's .npmrc
//
// # Errors
//
// Failures are reported with sentinel errors so callers can classify them
// with errors.Is:
//
//   - [ErrNotFound]: the package does not exist
//   - [ErrNetwork]: connection failures, timeouts, non-200 responses
//   - [ErrInvalidResponse]: the response body could not be decoded
//
// # No Retries
//
// Requests are never retried. A registry failure aborts the scaffolding run
// on the first error.
//
// [npm]: github.com/jedrzejginter/toolkit/pkg/integrations/npm
// [npmcli]: github.com/jedrzejginter/toolkit/pkg/integrations/npmcli
// [observability.RegistryHooks]: github.com/jedrzejginter/toolkit/pkg/observability.RegistryHooks
package integrations
