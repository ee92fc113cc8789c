// Package shared holds helpers used across packages. Subpackage testutil
// captures slog output so tests can assert on structured log attributes.
package shared
