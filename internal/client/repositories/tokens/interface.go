// Package tokens persists the bearer token between process runs.
// It is the client-side analog of browser local storage: one value,
// last writer wins, cleared on logout or on an authorization failure.
package tokens

import "context"

// Repository stores the persisted auth token.
//
// Contract:
//   - Get returns the stored token, or "" when none is stored.
//   - Set replaces the stored token.
//   - Clear removes it; clearing an empty store is not an error.
type Repository interface {
	Get(ctx context.Context) (string, error)
	Set(ctx context.Context, token string) error
	Clear(ctx context.Context) error
}
