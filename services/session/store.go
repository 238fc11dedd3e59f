package session

import (
	"context"
	"errors"
)

// Storage keys for the bootstrapped session. All values are strings, the user
// profile travels as JSON.
const (
	KeyAccessToken    = "accessToken"
	KeyRefreshToken   = "refreshToken"
	KeyUserID         = "userId"
	KeyUser           = "user"
	KeyTokenTimestamp = "tokenTimestamp"
	KeyExpiresIn      = "expiresIn"
)

// ErrNotFound is returned by Store.Get for a missing key.
var ErrNotFound = errors.New("session: key not found")

// Store is the local persistent key/value storage the wizard runs on. It is
// injected everywhere so tests can use the in-memory implementation.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	// Clear removes every key this store owns.
	Clear(ctx context.Context) error
}
