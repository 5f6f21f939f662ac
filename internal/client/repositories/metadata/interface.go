// Package metadata is a small key/value cache backed by local SQLite. The
// CLI keeps non-sensitive convenience data here: the last username-or-email
// used to sign in and a snapshot of the profile shown by whoami. Credentials
// and staged logins are never written to it.
package metadata

import "context"

// Well-known cache keys.
const (
	KeyLastLogin = "last_login"
	KeyProfile   = "profile"
)

type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}
