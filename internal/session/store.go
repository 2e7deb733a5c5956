// Package session provides the session-scoped key/value store backing
// short-lived per-user state such as the applied discount and the
// password-recovery marker.
package session

import (
	"context"
	"time"
)

// Store is a session-scoped key/value store. Get returns (nil, nil) when
// the key is absent or expired.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}
