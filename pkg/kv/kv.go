// Package kv abstracts the durable key-value medium the waitlist persists
// to. The canonical backend is a local JSON file; SQLite, Postgres and
// Redis backends exist for embedders that already run one of those, and a
// resilience decorator guards any of them against flaky media. All
// backends share last-write-wins semantics on a slot: concurrent sessions
// over the same medium can overwrite each other, which the waitlist design
// documents rather than solves.
package kv

import (
	"context"
	"errors"
)

// ErrNotFound reports a key with no stored value. A missing key is the
// normal first-run state, distinct from a medium failure.
var ErrNotFound = errors.New("kv: key not found")

// Store is a durable key-value medium holding whole-payload slots.
type Store interface {
	// Get returns the payload stored under key, or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)
	// Set overwrites the slot under key with value in full.
	Set(ctx context.Context, key string, value []byte) error
	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
	// Ping verifies the medium is reachable.
	Ping(ctx context.Context) error
	Close() error
}
