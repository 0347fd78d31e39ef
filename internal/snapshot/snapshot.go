// Package snapshot mirrors store contents to durable object storage and
// restores them when a local store file is missing.
package snapshot

import (
	"context"
)

// Backend stores and retrieves whole-collection snapshots by name.
type Backend interface {
	// Load returns the latest snapshot for the named collection.
	Load(ctx context.Context, name string) ([]byte, error)

	// Save replaces the snapshot for the named collection.
	Save(ctx context.Context, name string, data []byte) error
}
