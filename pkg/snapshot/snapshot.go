package snapshot

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by Store.Load when no snapshot exists for a name.
var ErrNotFound = errors.New("snapshot: not found")

// Snapshot is a serializable view of one state machine.
type Snapshot struct {
	Name        string    `json:"name"`
	State       string    `json:"state,omitempty"`   // empty when poisoned
	Pending     string    `json:"pending,omitempty"` // empty when no transition is queued
	Poisoned    bool      `json:"poisoned"`
	Error       string    `json:"error,omitempty"`
	Transitions uint64    `json:"transitions"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Store persists snapshots keyed by machine name.
type Store interface {
	// Save stores s under s.Name, replacing any previous snapshot.
	Save(ctx context.Context, s Snapshot) error

	// Load returns the snapshot stored under name, or ErrNotFound.
	Load(ctx context.Context, name string) (Snapshot, error)

	// Delete removes the snapshot stored under name. Missing names are not an error.
	Delete(ctx context.Context, name string) error

	// List returns the names of all stored snapshots.
	List(ctx context.Context) ([]string, error)
}
