package ports

import (
	"context"

	"github.com/aretw0/dataflow/pkg/domain"
)

// StateStore persists module state snapshots.
// It is the save/restore surface used by network-file savers and the HTTP API.
type StateStore interface {
	// Save persists the snapshot for a given module ID.
	Save(ctx context.Context, moduleID string, snapshot *domain.StateSnapshot) error

	// Load retrieves the snapshot for a given module ID.
	// Returns domain.ErrSnapshotNotFound if none was saved.
	Load(ctx context.Context, moduleID string) (*domain.StateSnapshot, error)

	// Delete removes the snapshot for a given module ID.
	Delete(ctx context.Context, moduleID string) error

	// List returns the IDs with a saved snapshot.
	List(ctx context.Context) ([]string, error)
}
