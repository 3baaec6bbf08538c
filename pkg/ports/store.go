package ports

import (
	"context"

	"github.com/aretw0/midiroute/pkg/domain"
)

// StatusStore records diagnostic snapshots of router sessions.
// It never holds routed messages.
type StatusStore interface {
	// Save records the latest snapshot for a router instance.
	Save(ctx context.Context, routerID string, snapshot domain.SessionSnapshot) error

	// Load returns the latest snapshot for a router instance.
	// Returns domain.ErrSnapshotNotFound if nothing was saved yet.
	Load(ctx context.Context, routerID string) (domain.SessionSnapshot, error)

	// History lists recent session IDs for a router instance, newest first.
	History(ctx context.Context, routerID string) ([]string, error)
}
