package notes

import (
	"context"

	"github.com/dmitrijs2005/gophnotes/internal/client/models"
)

// Repository describes storage operations for notes.
type Repository interface {
	// Upsert inserts the note or replaces the row with the same id.
	Upsert(ctx context.Context, n *models.Note) error

	// GetByID returns the note or nil when it does not exist.
	GetByID(ctx context.Context, id string) (*models.Note, error)

	// GetAll returns every note, most recently updated first.
	GetAll(ctx context.Context) ([]*models.Note, error)

	// GetByUser returns the user's notes, most recently updated first.
	GetByUser(ctx context.Context, userID string) ([]*models.Note, error)

	// GetUnsynced returns notes whose latest write is not confirmed remotely.
	GetUnsynced(ctx context.Context) ([]*models.Note, error)

	// GetUnsyncedByUser is GetUnsynced restricted to one user.
	GetUnsyncedByUser(ctx context.Context, userID string) ([]*models.Note, error)

	// MarkSynced sets the synced flag without touching other columns.
	MarkSynced(ctx context.Context, id string) error

	// MarkSyncedIfUnchanged sets the synced flag only if the note still has
	// the given updatedAt, so a concurrent edit is never marked as synced.
	// It reports whether the row was updated.
	MarkSyncedIfUnchanged(ctx context.Context, id string, updatedAt int64) (bool, error)

	// Delete removes the note row. Deleting a missing note is not an error.
	Delete(ctx context.Context, id string) error
}
