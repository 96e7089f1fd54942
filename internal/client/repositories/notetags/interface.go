package notetags

import (
	"context"

	"github.com/dmitrijs2005/gophnotes/internal/client/models"
)

// Repository stores note/tag associations.
type Repository interface {
	// Upsert adds the association; adding an existing one is a no-op.
	Upsert(ctx context.Context, nt models.NoteTag) error
	Delete(ctx context.Context, nt models.NoteTag) error
	// DeleteByNote removes every association of a note and returns them.
	DeleteByNote(ctx context.Context, noteID string) ([]models.NoteTag, error)
	// DeleteByTag removes every association of a tag and returns them.
	DeleteByTag(ctx context.Context, tagID string) ([]models.NoteTag, error)
	GetByNote(ctx context.Context, noteID string) ([]models.NoteTag, error)
}
