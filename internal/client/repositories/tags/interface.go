package tags

import (
	"context"

	"github.com/dmitrijs2005/gophnotes/internal/client/models"
)

// Repository stores tags. Names are unique by models.TagNameKey.
type Repository interface {
	Upsert(ctx context.Context, t *models.Tag) error
	GetByID(ctx context.Context, id string) (*models.Tag, error)
	// GetByName matches on the folded name and returns nil when absent.
	GetByName(ctx context.Context, name string) (*models.Tag, error)
	GetAll(ctx context.Context) ([]*models.Tag, error)
	// GetByNote returns the tags associated with a note.
	GetByNote(ctx context.Context, noteID string) ([]*models.Tag, error)
	Delete(ctx context.Context, id string) error
}
