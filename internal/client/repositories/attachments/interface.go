package attachments

import (
	"context"

	"github.com/dmitrijs2005/gophnotes/internal/client/models"
)

// Repository stores note attachments (URI references only).
type Repository interface {
	Upsert(ctx context.Context, a *models.Attachment) error
	// GetByID returns the attachment or nil when it does not exist.
	GetByID(ctx context.Context, id string) (*models.Attachment, error)
	GetByNote(ctx context.Context, noteID string) ([]*models.Attachment, error)
	Delete(ctx context.Context, id string) error
	// DeleteByNote removes every attachment of a note and returns their ids.
	DeleteByNote(ctx context.Context, noteID string) ([]string, error)
}
