package users

import (
	"context"

	"github.com/dmitrijs2005/gophnotes/internal/client/models"
)

// Repository stores signed-in users.
type Repository interface {
	// Upsert inserts the user or replaces the row with the same id.
	Upsert(ctx context.Context, u *models.User) error
	// GetByID returns the user or nil when it does not exist.
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetAll(ctx context.Context) ([]*models.User, error)
	Delete(ctx context.Context, id string) error
}
