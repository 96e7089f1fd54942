package remote

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/gophnotes/internal/client/models"
)

var (
	ErrUnavailable  = errors.New("remote store unavailable")
	ErrUnauthorized = errors.New("unauthorized")
)

// Collections.
const (
	Users       = "users"
	Notes       = "notes"
	Tags        = "tags"
	Attachments = "attachments"
	NoteTags    = "note_tags"
)

// DocumentStore is a remote key-value store of field maps grouped in
// collections.
type DocumentStore interface {
	// Set creates or replaces the whole document.
	Set(ctx context.Context, collection, id string, fields models.Fields) error
	// Get returns nil when the document does not exist.
	Get(ctx context.Context, collection, id string) (models.Fields, error)
	Delete(ctx context.Context, collection, id string) error
	// Query returns the documents whose field equals value.
	Query(ctx context.Context, collection, field string, value any) ([]models.Fields, error)
	Ping(ctx context.Context) error
	Close() error
}
