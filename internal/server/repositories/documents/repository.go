// Package documents stores schemaless documents keyed by collection and id.
package documents

import (
	"context"
)

// Repository is the document server's storage. Get returns (nil, nil) when
// the document does not exist; Delete of a missing document is not an error.
type Repository interface {
	Set(ctx context.Context, collection, id string, fields map[string]any) error
	Get(ctx context.Context, collection, id string) (map[string]any, error)
	Delete(ctx context.Context, collection, id string) error
	Query(ctx context.Context, collection, field string, value any) ([]map[string]any, error)
}
