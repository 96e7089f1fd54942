package metadata

import (
	"context"
)

// Keys of the client state kept in the metadata table.
const (
	KeySelectedUser = "selected_user_id"
	KeyLastFullSync = "last_full_sync_at"
	KeyLastUpload   = "last_upload_at"
)

// Repository is a small string key-value store for client state that must
// survive restarts.
type Repository interface {
	// Get returns ("", false, nil) when the key is absent.
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	List(ctx context.Context) (map[string]string, error)
}
