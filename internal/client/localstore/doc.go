// Package localstore is the client's durable, authoritative record store.
//
// # Overview
//
// Store wraps one SQLite database (modernc.org/sqlite, schema migrated with
// goose) and the per-entity repositories under internal/client/repositories.
// It is opened once per process and handed to every consumer; opening the
// same file twice is never needed.
//
// # Change Notification
//
// Every successful mutation publishes the touched tables on a livequery.Hub,
// so the Watch* methods push the full, current collection to their
// subscribers after each change.
//
// # Cascades
//
// Deleting a note removes its note-tag rows and attachments in the same
// transaction; deleting a tag removes its note-tag rows. The schema also
// declares ON DELETE CASCADE and the connection enables foreign keys.
//
// # Errors
//
// All errors are local-store failures and are returned wrapped; single-record
// reads return (nil, nil) when the record does not exist.
package localstore
