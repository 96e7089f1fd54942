// Package notes persists notes in the local SQLite store.
//
// # Data Model
//
// One row per note. is_synced is the dirty flag: writes from the user set it
// to 0, and only the sync engine sets it back to 1 once the remote store has
// confirmed the latest version (MarkSynced / MarkSyncedIfUnchanged).
//
// # Semantics
//
//   - Upsert replaces every column of an existing row with the same id.
//   - GetByID returns (nil, nil) when the note does not exist.
//   - Delete removes only the note row; callers delete dependants in the
//     same transaction (see localstore).
//
// Typical Usage
//
//	repo := notes.NewSQLiteRepository(db)
//	_ = repo.Upsert(ctx, note)
//	pending, _ := repo.GetUnsynced(ctx)
//	_, _ = repo.MarkSyncedIfUnchanged(ctx, note.ID, note.UpdatedAt)
package notes
