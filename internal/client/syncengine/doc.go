// Package syncengine replicates the local store to a remote document store.
//
// # Model
//
// A note is either dirty (IsSynced=false) or replicated. Every local save
// marks it dirty; a successful remote write flips it back. Failed remote
// writes are only logged: the note stays dirty and is retried by the next
// upload pass. There is no retry budget or backoff.
//
// # Passes
//
//   - Upload (SyncUnsyncedNotes): push every dirty note, one at a time.
//   - Download (DownloadNotes): fetch the user's remote notes and merge them
//     last-writer-wins by UpdatedAt. Ties keep the local copy.
//   - Full (PerformFullSync): upload then download, serialised per user.
//
// Run starts a full sync for the selected user on every reconnect edge.
//
// # Deletes
//
// Deletes are not tracked: a failed or offline remote delete leaves the
// remote document in place, and the next download for that user brings the
// note back.
//
// # Concurrency
//
// Saves and merges of the same note id are serialised with a keyed mutex.
// Remote calls use the caller's context and carry no extra timeout.
package syncengine
