// Package services is the client's application layer.
//
// NoteRepository is the single entry point used by the REPL and the live
// feed. Every write commits to the local store first, and a local failure
// fails the call. When online it then makes at most one best-effort remote
// call; remote failures are logged by the sync engine and never returned.
// Reads and live queries are served from the local store only.
//
// Input is validated before anything is written. Validation failures are
// *ValidationError values that wrap common.ErrBlankTitle,
// common.ErrNoUserSelected or common.ErrBlankTagName.
package services
