package syncengine

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/gophnotes/internal/client/localstore"
	"github.com/dmitrijs2005/gophnotes/internal/client/models"
	"github.com/dmitrijs2005/gophnotes/internal/client/remote"
	"github.com/dmitrijs2005/gophnotes/internal/logging"
)

// Connectivity is the part of connectivity.Monitor the engine reads.
type Connectivity interface {
	IsOnline() bool
	Reconnected() <-chan struct{}
	ResetDisconnectedFlag()
}

type Engine struct {
	store  *localstore.Store
	remote remote.DocumentStore
	conn   Connectivity
	log    logging.Logger

	noteLocks *keyedMutex
	userLocks *keyedMutex
}

func New(store *localstore.Store, rs remote.DocumentStore, conn Connectivity, log logging.Logger) *Engine {
	if log == nil {
		log = logging.Discard()
	}
	return &Engine{
		store:     store,
		remote:    rs,
		conn:      conn,
		log:       log.With("component", "sync"),
		noteLocks: newKeyedMutex(),
		userLocks: newKeyedMutex(),
	}
}

// SaveNote writes n locally as dirty and, when online, pushes it. Only the
// local write can fail the call. UpdatedAt never drops below the stored
// row's, even when n is a stale copy.
func (e *Engine) SaveNote(ctx context.Context, n *models.Note) error {
	unlock := e.noteLocks.Lock(n.ID)
	defer unlock()

	stored, err := e.store.GetNote(ctx, n.ID)
	if err != nil {
		return fmt.Errorf("failed to save note: %w", err)
	}
	if stored != nil && stored.UpdatedAt > n.UpdatedAt {
		n.UpdatedAt = stored.UpdatedAt
	}
	if n.UpdatedAt < n.CreatedAt {
		n.UpdatedAt = n.CreatedAt
	}

	n.IsSynced = false
	if err := e.store.UpsertNote(ctx, n); err != nil {
		return fmt.Errorf("failed to save note: %w", err)
	}
	e.pushIfOnline(ctx, n)
	return nil
}

// CreateNote is SaveNote for a new note together with its tag links and
// optional attachment. Tag links and the attachment are replicated
// best-effort after the note.
func (e *Engine) CreateNote(ctx context.Context, n *models.Note, tagIDs []string, a *models.Attachment) error {
	unlock := e.noteLocks.Lock(n.ID)
	defer unlock()

	n.IsSynced = false
	if err := e.store.InsertNote(ctx, n, tagIDs, a); err != nil {
		return fmt.Errorf("failed to create note: %w", err)
	}
	if !e.pushIfOnline(ctx, n) {
		return nil
	}

	for _, tagID := range tagIDs {
		nt := models.NoteTag{NoteID: n.ID, TagID: tagID}
		e.Replicate(ctx, remote.NoteTags, nt.DocID(), models.NoteTagFields(nt))
	}
	if a != nil {
		e.Replicate(ctx, remote.Attachments, a.ID, models.AttachmentFields(a))
	}
	return nil
}

// DeleteNote removes the note locally with its dependants, then tries the
// remote delete once.
func (e *Engine) DeleteNote(ctx context.Context, id string) error {
	unlock := e.noteLocks.Lock(id)
	defer unlock()

	if err := e.store.DeleteNote(ctx, id); err != nil {
		return err
	}
	e.Unreplicate(ctx, remote.Notes, id)
	return nil
}

// Replicate writes a non-note document when online. Failures are logged.
func (e *Engine) Replicate(ctx context.Context, collection, id string, fields models.Fields) bool {
	if !e.conn.IsOnline() {
		return false
	}
	if err := e.remote.Set(ctx, collection, id, fields); err != nil {
		e.log.Warn(ctx, "failed to replicate document", "collection", collection, "id", id, "error", err)
		return false
	}
	return true
}

// Unreplicate deletes a remote document when online. Failures are logged
// and not retried.
func (e *Engine) Unreplicate(ctx context.Context, collection, id string) bool {
	if !e.conn.IsOnline() {
		return false
	}
	if err := e.remote.Delete(ctx, collection, id); err != nil {
		e.log.Warn(ctx, "failed to delete remote document", "collection", collection, "id", id, "error", err)
		return false
	}
	return true
}

func (e *Engine) IsOnline() bool {
	return e.conn.IsOnline()
}

// pushIfOnline reports whether n is now replicated. Caller holds the note
// lock.
func (e *Engine) pushIfOnline(ctx context.Context, n *models.Note) bool {
	if !e.conn.IsOnline() {
		return false
	}
	ok, err := e.push(ctx, n)
	if err != nil {
		e.log.Error(ctx, "failed to mark note synced", "note_id", n.ID, "error", err)
	}
	return ok
}

// push writes n remotely and marks it synced if the local row still has the
// pushed UpdatedAt. A remote failure is logged and reported as (false, nil).
func (e *Engine) push(ctx context.Context, n *models.Note) (bool, error) {
	if err := e.remote.Set(ctx, remote.Notes, n.ID, models.NoteFields(n)); err != nil {
		e.log.Warn(ctx, "failed to push note", "note_id", n.ID, "error", err)
		return false, nil
	}
	ok, err := e.store.MarkNoteSyncedIfUnchanged(ctx, n.ID, n.UpdatedAt)
	if err != nil {
		return false, err
	}
	if ok {
		n.IsSynced = true
	}
	return ok, nil
}

// SyncUnsyncedNotes pushes every dirty note. One note failing does not stop
// the pass.
func (e *Engine) SyncUnsyncedNotes(ctx context.Context) (Report, error) {
	if !e.conn.IsOnline() {
		return Report{Offline: true}, nil
	}

	dirty, err := e.store.UnsyncedNotes(ctx)
	if err != nil {
		return Report{}, fmt.Errorf("failed to load unsynced notes: %w", err)
	}

	var r Report
	for _, n := range dirty {
		if ctx.Err() != nil {
			return r, ctx.Err()
		}
		switch e.uploadOne(ctx, n) {
		case uploadSynced:
			r.Attempted++
			r.Synced++
		case uploadFailed:
			r.Attempted++
			r.Failed++
		}
	}

	e.log.Info(ctx, "upload pass finished", "attempted", r.Attempted, "synced", r.Synced, "failed", r.Failed)
	return r, nil
}

type uploadOutcome int

const (
	uploadFailed uploadOutcome = iota
	uploadSynced
	uploadSkipped
)

func (e *Engine) uploadOne(ctx context.Context, n *models.Note) uploadOutcome {
	unlock := e.noteLocks.Lock(n.ID)
	defer unlock()

	// re-read under the lock; the note may have been pushed or deleted since
	cur, err := e.store.GetNote(ctx, n.ID)
	if err != nil {
		e.log.Error(ctx, "failed to reload note", "note_id", n.ID, "error", err)
		return uploadFailed
	}
	if cur == nil || cur.IsSynced {
		return uploadSkipped
	}

	ok, err := e.push(ctx, cur)
	if err != nil {
		e.log.Error(ctx, "failed to mark note synced", "note_id", n.ID, "error", err)
	}
	if !ok {
		return uploadFailed
	}
	return uploadSynced
}

// DownloadNotes merges the user's remote notes into the local store.
func (e *Engine) DownloadNotes(ctx context.Context, userID string) (MergeReport, error) {
	if !e.conn.IsOnline() {
		return MergeReport{Offline: true}, nil
	}

	docs, err := e.remote.Query(ctx, remote.Notes, models.FieldUserID, userID)
	if err != nil {
		e.log.Warn(ctx, "failed to fetch remote notes", "user_id", userID, "error", err)
		return MergeReport{Failed: 1}, nil
	}

	r := MergeReport{Fetched: len(docs)}
	for _, doc := range docs {
		if ctx.Err() != nil {
			return r, ctx.Err()
		}
		rn, err := models.NoteFromFields(doc)
		if err != nil {
			e.log.Warn(ctx, "skipping malformed remote note", "user_id", userID, "error", err)
			r.Failed++
			continue
		}
		switch e.mergeOne(ctx, rn) {
		case mergeInserted:
			r.Inserted++
		case mergeUpdated:
			r.Updated++
		case mergePushed:
			r.Pushed++
		case mergeUnchanged:
			r.Unchanged++
		default:
			r.Failed++
		}
	}

	e.log.Info(ctx, "download pass finished", "user_id", userID,
		"fetched", r.Fetched, "inserted", r.Inserted, "updated", r.Updated,
		"pushed", r.Pushed, "unchanged", r.Unchanged, "failed", r.Failed)
	return r, nil
}

type mergeOutcome int

const (
	mergeFailed mergeOutcome = iota
	mergeInserted
	mergeUpdated
	mergePushed
	mergeUnchanged
)

func (e *Engine) mergeOne(ctx context.Context, rn *models.Note) mergeOutcome {
	unlock := e.noteLocks.Lock(rn.ID)
	defer unlock()

	local, err := e.store.GetNote(ctx, rn.ID)
	if err != nil {
		e.log.Error(ctx, "failed to load local note", "note_id", rn.ID, "error", err)
		return mergeFailed
	}

	switch {
	case local == nil:
		rn.IsSynced = true
		if err := e.store.UpsertNote(ctx, rn); err != nil {
			e.log.Error(ctx, "failed to insert remote note", "note_id", rn.ID, "error", err)
			return mergeFailed
		}
		return mergeInserted

	case rn.UpdatedAt > local.UpdatedAt:
		rn.IsSynced = true
		if err := e.store.UpsertNote(ctx, rn); err != nil {
			e.log.Error(ctx, "failed to overwrite local note", "note_id", rn.ID, "error", err)
			return mergeFailed
		}
		return mergeUpdated

	case local.UpdatedAt > rn.UpdatedAt && !local.IsSynced:
		ok, err := e.push(ctx, local)
		if err != nil {
			e.log.Error(ctx, "failed to mark note synced", "note_id", rn.ID, "error", err)
		}
		if !ok {
			return mergeFailed
		}
		return mergePushed

	default:
		return mergeUnchanged
	}
}

// PerformFullSync runs the upload pass then the download pass for userID.
// Full syncs for the same user never overlap.
func (e *Engine) PerformFullSync(ctx context.Context, userID string) (FullReport, error) {
	unlock := e.userLocks.Lock(userID)
	defer unlock()

	var fr FullReport
	var err error
	if fr.Upload, err = e.SyncUnsyncedNotes(ctx); err != nil {
		return fr, err
	}
	if fr.Download, err = e.DownloadNotes(ctx, userID); err != nil {
		return fr, err
	}
	return fr, nil
}

// UserFunc returns the currently selected user, if any.
type UserFunc func(ctx context.Context) (userID string, ok bool)

// Run performs a full sync for the selected user on every reconnect edge
// and acknowledges the edge afterwards. It returns when ctx is done.
func (e *Engine) Run(ctx context.Context, user UserFunc) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-e.conn.Reconnected():
		}

		if userID, ok := user(ctx); ok {
			if r, err := e.PerformFullSync(ctx, userID); err != nil {
				e.log.Error(ctx, "reconnect sync failed", "user_id", userID, "error", err)
			} else {
				e.log.Info(ctx, "reconnect sync finished", "user_id", userID, "report", r.String())
			}
		}
		e.conn.ResetDisconnectedFlag()
	}
}
