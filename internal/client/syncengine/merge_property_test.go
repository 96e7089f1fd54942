package syncengine

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/gophnotes/internal/client/models"
	"github.com/dmitrijs2005/gophnotes/internal/client/remote"
	"github.com/google/uuid"
	"pgregory.net/rapid"
)

// For any local/remote pair the merge ends with the newer side on both
// ends, or touches nothing.
func TestDownload_LastWriterWinsProperty(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()

	rapid.Check(t, func(rt *rapid.T) {
		userID := uuid.NewString()
		id := uuid.NewString()

		localAt := rapid.Int64Range(1, 1000).Draw(rt, "localUpdatedAt")
		remoteAt := rapid.Int64Range(1, 1000).Draw(rt, "remoteUpdatedAt")
		localSynced := rapid.Bool().Draw(rt, "localSynced")

		local := &models.Note{ID: id, UserID: userID, Title: "local", CreatedAt: 1, UpdatedAt: localAt, IsSynced: localSynced}
		if err := f.store.UpsertNote(ctx, local); err != nil {
			rt.Fatalf("seed local: %v", err)
		}
		rn := &models.Note{ID: id, UserID: userID, Title: "remote", CreatedAt: 1, UpdatedAt: remoteAt}
		if err := f.remote.DocumentStore.Set(ctx, remote.Notes, id, models.NoteFields(rn)); err != nil {
			rt.Fatalf("seed remote: %v", err)
		}

		if _, err := f.engine.DownloadNotes(ctx, userID); err != nil {
			rt.Fatalf("download: %v", err)
		}

		gotLocal, err := f.store.GetNote(ctx, id)
		if err != nil || gotLocal == nil {
			rt.Fatalf("local missing: %v", err)
		}
		doc, err := f.remote.Get(ctx, remote.Notes, id)
		if err != nil {
			rt.Fatalf("remote get: %v", err)
		}
		gotRemote, err := models.NoteFromFields(doc)
		if err != nil {
			rt.Fatalf("remote decode: %v", err)
		}

		if gotLocal.UpdatedAt < gotLocal.CreatedAt {
			rt.Fatalf("updatedAt %d below createdAt %d", gotLocal.UpdatedAt, gotLocal.CreatedAt)
		}

		switch {
		case remoteAt > localAt:
			if gotLocal.Title != "remote" || !gotLocal.IsSynced || gotLocal.UpdatedAt != remoteAt {
				rt.Fatalf("remote should win: %+v", gotLocal)
			}
		case localAt > remoteAt && !localSynced:
			if gotRemote.Title != "local" || gotRemote.UpdatedAt != localAt || !gotLocal.IsSynced {
				rt.Fatalf("local should win: local=%+v remote=%+v", gotLocal, gotRemote)
			}
		default:
			if gotLocal.Title != "local" || gotLocal.IsSynced != localSynced || gotRemote.Title != "remote" {
				rt.Fatalf("nothing should change: local=%+v remote=%+v", gotLocal, gotRemote)
			}
		}
	})
}
