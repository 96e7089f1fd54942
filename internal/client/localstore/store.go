package localstore

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/gophnotes/internal/client/livequery"
	"github.com/dmitrijs2005/gophnotes/internal/client/migrations"
	"github.com/dmitrijs2005/gophnotes/internal/client/models"
	"github.com/dmitrijs2005/gophnotes/internal/client/repositories/attachments"
	"github.com/dmitrijs2005/gophnotes/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/gophnotes/internal/client/repositories/notes"
	"github.com/dmitrijs2005/gophnotes/internal/client/repositories/notetags"
	"github.com/dmitrijs2005/gophnotes/internal/client/repositories/tags"
	"github.com/dmitrijs2005/gophnotes/internal/client/repositories/users"
	"github.com/dmitrijs2005/gophnotes/internal/common"
	"github.com/dmitrijs2005/gophnotes/internal/dbx"

	_ "modernc.org/sqlite"
)

// Store is the local store handle.
type Store struct {
	db  *sql.DB
	hub *livequery.Hub

	users       users.Repository
	notes       notes.Repository
	tags        tags.Repository
	noteTags    notetags.Repository
	attachments attachments.Repository
	meta        metadata.Repository
}

// DSN builds a modernc.org/sqlite data source name for path with foreign
// keys enforced and a busy timeout.
func DSN(path string) string {
	dsn := path + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	if path != ":memory:" {
		dsn += "&_pragma=journal_mode(WAL)"
	}
	return dsn
}

// Open opens (creating if needed) the database at path and applies
// migrations.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite", DSN(path))
	if err != nil {
		return nil, fmt.Errorf("failed to open local store: %w", err)
	}
	// One connection: SQLite serialises writers anyway, and an in-memory
	// database only exists on the connection that created it.
	db.SetMaxOpenConns(1)

	if err := migrations.Up(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return New(db), nil
}

// New wraps an already migrated database.
func New(db *sql.DB) *Store {
	return &Store{
		db:          db,
		hub:         livequery.NewHub(),
		users:       users.NewSQLiteRepository(db),
		notes:       notes.NewSQLiteRepository(db),
		tags:        tags.NewSQLiteRepository(db),
		noteTags:    notetags.NewSQLiteRepository(db),
		attachments: attachments.NewSQLiteRepository(db),
		meta:        metadata.NewSQLiteRepository(db),
	}
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Hub exposes the change notifier, e.g. for custom live queries.
func (s *Store) Hub() *livequery.Hub {
	return s.hub
}

// Meta is the key-value client state.
func (s *Store) Meta() metadata.Repository {
	return s.meta
}

func (s *Store) inTx(ctx context.Context, fn func(ctx context.Context, tx dbx.DBTX) error) error {
	return dbx.WithTx(ctx, s.db, nil, fn)
}

// Users

func (s *Store) UpsertUser(ctx context.Context, u *models.User) error {
	if err := s.users.Upsert(ctx, u); err != nil {
		return err
	}
	s.hub.Publish(livequery.Users)
	return nil
}

func (s *Store) GetUser(ctx context.Context, id string) (*models.User, error) {
	return s.users.GetByID(ctx, id)
}

func (s *Store) AllUsers(ctx context.Context) ([]*models.User, error) {
	return s.users.GetAll(ctx)
}

// Notes

func (s *Store) UpsertNote(ctx context.Context, n *models.Note) error {
	if err := s.notes.Upsert(ctx, n); err != nil {
		return err
	}
	s.hub.Publish(livequery.Notes)
	return nil
}

// InsertNote writes a new note together with its tag associations and an
// optional attachment, atomically.
func (s *Store) InsertNote(ctx context.Context, n *models.Note, tagIDs []string, a *models.Attachment) error {
	err := s.inTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		if err := notes.NewSQLiteRepository(tx).Upsert(ctx, n); err != nil {
			return err
		}
		nt := notetags.NewSQLiteRepository(tx)
		for _, tagID := range tagIDs {
			if err := nt.Upsert(ctx, models.NoteTag{NoteID: n.ID, TagID: tagID}); err != nil {
				return err
			}
		}
		if a != nil {
			if err := attachments.NewSQLiteRepository(tx).Upsert(ctx, a); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to insert note %s: %w", n.ID, err)
	}
	s.hub.Publish(livequery.Notes, livequery.NoteTags, livequery.Attachments)
	return nil
}

func (s *Store) GetNote(ctx context.Context, id string) (*models.Note, error) {
	return s.notes.GetByID(ctx, id)
}

func (s *Store) AllNotes(ctx context.Context) ([]*models.Note, error) {
	return s.notes.GetAll(ctx)
}

func (s *Store) NotesByUser(ctx context.Context, userID string) ([]*models.Note, error) {
	return s.notes.GetByUser(ctx, userID)
}

func (s *Store) UnsyncedNotes(ctx context.Context) ([]*models.Note, error) {
	return s.notes.GetUnsynced(ctx)
}

func (s *Store) UnsyncedNotesByUser(ctx context.Context, userID string) ([]*models.Note, error) {
	return s.notes.GetUnsyncedByUser(ctx, userID)
}

// MarkNoteSynced flips only the synced flag.
func (s *Store) MarkNoteSynced(ctx context.Context, id string) error {
	if err := s.notes.MarkSynced(ctx, id); err != nil {
		return err
	}
	s.hub.Publish(livequery.Notes)
	return nil
}

// MarkNoteSyncedIfUnchanged flips the synced flag only when the stored note
// still carries updatedAt.
func (s *Store) MarkNoteSyncedIfUnchanged(ctx context.Context, id string, updatedAt int64) (bool, error) {
	ok, err := s.notes.MarkSyncedIfUnchanged(ctx, id, updatedAt)
	if err != nil {
		return false, err
	}
	if ok {
		s.hub.Publish(livequery.Notes)
	}
	return ok, nil
}

// DeleteNote removes the note with its tag associations and attachments.
func (s *Store) DeleteNote(ctx context.Context, id string) error {
	err := s.inTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := notetags.NewSQLiteRepository(tx).DeleteByNote(ctx, id); err != nil {
			return err
		}
		if _, err := attachments.NewSQLiteRepository(tx).DeleteByNote(ctx, id); err != nil {
			return err
		}
		return notes.NewSQLiteRepository(tx).Delete(ctx, id)
	})
	if err != nil {
		return fmt.Errorf("failed to delete note %s: %w", id, err)
	}
	s.hub.Publish(livequery.Notes, livequery.NoteTags, livequery.Attachments)
	return nil
}

// Tags

// GetOrCreateTag returns the tag whose name matches case-insensitively, or
// stores candidate. created reports which happened.
func (s *Store) GetOrCreateTag(ctx context.Context, candidate *models.Tag) (tag *models.Tag, created bool, err error) {
	err = s.inTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		repo := tags.NewSQLiteRepository(tx)
		existing, err := repo.GetByName(ctx, candidate.Name)
		if err != nil {
			return err
		}
		if existing != nil {
			tag = existing
			return nil
		}
		if err := repo.Upsert(ctx, candidate); err != nil {
			return err
		}
		tag, created = candidate, true
		return nil
	})
	if err != nil {
		return nil, false, fmt.Errorf("failed to get or create tag %q: %w", candidate.Name, err)
	}
	if created {
		s.hub.Publish(livequery.Tags)
	}
	return tag, created, nil
}

// UpsertTag stores t. Taking a name another tag already has (ignoring
// case) fails with common.ErrDuplicateTagName.
func (s *Store) UpsertTag(ctx context.Context, t *models.Tag) error {
	err := s.inTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		repo := tags.NewSQLiteRepository(tx)
		existing, err := repo.GetByName(ctx, t.Name)
		if err != nil {
			return err
		}
		if existing != nil && existing.ID != t.ID {
			return fmt.Errorf("%w: %q", common.ErrDuplicateTagName, existing.Name)
		}
		return repo.Upsert(ctx, t)
	})
	if err != nil {
		return err
	}
	s.hub.Publish(livequery.Tags)
	return nil
}

func (s *Store) GetTag(ctx context.Context, id string) (*models.Tag, error) {
	return s.tags.GetByID(ctx, id)
}

func (s *Store) AllTags(ctx context.Context) ([]*models.Tag, error) {
	return s.tags.GetAll(ctx)
}

func (s *Store) TagsForNote(ctx context.Context, noteID string) ([]*models.Tag, error) {
	return s.tags.GetByNote(ctx, noteID)
}

// DeleteTag removes the tag and its note associations.
func (s *Store) DeleteTag(ctx context.Context, id string) error {
	err := s.inTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := notetags.NewSQLiteRepository(tx).DeleteByTag(ctx, id); err != nil {
			return err
		}
		return tags.NewSQLiteRepository(tx).Delete(ctx, id)
	})
	if err != nil {
		return fmt.Errorf("failed to delete tag %s: %w", id, err)
	}
	s.hub.Publish(livequery.Tags, livequery.NoteTags)
	return nil
}

// Note tags

func (s *Store) AddNoteTag(ctx context.Context, nt models.NoteTag) error {
	if err := s.noteTags.Upsert(ctx, nt); err != nil {
		return err
	}
	s.hub.Publish(livequery.NoteTags)
	return nil
}

func (s *Store) RemoveNoteTag(ctx context.Context, nt models.NoteTag) error {
	if err := s.noteTags.Delete(ctx, nt); err != nil {
		return err
	}
	s.hub.Publish(livequery.NoteTags)
	return nil
}

// Attachments

func (s *Store) UpsertAttachment(ctx context.Context, a *models.Attachment) error {
	if err := s.attachments.Upsert(ctx, a); err != nil {
		return err
	}
	s.hub.Publish(livequery.Attachments)
	return nil
}

func (s *Store) GetAttachment(ctx context.Context, id string) (*models.Attachment, error) {
	return s.attachments.GetByID(ctx, id)
}

func (s *Store) AttachmentsForNote(ctx context.Context, noteID string) ([]*models.Attachment, error) {
	return s.attachments.GetByNote(ctx, noteID)
}

func (s *Store) DeleteAttachment(ctx context.Context, id string) error {
	if err := s.attachments.Delete(ctx, id); err != nil {
		return err
	}
	s.hub.Publish(livequery.Attachments)
	return nil
}
