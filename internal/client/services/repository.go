package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/dmitrijs2005/gophnotes/internal/client/identity"
	"github.com/dmitrijs2005/gophnotes/internal/client/localstore"
	"github.com/dmitrijs2005/gophnotes/internal/client/models"
	"github.com/dmitrijs2005/gophnotes/internal/client/remote"
	"github.com/dmitrijs2005/gophnotes/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/gophnotes/internal/client/syncengine"
	"github.com/dmitrijs2005/gophnotes/internal/logging"
	"github.com/dmitrijs2005/gophnotes/internal/timex"
	"github.com/go-playground/validator/v10"
)

// NoteRepository is the client facade over users, notes, tags and
// attachments.
type NoteRepository interface {
	SignIn(ctx context.Context, credential string) (*models.User, error)
	InsertUser(ctx context.Context, u *models.User) error
	Users(ctx context.Context) <-chan []*models.User
	SelectUser(ctx context.Context, userID string) error
	SelectedUser() (string, bool)

	CreateNote(ctx context.Context, title, content string, tagIDs []string, attachmentURI string) (*models.Note, error)
	UpdateNote(ctx context.Context, n *models.Note) error
	DeleteNote(ctx context.Context, id string) error
	GetNote(ctx context.Context, id string) (*models.Note, error)
	Notes(ctx context.Context) (<-chan []*models.Note, error)
	SearchNotes(ctx context.Context, query string) ([]*models.Note, error)

	CreateTag(ctx context.Context, name, color string) (*models.Tag, error)
	UpdateTag(ctx context.Context, t *models.Tag) error
	DeleteTag(ctx context.Context, id string) error
	GetTag(ctx context.Context, id string) (*models.Tag, error)
	Tags(ctx context.Context) <-chan []*models.Tag
	TagsForNote(ctx context.Context, noteID string) ([]*models.Tag, error)
	AddTagToNote(ctx context.Context, noteID, tagID string) error
	RemoveTagFromNote(ctx context.Context, noteID, tagID string) error

	AddAttachment(ctx context.Context, noteID, uri string) (*models.Attachment, error)
	UpdateAttachment(ctx context.Context, a *models.Attachment) error
	DeleteAttachment(ctx context.Context, id string) error
	GetAttachment(ctx context.Context, id string) (*models.Attachment, error)
	AttachmentsForNote(ctx context.Context, noteID string) ([]*models.Attachment, error)

	SyncNow(ctx context.Context) (syncengine.Report, error)
	IsConnected() bool
	Cleanup()
}

// Monitor is the connectivity source owned by the repository.
type Monitor interface {
	syncengine.Connectivity
	Start(ctx context.Context) error
	Cleanup()
}

type Deps struct {
	Store    *localstore.Store
	Remote   remote.DocumentStore
	Monitor  Monitor
	Identity identity.Provider
	Log      logging.Logger
	// Now returns epoch millis; defaults to timex.NowMillis.
	Now func() int64
}

type noteRepository struct {
	store    *localstore.Store
	engine   *syncengine.Engine
	monitor  Monitor
	identity identity.Provider
	log      logging.Logger
	validate *validator.Validate
	now      func() int64

	mu       sync.RWMutex
	selected string

	cancel  context.CancelFunc
	done    chan struct{}
	cleanup sync.Once
}

// NewNoteRepository restores the persisted user selection, starts the
// connectivity monitor and the reconnect sync loop. The loop lives until
// Cleanup.
func NewNoteRepository(ctx context.Context, d Deps) (NoteRepository, error) {
	if d.Log == nil {
		d.Log = logging.Discard()
	}
	if d.Now == nil {
		d.Now = timex.NowMillis
	}

	r := &noteRepository{
		store:    d.Store,
		engine:   syncengine.New(d.Store, d.Remote, d.Monitor, d.Log),
		monitor:  d.Monitor,
		identity: d.Identity,
		log:      d.Log.With("component", "repository"),
		validate: newValidator(),
		now:      d.Now,
		done:     make(chan struct{}),
	}

	selected, ok, err := d.Store.Meta().Get(ctx, metadata.KeySelectedUser)
	if err != nil {
		return nil, fmt.Errorf("failed to restore selected user: %w", err)
	}
	if ok {
		r.selected = selected
	}

	runCtx, cancel := context.WithCancel(context.Background())
	r.cancel = cancel

	if err := d.Monitor.Start(runCtx); err != nil {
		cancel()
		return nil, fmt.Errorf("failed to start connectivity monitor: %w", err)
	}

	go func() {
		defer close(r.done)
		r.engine.Run(runCtx, func(context.Context) (string, bool) { return r.SelectedUser() })
	}()

	return r, nil
}

// Cleanup stops the sync loop and the monitor. Safe to call repeatedly.
func (r *noteRepository) Cleanup() {
	r.cleanup.Do(func() {
		r.cancel()
		<-r.done
		r.monitor.Cleanup()
	})
}

func (r *noteRepository) IsConnected() bool {
	return r.monitor.IsOnline()
}

// Users

func (r *noteRepository) SignIn(ctx context.Context, credential string) (*models.User, error) {
	id, err := r.identity.SignIn(ctx, credential)
	if err != nil {
		return nil, err
	}

	u := &models.User{ID: id.Subject, DisplayName: id.DisplayName, Email: id.Email, CreatedAt: r.now()}
	existing, err := r.store.GetUser(ctx, u.ID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		u.CreatedAt = existing.CreatedAt
	}

	if err := r.InsertUser(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (r *noteRepository) InsertUser(ctx context.Context, u *models.User) error {
	if err := check(r.validate, userRequest{UserID: u.ID}); err != nil {
		return err
	}
	if err := r.store.UpsertUser(ctx, u); err != nil {
		return err
	}
	r.engine.Replicate(ctx, remote.Users, u.ID, models.UserFields(u))
	return nil
}

func (r *noteRepository) Users(ctx context.Context) <-chan []*models.User {
	return r.store.WatchUsers(ctx, r.logLoadError(ctx, "users"))
}

// SelectUser persists the selection and runs a full sync for the user.
// Sync problems are logged, not returned.
func (r *noteRepository) SelectUser(ctx context.Context, userID string) error {
	if err := check(r.validate, userRequest{UserID: userID}); err != nil {
		return err
	}
	if err := r.store.Meta().Set(ctx, metadata.KeySelectedUser, userID); err != nil {
		return fmt.Errorf("failed to persist selected user: %w", err)
	}

	r.mu.Lock()
	r.selected = userID
	r.mu.Unlock()

	rep, err := r.engine.PerformFullSync(ctx, userID)
	if err != nil {
		r.log.Error(ctx, "full sync after user selection failed", "user_id", userID, "error", err)
		return nil
	}
	r.log.Info(ctx, "full sync after user selection", "user_id", userID, "report", rep.String())
	return nil
}

func (r *noteRepository) SelectedUser() (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.selected, r.selected != ""
}

// Notes

func (r *noteRepository) CreateNote(ctx context.Context, title, content string, tagIDs []string, attachmentURI string) (*models.Note, error) {
	userID, _ := r.SelectedUser()
	if err := check(r.validate, noteRequest{UserID: userID, Title: title}); err != nil {
		return nil, err
	}

	now := r.now()
	n := models.NewNote(userID, title, content, now)

	var a *models.Attachment
	if uri := strings.TrimSpace(attachmentURI); uri != "" {
		a = models.NewAttachment(n.ID, uri, now)
	}

	if err := r.engine.CreateNote(ctx, n, tagIDs, a); err != nil {
		return nil, err
	}
	return n, nil
}

// UpdateNote saves the caller's version of n with a fresh UpdatedAt.
func (r *noteRepository) UpdateNote(ctx context.Context, n *models.Note) error {
	if err := check(r.validate, noteRequest{UserID: n.UserID, Title: n.Title}); err != nil {
		return err
	}
	n.Title = strings.TrimSpace(n.Title)
	n.Content = strings.TrimSpace(n.Content)
	n.Touch(r.now())
	return r.engine.SaveNote(ctx, n)
}

func (r *noteRepository) DeleteNote(ctx context.Context, id string) error {
	return r.engine.DeleteNote(ctx, id)
}

func (r *noteRepository) GetNote(ctx context.Context, id string) (*models.Note, error) {
	return r.store.GetNote(ctx, id)
}

// Notes streams the notes of the user selected at call time.
func (r *noteRepository) Notes(ctx context.Context) (<-chan []*models.Note, error) {
	userID, _ := r.SelectedUser()
	if err := check(r.validate, userRequest{UserID: userID}); err != nil {
		return nil, err
	}
	return r.store.WatchUserNotes(ctx, userID, r.logLoadError(ctx, "notes")), nil
}

// SearchNotes fuzzy-matches query against the selected user's titles and
// contents, best match first. An empty query returns every note.
func (r *noteRepository) SearchNotes(ctx context.Context, query string) ([]*models.Note, error) {
	userID, _ := r.SelectedUser()
	if err := check(r.validate, userRequest{UserID: userID}); err != nil {
		return nil, err
	}
	notes, err := r.store.NotesByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return searchNotes(notes, query), nil
}

// Tags

// CreateTag returns the existing tag when one with the same name (ignoring
// case) exists.
func (r *noteRepository) CreateTag(ctx context.Context, name, color string) (*models.Tag, error) {
	if err := check(r.validate, tagRequest{TagName: name}); err != nil {
		return nil, err
	}

	t, created, err := r.store.GetOrCreateTag(ctx, models.NewTag(strings.TrimSpace(name), color, r.now()))
	if err != nil {
		return nil, err
	}
	if created {
		r.engine.Replicate(ctx, remote.Tags, t.ID, models.TagFields(t))
	}
	return t, nil
}

func (r *noteRepository) UpdateTag(ctx context.Context, t *models.Tag) error {
	if err := check(r.validate, tagRequest{TagName: t.Name}); err != nil {
		return err
	}
	t.Name = strings.TrimSpace(t.Name)
	if t.Color == "" {
		t.Color = models.DefaultTagColor
	}
	if err := r.store.UpsertTag(ctx, t); err != nil {
		return err
	}
	r.engine.Replicate(ctx, remote.Tags, t.ID, models.TagFields(t))
	return nil
}

func (r *noteRepository) DeleteTag(ctx context.Context, id string) error {
	if err := r.store.DeleteTag(ctx, id); err != nil {
		return err
	}
	r.engine.Unreplicate(ctx, remote.Tags, id)
	return nil
}

func (r *noteRepository) GetTag(ctx context.Context, id string) (*models.Tag, error) {
	return r.store.GetTag(ctx, id)
}

func (r *noteRepository) Tags(ctx context.Context) <-chan []*models.Tag {
	return r.store.WatchTags(ctx, r.logLoadError(ctx, "tags"))
}

func (r *noteRepository) TagsForNote(ctx context.Context, noteID string) ([]*models.Tag, error) {
	return r.store.TagsForNote(ctx, noteID)
}

func (r *noteRepository) AddTagToNote(ctx context.Context, noteID, tagID string) error {
	nt := models.NoteTag{NoteID: noteID, TagID: tagID}
	if err := r.store.AddNoteTag(ctx, nt); err != nil {
		return err
	}
	r.engine.Replicate(ctx, remote.NoteTags, nt.DocID(), models.NoteTagFields(nt))
	return nil
}

func (r *noteRepository) RemoveTagFromNote(ctx context.Context, noteID, tagID string) error {
	nt := models.NoteTag{NoteID: noteID, TagID: tagID}
	if err := r.store.RemoveNoteTag(ctx, nt); err != nil {
		return err
	}
	r.engine.Unreplicate(ctx, remote.NoteTags, nt.DocID())
	return nil
}

// Attachments

func (r *noteRepository) AddAttachment(ctx context.Context, noteID, uri string) (*models.Attachment, error) {
	a := models.NewAttachment(noteID, strings.TrimSpace(uri), r.now())
	if err := r.store.UpsertAttachment(ctx, a); err != nil {
		return nil, err
	}
	r.engine.Replicate(ctx, remote.Attachments, a.ID, models.AttachmentFields(a))
	return a, nil
}

func (r *noteRepository) UpdateAttachment(ctx context.Context, a *models.Attachment) error {
	if err := r.store.UpsertAttachment(ctx, a); err != nil {
		return err
	}
	r.engine.Replicate(ctx, remote.Attachments, a.ID, models.AttachmentFields(a))
	return nil
}

func (r *noteRepository) DeleteAttachment(ctx context.Context, id string) error {
	if err := r.store.DeleteAttachment(ctx, id); err != nil {
		return err
	}
	r.engine.Unreplicate(ctx, remote.Attachments, id)
	return nil
}

func (r *noteRepository) GetAttachment(ctx context.Context, id string) (*models.Attachment, error) {
	return r.store.GetAttachment(ctx, id)
}

func (r *noteRepository) AttachmentsForNote(ctx context.Context, noteID string) ([]*models.Attachment, error) {
	return r.store.AttachmentsForNote(ctx, noteID)
}

// SyncNow runs the upload pass only.
func (r *noteRepository) SyncNow(ctx context.Context) (syncengine.Report, error) {
	return r.engine.SyncUnsyncedNotes(ctx)
}

func (r *noteRepository) logLoadError(ctx context.Context, what string) func(error) {
	return func(err error) {
		if errors.Is(err, context.Canceled) {
			return
		}
		r.log.Error(ctx, "live query failed", "query", what, "error", err)
	}
}
