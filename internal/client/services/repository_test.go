package services

import (
	"context"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dmitrijs2005/gophnotes/internal/client/identity"
	"github.com/dmitrijs2005/gophnotes/internal/client/localstore"
	"github.com/dmitrijs2005/gophnotes/internal/client/models"
	"github.com/dmitrijs2005/gophnotes/internal/client/remote"
	"github.com/dmitrijs2005/gophnotes/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/gophnotes/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMonitor struct {
	online   atomic.Bool
	edges    chan struct{}
	started  atomic.Int32
	cleanups atomic.Int32
}

func newFakeMonitor(online bool) *fakeMonitor {
	m := &fakeMonitor{edges: make(chan struct{}, 1)}
	m.online.Store(online)
	return m
}

func (m *fakeMonitor) IsOnline() bool               { return m.online.Load() }
func (m *fakeMonitor) Reconnected() <-chan struct{} { return m.edges }
func (m *fakeMonitor) ResetDisconnectedFlag()       {}
func (m *fakeMonitor) Cleanup()                     { m.cleanups.Add(1) }

func (m *fakeMonitor) Start(context.Context) error {
	m.started.Add(1)
	return nil
}

const testSecret = "test-secret"

type fixture struct {
	store   *localstore.Store
	remote  *remote.MemoryStore
	monitor *fakeMonitor
	idp     *identity.JWTProvider
	repo    NoteRepository
}

func newFixture(t *testing.T, online bool) *fixture {
	t.Helper()
	ctx := context.Background()

	s, err := localstore.Open(ctx, filepath.Join(t.TempDir(), "notes.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	f := &fixture{
		store:   s,
		remote:  remote.NewMemoryStore(),
		monitor: newFakeMonitor(online),
		idp:     identity.NewJWTProvider([]byte(testSecret), "test"),
	}
	f.repo, err = NewNoteRepository(ctx, Deps{Store: s, Remote: f.remote, Monitor: f.monitor, Identity: f.idp})
	require.NoError(t, err)
	t.Cleanup(f.repo.Cleanup)
	return f
}

func (f *fixture) signIn(t *testing.T, subject string) *models.User {
	t.Helper()
	token, err := f.idp.Issue(identity.Identity{Subject: subject, DisplayName: "Ann", Email: "ann@example.com"}, time.Hour)
	require.NoError(t, err)
	u, err := f.repo.SignIn(context.Background(), token)
	require.NoError(t, err)
	require.NoError(t, f.repo.SelectUser(context.Background(), u.ID))
	return u
}

func TestNewNoteRepository_StartsMonitorAndRestoresSelection(t *testing.T) {
	ctx := context.Background()
	s, err := localstore.Open(ctx, filepath.Join(t.TempDir(), "notes.db"))
	require.NoError(t, err)
	defer s.Close()
	require.NoError(t, s.Meta().Set(ctx, metadata.KeySelectedUser, "u1"))

	m := newFakeMonitor(false)
	repo, err := NewNoteRepository(ctx, Deps{Store: s, Remote: remote.NewMemoryStore(), Monitor: m})
	require.NoError(t, err)

	id, ok := repo.SelectedUser()
	assert.True(t, ok)
	assert.Equal(t, "u1", id)
	assert.EqualValues(t, 1, m.started.Load())

	repo.Cleanup()
	repo.Cleanup()
	assert.EqualValues(t, 1, m.cleanups.Load())
}

func TestCreateNote_Validation(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()

	_, err := f.repo.CreateNote(ctx, "title", "", nil, "")
	require.ErrorIs(t, err, common.ErrNoUserSelected)

	f.signIn(t, "u1")
	_, err = f.repo.CreateNote(ctx, "   ", "body", nil, "")
	require.ErrorIs(t, err, common.ErrBlankTitle)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "Title", verr.Field)
}

func TestCreateNote_OfflineStaysUnsynced(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()
	f.signIn(t, "u1")

	n, err := f.repo.CreateNote(ctx, "  Groceries ", " milk ", nil, "file:///tmp/list.png")
	require.NoError(t, err)
	assert.Equal(t, "Groceries", n.Title)
	assert.Equal(t, "milk", n.Content)

	got, err := f.repo.GetNote(ctx, n.ID)
	require.NoError(t, err)
	assert.False(t, got.IsSynced)
	assert.Zero(t, f.remote.Len(remote.Notes))

	atts, err := f.repo.AttachmentsForNote(ctx, n.ID)
	require.NoError(t, err)
	require.Len(t, atts, 1)
	assert.Equal(t, "file:///tmp/list.png", atts[0].URI)
}

func TestCreateNote_OnlinePushes(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()
	f.signIn(t, "u1")

	tag, err := f.repo.CreateTag(ctx, "work", "")
	require.NoError(t, err)

	n, err := f.repo.CreateNote(ctx, "Plan", "", []string{tag.ID}, "")
	require.NoError(t, err)

	got, err := f.repo.GetNote(ctx, n.ID)
	require.NoError(t, err)
	assert.True(t, got.IsSynced)
	assert.Equal(t, 1, f.remote.Len(remote.Notes))
	assert.Equal(t, 1, f.remote.Len(remote.NoteTags))
	assert.Equal(t, 1, f.remote.Len(remote.Tags))
	assert.Equal(t, 1, f.remote.Len(remote.Users))
}

func TestUpdateNote_MarksDirtyAndSyncNowUploads(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()
	f.signIn(t, "u1")

	n, err := f.repo.CreateNote(ctx, "a", "", nil, "")
	require.NoError(t, err)

	n.Content = "edited"
	require.NoError(t, f.repo.UpdateNote(ctx, n))

	rep, err := f.repo.SyncNow(ctx)
	require.NoError(t, err)
	assert.True(t, rep.Offline)

	f.monitor.online.Store(true)
	rep, err = f.repo.SyncNow(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, rep.Synced)

	doc, err := f.remote.Get(ctx, remote.Notes, n.ID)
	require.NoError(t, err)
	require.NotNil(t, doc)
	assert.Equal(t, "edited", doc[models.FieldContent])
}

func TestSelectUser_RunsFullSync(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()

	remoteNote := models.NewNote("u1", "from elsewhere", "", 100)
	require.NoError(t, f.remote.Set(ctx, remote.Notes, remoteNote.ID, models.NoteFields(remoteNote)))

	require.NoError(t, f.repo.SelectUser(ctx, "u1"))

	got, err := f.repo.GetNote(ctx, remoteNote.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, got.IsSynced)

	stored, ok, err := f.store.Meta().Get(ctx, metadata.KeySelectedUser)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "u1", stored)
}

func TestSelectUser_RejectsBlank(t *testing.T) {
	f := newFixture(t, true)
	require.ErrorIs(t, f.repo.SelectUser(context.Background(), " "), common.ErrNoUserSelected)
}

func TestSignIn_KeepsCreatedAt(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()

	first := f.signIn(t, "u1")
	second := f.signIn(t, "u1")
	assert.Equal(t, first.CreatedAt, second.CreatedAt)

	_, err := f.repo.SignIn(ctx, "not-a-token")
	require.ErrorIs(t, err, identity.ErrInvalidCredential)
}

func TestCreateTag_CaseInsensitiveAndIdempotent(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()

	a, err := f.repo.CreateTag(ctx, "Work", "#FF0000")
	require.NoError(t, err)
	b, err := f.repo.CreateTag(ctx, " work ", "")
	require.NoError(t, err)
	assert.Equal(t, a.ID, b.ID)
	assert.Equal(t, 1, f.remote.Len(remote.Tags))

	c, err := f.repo.CreateTag(ctx, "Órdenes", "")
	require.NoError(t, err)
	d, err := f.repo.CreateTag(ctx, "órdenes", "")
	require.NoError(t, err)
	assert.Equal(t, c.ID, d.ID)
	assert.Equal(t, 2, f.remote.Len(remote.Tags))

	d.Name = "WORK"
	require.ErrorIs(t, f.repo.UpdateTag(ctx, d), common.ErrDuplicateTagName)

	_, err = f.repo.CreateTag(ctx, "", "")
	require.ErrorIs(t, err, common.ErrBlankTagName)
}

func TestNoteTags_AddRemove(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()
	f.signIn(t, "u1")

	n, err := f.repo.CreateNote(ctx, "n", "", nil, "")
	require.NoError(t, err)
	tag, err := f.repo.CreateTag(ctx, "home", "")
	require.NoError(t, err)

	require.NoError(t, f.repo.AddTagToNote(ctx, n.ID, tag.ID))
	tags, err := f.repo.TagsForNote(ctx, n.ID)
	require.NoError(t, err)
	require.Len(t, tags, 1)
	assert.Equal(t, 1, f.remote.Len(remote.NoteTags))

	require.NoError(t, f.repo.RemoveTagFromNote(ctx, n.ID, tag.ID))
	tags, err = f.repo.TagsForNote(ctx, n.ID)
	require.NoError(t, err)
	assert.Empty(t, tags)
	assert.Zero(t, f.remote.Len(remote.NoteTags))
}

func TestDeleteTag_RemovesLinks(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()
	f.signIn(t, "u1")

	tag, err := f.repo.CreateTag(ctx, "tmp", "")
	require.NoError(t, err)
	n, err := f.repo.CreateNote(ctx, "n", "", []string{tag.ID}, "")
	require.NoError(t, err)

	require.NoError(t, f.repo.DeleteTag(ctx, tag.ID))

	got, err := f.repo.GetTag(ctx, tag.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
	tags, err := f.repo.TagsForNote(ctx, n.ID)
	require.NoError(t, err)
	assert.Empty(t, tags)
	assert.Zero(t, f.remote.Len(remote.Tags))
}

func TestAttachments_Lifecycle(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()
	f.signIn(t, "u1")

	n, err := f.repo.CreateNote(ctx, "n", "", nil, "")
	require.NoError(t, err)

	a, err := f.repo.AddAttachment(ctx, n.ID, "content://photos/1")
	require.NoError(t, err)
	assert.Equal(t, 1, f.remote.Len(remote.Attachments))

	a.FileName = "cat.jpg"
	require.NoError(t, f.repo.UpdateAttachment(ctx, a))
	got, err := f.repo.GetAttachment(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "cat.jpg", got.FileName)

	require.NoError(t, f.repo.DeleteAttachment(ctx, a.ID))
	got, err = f.repo.GetAttachment(ctx, a.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.Zero(t, f.remote.Len(remote.Attachments))
}

func TestDeleteNote(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()
	f.signIn(t, "u1")

	n, err := f.repo.CreateNote(ctx, "gone", "", nil, "")
	require.NoError(t, err)
	require.NoError(t, f.repo.DeleteNote(ctx, n.ID))

	got, err := f.repo.GetNote(ctx, n.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.Zero(t, f.remote.Len(remote.Notes))
}

func TestNotes_LiveQueryFollowsWrites(t *testing.T) {
	f := newFixture(t, false)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	f.signIn(t, "u1")

	ch, err := f.repo.Notes(ctx)
	require.NoError(t, err)

	select {
	case notes := <-ch:
		assert.Empty(t, notes)
	case <-time.After(2 * time.Second):
		t.Fatal("no initial snapshot")
	}

	_, err = f.repo.CreateNote(ctx, "live", "", nil, "")
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		select {
		case notes := <-ch:
			return len(notes) == 1 && notes[0].Title == "live"
		default:
			return false
		}
	}, 2*time.Second, 10*time.Millisecond)
}

func TestNotes_RequiresUser(t *testing.T) {
	f := newFixture(t, false)
	_, err := f.repo.Notes(context.Background())
	require.ErrorIs(t, err, common.ErrNoUserSelected)
}

func TestSearchNotes(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()
	f.signIn(t, "u1")

	_, err := f.repo.CreateNote(ctx, "Shopping list", "eggs and bread", nil, "")
	require.NoError(t, err)
	_, err = f.repo.CreateNote(ctx, "Meeting", "quarterly review", nil, "")
	require.NoError(t, err)

	all, err := f.repo.SearchNotes(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	hits, err := f.repo.SearchNotes(ctx, "eggs")
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "Shopping list", hits[0].Title)

	hits, err = f.repo.SearchNotes(ctx, "zzzz")
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestIsConnected(t *testing.T) {
	f := newFixture(t, false)
	assert.False(t, f.repo.IsConnected())
	f.monitor.online.Store(true)
	assert.True(t, f.repo.IsConnected())
}
