package localstore

import (
	"context"

	"github.com/dmitrijs2005/gophnotes/internal/client/livequery"
	"github.com/dmitrijs2005/gophnotes/internal/client/models"
)

// WatchUserNotes streams the user's notes after every change to notes.
func (s *Store) WatchUserNotes(ctx context.Context, userID string, onErr func(error)) <-chan []*models.Note {
	return livequery.Watch(ctx, s.hub, func(ctx context.Context) ([]*models.Note, error) {
		return s.notes.GetByUser(ctx, userID)
	}, onErr, livequery.Notes)
}

func (s *Store) WatchAllNotes(ctx context.Context, onErr func(error)) <-chan []*models.Note {
	return livequery.Watch(ctx, s.hub, s.notes.GetAll, onErr, livequery.Notes)
}

func (s *Store) WatchUsers(ctx context.Context, onErr func(error)) <-chan []*models.User {
	return livequery.Watch(ctx, s.hub, s.users.GetAll, onErr, livequery.Users)
}

func (s *Store) WatchTags(ctx context.Context, onErr func(error)) <-chan []*models.Tag {
	return livequery.Watch(ctx, s.hub, s.tags.GetAll, onErr, livequery.Tags)
}

// WatchNoteTags streams the tags of one note; it depends on both the tag and
// association tables.
func (s *Store) WatchNoteTags(ctx context.Context, noteID string, onErr func(error)) <-chan []*models.Tag {
	return livequery.Watch(ctx, s.hub, func(ctx context.Context) ([]*models.Tag, error) {
		return s.tags.GetByNote(ctx, noteID)
	}, onErr, livequery.Tags, livequery.NoteTags)
}

func (s *Store) WatchNoteAttachments(ctx context.Context, noteID string, onErr func(error)) <-chan []*models.Attachment {
	return livequery.Watch(ctx, s.hub, func(ctx context.Context) ([]*models.Attachment, error) {
		return s.attachments.GetByNote(ctx, noteID)
	}, onErr, livequery.Attachments)
}
