// Package models defines the records kept in the local store and their
// remote document (field map) representation.
//
// All timestamps are Unix epoch milliseconds.
package models

import (
	"strings"

	"github.com/google/uuid"
)

// Note is a user's note. IsSynced is the dirty flag: false until the latest
// local write has been confirmed by the remote store.
type Note struct {
	ID        string
	UserID    string
	Title     string
	Content   string
	CreatedAt int64
	UpdatedAt int64
	IsSynced  bool
}

// NewNote builds an unsynced note with a fresh id. Title and content are
// trimmed.
func NewNote(userID, title, content string, now int64) *Note {
	return &Note{
		ID:        uuid.NewString(),
		UserID:    userID,
		Title:     strings.TrimSpace(title),
		Content:   strings.TrimSpace(content),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Touch records a local mutation: UpdatedAt moves to now (never below
// CreatedAt or its previous value) and the note becomes unsynced.
func (n *Note) Touch(now int64) {
	if now < n.UpdatedAt {
		now = n.UpdatedAt
	}
	if now < n.CreatedAt {
		now = n.CreatedAt
	}
	n.UpdatedAt = now
	n.IsSynced = false
}

// SameContent reports whether two versions of a note carry the same
// user-visible data.
func (n *Note) SameContent(o *Note) bool {
	return n.UserID == o.UserID && n.Title == o.Title && n.Content == o.Content &&
		n.CreatedAt == o.CreatedAt && n.UpdatedAt == o.UpdatedAt
}
