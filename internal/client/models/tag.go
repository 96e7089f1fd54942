package models

import (
	"strings"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
)

// DefaultTagColor is used when a tag is created without a color.
const DefaultTagColor = "#2196F3"

type Tag struct {
	ID        string
	Name      string
	Color     string
	CreatedAt int64
}

func NewTag(name, color string, now int64) *Tag {
	if color == "" {
		color = DefaultTagColor
	}
	return &Tag{ID: uuid.NewString(), Name: name, Color: color, CreatedAt: now}
}

// TagNameKey is the form tag names are compared in: trimmed and Unicode
// case-folded, so "Órdenes" and "órdenes" collide.
func TagNameKey(name string) string {
	return cases.Fold().String(strings.TrimSpace(name))
}

// NoteTag associates a note with a tag.
type NoteTag struct {
	NoteID string
	TagID  string
}

// DocID is the remote document id of the association.
func (nt NoteTag) DocID() string {
	return nt.NoteID + "_" + nt.TagID
}
