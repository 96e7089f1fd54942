package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestNewNote_TrimsAndStartsUnsynced(t *testing.T) {
	n := NewNote("u1", "  Groceries ", "\tmilk\n", 1000)

	require.NotEmpty(t, n.ID)
	assert.Equal(t, "Groceries", n.Title)
	assert.Equal(t, "milk", n.Content)
	assert.Equal(t, int64(1000), n.CreatedAt)
	assert.Equal(t, int64(1000), n.UpdatedAt)
	assert.False(t, n.IsSynced)
}

func TestNote_TouchClearsSynced(t *testing.T) {
	n := &Note{CreatedAt: 100, UpdatedAt: 150, IsSynced: true}
	n.Touch(300)
	assert.Equal(t, int64(300), n.UpdatedAt)
	assert.False(t, n.IsSynced)
}

func TestNote_TouchNeverMovesBackwards(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		created := rapid.Int64Range(0, 1<<40).Draw(t, "created")
		n := &Note{CreatedAt: created, UpdatedAt: created}

		steps := rapid.SliceOfN(rapid.Int64Range(0, 1<<41), 1, 20).Draw(t, "clock")
		for _, now := range steps {
			prev := n.UpdatedAt
			n.Touch(now)
			if n.UpdatedAt < n.CreatedAt {
				t.Fatalf("updatedAt %d < createdAt %d", n.UpdatedAt, n.CreatedAt)
			}
			if n.UpdatedAt < prev {
				t.Fatalf("updatedAt went backwards: %d -> %d", prev, n.UpdatedAt)
			}
		}
	})
}

func TestNewTag_DefaultColor(t *testing.T) {
	assert.Equal(t, DefaultTagColor, NewTag("Work", "", 1).Color)
	assert.Equal(t, "#000000", NewTag("Work", "#000000", 1).Color)
}

func TestNewAttachment_Defaults(t *testing.T) {
	a := NewAttachment("n1", "content://media/1", 1234)
	assert.Equal(t, "attachment_1234", a.FileName)
	assert.Equal(t, DefaultAttachmentMimeType, a.MimeType)
	assert.Equal(t, "n1", a.NoteID)
}
