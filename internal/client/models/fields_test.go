package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoteFields_AlwaysSynced(t *testing.T) {
	n := &Note{ID: "n1", UserID: "u1", Title: "t", Content: "c", CreatedAt: 100, UpdatedAt: 200}

	f := NoteFields(n)
	assert.Equal(t, true, f[FieldIsSynced])
	assert.Equal(t, "n1", f[FieldID])
	assert.Equal(t, int64(200), f[FieldUpdatedAt])
}

func TestNoteFromFields_NumericRepresentations(t *testing.T) {
	tests := []struct {
		name    string
		updated any
	}{
		{name: "int64", updated: int64(200)},
		{name: "int", updated: 200},
		{name: "uint64", updated: uint64(200)},
		{name: "float64", updated: float64(200)},
		{name: "json.Number", updated: json.Number("200")},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := Fields{
				FieldID: "n1", FieldUserID: "u1", FieldTitle: "t", FieldContent: "",
				FieldCreatedAt: int64(100), FieldUpdatedAt: tc.updated,
			}
			n, err := NoteFromFields(f)
			require.NoError(t, err)
			assert.Equal(t, int64(200), n.UpdatedAt)
			assert.Equal(t, int64(100), n.CreatedAt)
			assert.False(t, n.IsSynced)
		})
	}
}

func TestNoteFromFields_Malformed(t *testing.T) {
	base := func() Fields {
		return Fields{
			FieldID: "n1", FieldUserID: "u1", FieldTitle: "t",
			FieldCreatedAt: int64(1), FieldUpdatedAt: int64(2),
		}
	}

	tests := []struct {
		name   string
		mutate func(Fields)
	}{
		{name: "missing id", mutate: func(f Fields) { delete(f, FieldID) }},
		{name: "missing userId", mutate: func(f Fields) { delete(f, FieldUserID) }},
		{name: "title wrong type", mutate: func(f Fields) { f[FieldTitle] = 42 }},
		{name: "missing updatedAt", mutate: func(f Fields) { delete(f, FieldUpdatedAt) }},
		{name: "fractional createdAt", mutate: func(f Fields) { f[FieldCreatedAt] = 1.5 }},
		{name: "string timestamp", mutate: func(f Fields) { f[FieldUpdatedAt] = "2" }},
		{name: "updatedAt before createdAt", mutate: func(f Fields) { f[FieldCreatedAt] = int64(3) }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := base()
			tc.mutate(f)
			_, err := NoteFromFields(f)
			require.ErrorIs(t, err, ErrMalformedDocument)
		})
	}
}

func TestNoteFromFields_OptionalContent(t *testing.T) {
	n, err := NoteFromFields(Fields{
		FieldID: "n1", FieldUserID: "u1", FieldTitle: "t",
		FieldCreatedAt: int64(1), FieldUpdatedAt: int64(1),
	})
	require.NoError(t, err)
	assert.Equal(t, "", n.Content)
}

func TestNoteTagDocID(t *testing.T) {
	nt := NoteTag{NoteID: "n1", TagID: "t1"}
	assert.Equal(t, "n1_t1", nt.DocID())
	assert.Equal(t, Fields{FieldNoteID: "n1", FieldTagID: "t1"}, NoteTagFields(nt))
}
