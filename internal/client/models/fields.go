package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
)

// Field map keys shared by every remote backend.
const (
	FieldID          = "id"
	FieldUserID      = "userId"
	FieldTitle       = "title"
	FieldContent     = "content"
	FieldCreatedAt   = "createdAt"
	FieldUpdatedAt   = "updatedAt"
	FieldIsSynced    = "isSynced"
	FieldDisplayName = "displayName"
	FieldEmail       = "email"
	FieldName        = "name"
	FieldColor       = "color"
	FieldNoteID      = "noteId"
	FieldTagID       = "tagId"
	FieldURI         = "uri"
	FieldFileName    = "fileName"
	FieldMimeType    = "mimeType"
)

// ErrMalformedDocument is returned when a field map cannot be turned back
// into a model.
var ErrMalformedDocument = errors.New("malformed document")

// Fields is a remote document: attribute name to value.
type Fields map[string]any

// NoteFields encodes a note for the remote store. Remote copies are always
// marked synced.
func NoteFields(n *Note) Fields {
	return Fields{
		FieldID:        n.ID,
		FieldUserID:    n.UserID,
		FieldTitle:     n.Title,
		FieldContent:   n.Content,
		FieldCreatedAt: n.CreatedAt,
		FieldUpdatedAt: n.UpdatedAt,
		FieldIsSynced:  true,
	}
}

// NoteFromFields decodes a remote note. The local synced flag is not taken
// from the document; callers decide it.
func NoteFromFields(f Fields) (*Note, error) {
	n := &Note{}
	var err error
	if n.ID, err = f.String(FieldID, true); err != nil {
		return nil, err
	}
	if n.UserID, err = f.String(FieldUserID, true); err != nil {
		return nil, err
	}
	if n.Title, err = f.String(FieldTitle, false); err != nil {
		return nil, err
	}
	if n.Content, err = f.String(FieldContent, false); err != nil {
		return nil, err
	}
	if n.CreatedAt, err = f.Int64(FieldCreatedAt); err != nil {
		return nil, err
	}
	if n.UpdatedAt, err = f.Int64(FieldUpdatedAt); err != nil {
		return nil, err
	}
	if n.UpdatedAt < n.CreatedAt {
		return nil, fmt.Errorf("%w: updatedAt %d before createdAt %d", ErrMalformedDocument, n.UpdatedAt, n.CreatedAt)
	}
	return n, nil
}

func UserFields(u *User) Fields {
	return Fields{
		FieldID:          u.ID,
		FieldDisplayName: u.DisplayName,
		FieldEmail:       u.Email,
		FieldCreatedAt:   u.CreatedAt,
	}
}

func TagFields(t *Tag) Fields {
	return Fields{
		FieldID:        t.ID,
		FieldName:      t.Name,
		FieldColor:     t.Color,
		FieldCreatedAt: t.CreatedAt,
	}
}

func NoteTagFields(nt NoteTag) Fields {
	return Fields{
		FieldNoteID: nt.NoteID,
		FieldTagID:  nt.TagID,
	}
}

func AttachmentFields(a *Attachment) Fields {
	return Fields{
		FieldID:        a.ID,
		FieldNoteID:    a.NoteID,
		FieldURI:       a.URI,
		FieldFileName:  a.FileName,
		FieldMimeType:  a.MimeType,
		FieldCreatedAt: a.CreatedAt,
	}
}

// String returns the string at key. A missing key is an error only when
// required is set.
func (f Fields) String(key string, required bool) (string, error) {
	v, ok := f[key]
	if !ok || v == nil {
		if required {
			return "", fmt.Errorf("%w: missing %q", ErrMalformedDocument, key)
		}
		return "", nil
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%w: %q is %T, want string", ErrMalformedDocument, key, v)
	}
	return s, nil
}

// Int64 returns the integer at key. Backends decode numbers differently
// (JSON gives float64, CBOR gives uint64, protobuf Struct gives float64), so
// every numeric representation of a whole number is accepted.
func (f Fields) Int64(key string) (int64, error) {
	v, ok := f[key]
	if !ok || v == nil {
		return 0, fmt.Errorf("%w: missing %q", ErrMalformedDocument, key)
	}
	switch n := v.(type) {
	case int64:
		return n, nil
	case int:
		return int64(n), nil
	case int32:
		return int64(n), nil
	case uint64:
		if n > math.MaxInt64 {
			return 0, fmt.Errorf("%w: %q overflows int64", ErrMalformedDocument, key)
		}
		return int64(n), nil
	case uint32:
		return int64(n), nil
	case float64:
		if n != math.Trunc(n) {
			return 0, fmt.Errorf("%w: %q is not a whole number", ErrMalformedDocument, key)
		}
		return int64(n), nil
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return 0, fmt.Errorf("%w: %q: %v", ErrMalformedDocument, key, err)
		}
		return i, nil
	default:
		return 0, fmt.Errorf("%w: %q is %T, want number", ErrMalformedDocument, key, v)
	}
}
