package models

import (
	"fmt"

	"github.com/google/uuid"
)

// DefaultAttachmentMimeType is used for attachments added by URI only.
const DefaultAttachmentMimeType = "application/octet-stream"

// Attachment references an external resource by URI. The resource itself is
// never fetched.
type Attachment struct {
	ID        string
	NoteID    string
	URI       string
	FileName  string
	MimeType  string
	CreatedAt int64
}

// NewAttachment builds an attachment for a bare URI, naming it after the
// creation time.
func NewAttachment(noteID, uri string, now int64) *Attachment {
	return &Attachment{
		ID:        uuid.NewString(),
		NoteID:    noteID,
		URI:       uri,
		FileName:  fmt.Sprintf("attachment_%d", now),
		MimeType:  DefaultAttachmentMimeType,
		CreatedAt: now,
	}
}
