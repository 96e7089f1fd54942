// Package attachments persists note attachments in the local SQLite store.
package attachments

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gophnotes/internal/client/models"
	"github.com/dmitrijs2005/gophnotes/internal/dbx"
)

const selectColumns = `SELECT id, note_id, uri, file_name, mime_type, created_at FROM attachments`

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Upsert(ctx context.Context, a *models.Attachment) error {
	query := `INSERT INTO attachments (id, note_id, uri, file_name, mime_type, created_at)
			VALUES (?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET note_id = excluded.note_id,
				uri = excluded.uri,
				file_name = excluded.file_name,
				mime_type = excluded.mime_type,
				created_at = excluded.created_at`
	_, err := r.db.ExecContext(ctx, query, a.ID, a.NoteID, a.URI, a.FileName, a.MimeType, a.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert attachment: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*models.Attachment, error) {
	a := &models.Attachment{}
	err := r.db.QueryRowContext(ctx, selectColumns+` WHERE id = ?`, id).
		Scan(&a.ID, &a.NoteID, &a.URI, &a.FileName, &a.MimeType, &a.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get attachment %s: %w", id, err)
	}
	return a, nil
}

func (r *SQLiteRepository) GetByNote(ctx context.Context, noteID string) ([]*models.Attachment, error) {
	rows, err := r.db.QueryContext(ctx, selectColumns+` WHERE note_id = ? ORDER BY created_at, id`, noteID)
	if err != nil {
		return nil, fmt.Errorf("failed to select attachments: %w", err)
	}
	defer rows.Close()

	result := make([]*models.Attachment, 0)
	for rows.Next() {
		a := &models.Attachment{}
		if err := rows.Scan(&a.ID, &a.NoteID, &a.URI, &a.FileName, &a.MimeType, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan attachment: %w", err)
		}
		result = append(result, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM attachments WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete attachment %s: %w", id, err)
	}
	return nil
}

func (r *SQLiteRepository) DeleteByNote(ctx context.Context, noteID string) ([]string, error) {
	existing, err := r.GetByNote(ctx, noteID)
	if err != nil {
		return nil, err
	}
	if _, err := r.db.ExecContext(ctx, `DELETE FROM attachments WHERE note_id = ?`, noteID); err != nil {
		return nil, fmt.Errorf("failed to delete attachments of note %s: %w", noteID, err)
	}
	ids := make([]string, 0, len(existing))
	for _, a := range existing {
		ids = append(ids, a.ID)
	}
	return ids, nil
}
