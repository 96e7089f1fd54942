// Package notetags persists the note/tag association table.
package notetags

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/gophnotes/internal/client/models"
	"github.com/dmitrijs2005/gophnotes/internal/dbx"
)

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Upsert(ctx context.Context, nt models.NoteTag) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO note_tags (note_id, tag_id) VALUES (?, ?) ON CONFLICT(note_id, tag_id) DO NOTHING`,
		nt.NoteID, nt.TagID)
	if err != nil {
		return fmt.Errorf("failed to upsert note tag: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, nt models.NoteTag) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM note_tags WHERE note_id = ? AND tag_id = ?`, nt.NoteID, nt.TagID)
	if err != nil {
		return fmt.Errorf("failed to delete note tag: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) DeleteByNote(ctx context.Context, noteID string) ([]models.NoteTag, error) {
	removed, err := r.list(ctx, `SELECT note_id, tag_id FROM note_tags WHERE note_id = ?`, noteID)
	if err != nil {
		return nil, err
	}
	if _, err := r.db.ExecContext(ctx, `DELETE FROM note_tags WHERE note_id = ?`, noteID); err != nil {
		return nil, fmt.Errorf("failed to delete note tags of note %s: %w", noteID, err)
	}
	return removed, nil
}

func (r *SQLiteRepository) DeleteByTag(ctx context.Context, tagID string) ([]models.NoteTag, error) {
	removed, err := r.list(ctx, `SELECT note_id, tag_id FROM note_tags WHERE tag_id = ?`, tagID)
	if err != nil {
		return nil, err
	}
	if _, err := r.db.ExecContext(ctx, `DELETE FROM note_tags WHERE tag_id = ?`, tagID); err != nil {
		return nil, fmt.Errorf("failed to delete note tags of tag %s: %w", tagID, err)
	}
	return removed, nil
}

func (r *SQLiteRepository) GetByNote(ctx context.Context, noteID string) ([]models.NoteTag, error) {
	return r.list(ctx, `SELECT note_id, tag_id FROM note_tags WHERE note_id = ? ORDER BY tag_id`, noteID)
}

func (r *SQLiteRepository) list(ctx context.Context, query string, arg string) ([]models.NoteTag, error) {
	rows, err := r.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("failed to select note tags: %w", err)
	}
	defer rows.Close()

	result := make([]models.NoteTag, 0)
	for rows.Next() {
		var nt models.NoteTag
		if err := rows.Scan(&nt.NoteID, &nt.TagID); err != nil {
			return nil, fmt.Errorf("failed to scan note tag: %w", err)
		}
		result = append(result, nt)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
