// Package tags persists note tags in the local SQLite store.
package tags

import (
	"context"
	"database/sql"
	"errors"
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

func (r *SQLiteRepository) Upsert(ctx context.Context, t *models.Tag) error {
	query := `INSERT INTO tags (id, name, name_key, color, created_at)
			VALUES (?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET name = excluded.name,
				name_key = excluded.name_key,
				color = excluded.color,
				created_at = excluded.created_at`
	if _, err := r.db.ExecContext(ctx, query, t.ID, t.Name, models.TagNameKey(t.Name), t.Color, t.CreatedAt); err != nil {
		return fmt.Errorf("failed to upsert tag: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*models.Tag, error) {
	return r.one(ctx, `SELECT id, name, color, created_at FROM tags WHERE id = ?`, id)
}

func (r *SQLiteRepository) GetByName(ctx context.Context, name string) (*models.Tag, error) {
	return r.one(ctx, `SELECT id, name, color, created_at FROM tags WHERE name_key = ?`, models.TagNameKey(name))
}

func (r *SQLiteRepository) GetAll(ctx context.Context) ([]*models.Tag, error) {
	return r.list(ctx, `SELECT id, name, color, created_at FROM tags ORDER BY name_key, name`)
}

func (r *SQLiteRepository) GetByNote(ctx context.Context, noteID string) ([]*models.Tag, error) {
	return r.list(ctx, `SELECT t.id, t.name, t.color, t.created_at
		FROM tags t JOIN note_tags nt ON nt.tag_id = t.id
		WHERE nt.note_id = ?
		ORDER BY t.name_key, t.name`, noteID)
}

func (r *SQLiteRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM tags WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete tag %s: %w", id, err)
	}
	return nil
}

func (r *SQLiteRepository) one(ctx context.Context, query string, arg string) (*models.Tag, error) {
	t := &models.Tag{}
	err := r.db.QueryRowContext(ctx, query, arg).Scan(&t.ID, &t.Name, &t.Color, &t.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get tag %s: %w", arg, err)
	}
	return t, nil
}

func (r *SQLiteRepository) list(ctx context.Context, query string, args ...any) ([]*models.Tag, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select tags: %w", err)
	}
	defer rows.Close()

	result := make([]*models.Tag, 0)
	for rows.Next() {
		t := &models.Tag{}
		if err := rows.Scan(&t.ID, &t.Name, &t.Color, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan tag: %w", err)
		}
		result = append(result, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
