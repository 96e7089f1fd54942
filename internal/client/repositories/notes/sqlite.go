package notes

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gophnotes/internal/client/models"
	"github.com/dmitrijs2005/gophnotes/internal/dbx"
)

const selectColumns = `SELECT id, user_id, title, content, created_at, updated_at, is_synced FROM notes`

// SQLiteRepository implements Repository over a DBTX (either *sql.DB or *sql.Tx).
type SQLiteRepository struct {
	db dbx.DBTX
}

// NewSQLiteRepository returns a new SQLiteRepository bound to the given DBTX.
func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Upsert(ctx context.Context, n *models.Note) error {
	query := `INSERT INTO notes (id, user_id, title, content, created_at, updated_at, is_synced)
			VALUES (?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET user_id = excluded.user_id,
				title = excluded.title,
				content = excluded.content,
				created_at = excluded.created_at,
				updated_at = excluded.updated_at,
				is_synced = excluded.is_synced`
	_, err := r.db.ExecContext(ctx, query,
		n.ID, n.UserID, n.Title, n.Content, n.CreatedAt, n.UpdatedAt, n.IsSynced)
	if err != nil {
		return fmt.Errorf("failed to upsert note: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*models.Note, error) {
	row := r.db.QueryRowContext(ctx, selectColumns+` WHERE id = ?`, id)

	n, err := scanNote(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get note %s: %w", id, err)
	}
	return n, nil
}

func (r *SQLiteRepository) GetAll(ctx context.Context) ([]*models.Note, error) {
	return r.list(ctx, selectColumns+` ORDER BY updated_at DESC, id`)
}

func (r *SQLiteRepository) GetByUser(ctx context.Context, userID string) ([]*models.Note, error) {
	return r.list(ctx, selectColumns+` WHERE user_id = ? ORDER BY updated_at DESC, id`, userID)
}

func (r *SQLiteRepository) GetUnsynced(ctx context.Context) ([]*models.Note, error) {
	return r.list(ctx, selectColumns+` WHERE is_synced = 0 ORDER BY updated_at, id`)
}

func (r *SQLiteRepository) GetUnsyncedByUser(ctx context.Context, userID string) ([]*models.Note, error) {
	return r.list(ctx, selectColumns+` WHERE is_synced = 0 AND user_id = ? ORDER BY updated_at, id`, userID)
}

func (r *SQLiteRepository) MarkSynced(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE notes SET is_synced = 1 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to mark note %s synced: %w", id, err)
	}
	return nil
}

func (r *SQLiteRepository) MarkSyncedIfUnchanged(ctx context.Context, id string, updatedAt int64) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE notes SET is_synced = 1 WHERE id = ? AND updated_at = ? AND is_synced = 0`, id, updatedAt)
	if err != nil {
		return false, fmt.Errorf("failed to mark note %s synced: %w", id, err)
	}
	ra, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return ra == 1, nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM notes WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete note %s: %w", id, err)
	}
	return nil
}

func (r *SQLiteRepository) list(ctx context.Context, query string, args ...any) ([]*models.Note, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select notes: %w", err)
	}
	defer rows.Close()

	result := make([]*models.Note, 0)
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan note: %w", err)
		}
		result = append(result, n)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanNote(s scanner) (*models.Note, error) {
	n := &models.Note{}
	if err := s.Scan(&n.ID, &n.UserID, &n.Title, &n.Content, &n.CreatedAt, &n.UpdatedAt, &n.IsSynced); err != nil {
		return nil, err
	}
	return n, nil
}
