package documents

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gophnotes/internal/dbx"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Set replaces the whole document.
func (r *PostgresRepository) Set(ctx context.Context, collection, id string, fields map[string]any) error {
	data, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("failed to encode document: %w", err)
	}

	query :=
		`INSERT INTO documents (collection, id, fields, updated_at)
		 VALUES ($1, $2, $3, now())
		 ON CONFLICT (collection, id) DO UPDATE
		 SET fields = EXCLUDED.fields, updated_at = EXCLUDED.updated_at`

	if _, err := r.db.ExecContext(ctx, query, collection, id, data); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Get(ctx context.Context, collection, id string) (map[string]any, error) {
	query := `SELECT fields FROM documents WHERE collection = $1 AND id = $2`

	var data []byte
	err := r.db.QueryRowContext(ctx, query, collection, id).Scan(&data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return decode(data)
}

func (r *PostgresRepository) Delete(ctx context.Context, collection, id string) error {
	query := `DELETE FROM documents WHERE collection = $1 AND id = $2`

	if _, err := r.db.ExecContext(ctx, query, collection, id); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// Query returns the documents whose top-level field equals value. The
// comparison is JSON equality, so 5 and "5" differ.
func (r *PostgresRepository) Query(ctx context.Context, collection, field string, value any) ([]map[string]any, error) {
	want, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("failed to encode query value: %w", err)
	}

	query :=
		`SELECT fields FROM documents
		 WHERE collection = $1 AND fields -> $2 = $3::jsonb
		 ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query, collection, field, string(want))
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	docs := make([]map[string]any, 0)
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		doc, err := decode(data)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return docs, nil
}

func decode(data []byte) (map[string]any, error) {
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode document: %w", err)
	}
	return doc, nil
}
