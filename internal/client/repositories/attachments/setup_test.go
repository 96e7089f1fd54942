package attachments

import (
	"context"
	"database/sql"
	"testing"

	"github.com/dmitrijs2005/gophnotes/internal/client/migrations"
	"github.com/dmitrijs2005/gophnotes/internal/client/models"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, migrations.Up(context.Background(), db))
	return db
}

func insertNote(t *testing.T, db *sql.DB, id string) {
	t.Helper()
	_, err := db.Exec(`INSERT INTO notes (id, user_id, title, content, created_at, updated_at, is_synced)
		VALUES (?, 'u1', 't', '', 1, 1, 0)`, id)
	require.NoError(t, err)
}

func insertTag(t *testing.T, db *sql.DB, id, name string) {
	t.Helper()
	_, err := db.Exec(`INSERT INTO tags (id, name, name_key, color, created_at) VALUES (?, ?, ?, '#2196F3', 1)`,
		id, name, models.TagNameKey(name))
	require.NoError(t, err)
}
