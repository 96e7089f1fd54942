package users

import (
	"context"
	"database/sql"
	"testing"

	"github.com/dmitrijs2005/gophnotes/internal/client/migrations"
	"github.com/dmitrijs2005/gophnotes/internal/client/models"
	"github.com/stretchr/testify/assert"
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

func TestUpsert_ReplacesOnSignIn(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, r.Upsert(ctx, &models.User{ID: "sub-1", DisplayName: "Ann", Email: "a@x", CreatedAt: 1}))
	require.NoError(t, r.Upsert(ctx, &models.User{ID: "sub-1", DisplayName: "Ann B", Email: "ab@x", CreatedAt: 2}))

	u, err := r.GetByID(ctx, "sub-1")
	require.NoError(t, err)
	assert.Equal(t, &models.User{ID: "sub-1", DisplayName: "Ann B", Email: "ab@x", CreatedAt: 2}, u)

	all, err := r.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestGetByID_Absent(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))

	u, err := r.GetByID(context.Background(), "nope")
	require.NoError(t, err)
	assert.Nil(t, u)
}

func TestGetAll_OrderAndDelete(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, r.Upsert(ctx, &models.User{ID: "2", DisplayName: "Bob"}))
	require.NoError(t, r.Upsert(ctx, &models.User{ID: "1", DisplayName: "Alice"}))

	all, err := r.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Alice", all[0].DisplayName)

	require.NoError(t, r.Delete(ctx, "1"))
	all, err = r.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}
