package documents

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		_ = db.Close()
	})
	return NewPostgresRepository(db), mock
}

func TestSet_Upserts(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectExec(`(?s)^INSERT\s+INTO\s+documents.*ON\s+CONFLICT\s+\(collection,\s*id\)\s+DO\s+UPDATE`).
		WithArgs("notes", "n1", []byte(`{"title":"a"}`)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Set(context.Background(), "notes", "n1", map[string]any{"title": "a"}))
}

func TestSet_DBError(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectExec(`INSERT INTO documents`).WillReturnError(errors.New("db down"))

	err := repo.Set(context.Background(), "notes", "n1", map[string]any{})
	require.ErrorContains(t, err, "db error: db down")
}

func TestGet_Found(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`^SELECT fields FROM documents WHERE collection = \$1 AND id = \$2$`).
		WithArgs("notes", "n1").
		WillReturnRows(sqlmock.NewRows([]string{"fields"}).AddRow([]byte(`{"title":"a","updatedAt":5}`)))

	doc, err := repo.Get(context.Background(), "notes", "n1")
	require.NoError(t, err)
	assert.Equal(t, "a", doc["title"])
	assert.Equal(t, float64(5), doc["updatedAt"])
}

func TestGet_Missing(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`SELECT fields FROM documents`).WillReturnError(sql.ErrNoRows)

	doc, err := repo.Get(context.Background(), "notes", "nope")
	require.NoError(t, err)
	assert.Nil(t, doc)
}

func TestGet_CorruptDocument(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`SELECT fields FROM documents`).
		WillReturnRows(sqlmock.NewRows([]string{"fields"}).AddRow([]byte(`not json`)))

	_, err := repo.Get(context.Background(), "notes", "n1")
	require.ErrorContains(t, err, "failed to decode document")
}

func TestDelete(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectExec(`^DELETE FROM documents WHERE collection = \$1 AND id = \$2$`).
		WithArgs("notes", "n1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.Delete(context.Background(), "notes", "n1"))
}

func TestQuery_MatchesJSONValue(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	rows := sqlmock.NewRows([]string{"fields"}).
		AddRow([]byte(`{"id":"n1","userId":"u1"}`)).
		AddRow([]byte(`{"id":"n2","userId":"u1"}`))
	mock.ExpectQuery(`(?s)^SELECT\s+fields\s+FROM\s+documents\s+WHERE\s+collection\s*=\s*\$1\s+AND\s+fields\s*->\s*\$2\s*=\s*\$3::jsonb`).
		WithArgs("notes", "userId", `"u1"`).
		WillReturnRows(rows)

	docs, err := repo.Query(context.Background(), "notes", "userId", "u1")
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "n2", docs[1]["id"])
}

func TestQuery_EmptyIsNotNil(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`SELECT\s+fields`).WillReturnRows(sqlmock.NewRows([]string{"fields"}))

	docs, err := repo.Query(context.Background(), "notes", "userId", "u9")
	require.NoError(t, err)
	assert.NotNil(t, docs)
	assert.Empty(t, docs)
}

func TestQuery_RowError(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	rows := sqlmock.NewRows([]string{"fields"}).
		AddRow([]byte(`{}`)).
		RowError(0, errors.New("broken pipe"))
	mock.ExpectQuery(`SELECT\s+fields`).WillReturnRows(rows)

	_, err := repo.Query(context.Background(), "notes", "userId", "u1")
	require.ErrorContains(t, err, "broken pipe")
}
