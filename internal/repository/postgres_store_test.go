package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rosterhub/rosterhub-api/internal/models"
)

func newMockStore(t *testing.T) (*PostgresStore, sqlmock.Sqlmock) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })
	db := sqlx.NewDb(mockDB, "sqlmock")
	return NewPostgresStore(db, "roster", nil), mock
}

func TestPostgresStoreLoad(t *testing.T) {
	store, mock := newMockStore(t)

	payload := `[{"id":"s-1","name":"Dana","email":"dana@example.com","course":"CS","status":"active"}]`
	mock.ExpectQuery(regexp.QuoteMeta("SELECT payload FROM roster_snapshots WHERE key = $1")).
		WithArgs("roster").
		WillReturnRows(sqlmock.NewRows([]string{"payload"}).AddRow([]byte(payload)))

	students := store.Load(context.Background())
	require.Len(t, students, 1)
	assert.Equal(t, "Dana", students[0].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStoreLoadNoRowReturnsSeed(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT payload FROM roster_snapshots WHERE key = $1")).
		WithArgs("roster").
		WillReturnRows(sqlmock.NewRows([]string{"payload"}))

	students := store.Load(context.Background())
	require.Len(t, students, 3)
	assert.Equal(t, "seed-1", students[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStoreLoadQueryErrorReturnsSeed(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT payload FROM roster_snapshots WHERE key = $1")).
		WithArgs("roster").
		WillReturnError(errors.New("connection refused"))

	students := store.Load(context.Background())
	require.Len(t, students, 3)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStoreLoadCorruptPayloadReturnsSeed(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT payload FROM roster_snapshots WHERE key = $1")).
		WithArgs("roster").
		WillReturnRows(sqlmock.NewRows([]string{"payload"}).AddRow([]byte(`garbage`)))

	students := store.Load(context.Background())
	require.Len(t, students, 3)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStoreSaveUpserts(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO roster_snapshots")).
		WithArgs("roster", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	ok := store.Save(context.Background(), []models.Student{{ID: "s-1", Name: "Dana"}})
	assert.True(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStoreSaveReportsFailure(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO roster_snapshots")).
		WithArgs("roster", sqlmock.AnyArg()).
		WillReturnError(errors.New("disk full"))

	assert.False(t, store.Save(context.Background(), []models.Student{{ID: "s-1"}}))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStoreClear(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM roster_snapshots WHERE key = $1")).
		WithArgs("roster").
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.True(t, store.Clear(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}
