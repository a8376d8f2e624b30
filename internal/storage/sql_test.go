package storage

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostgresStore_Get(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	s := NewPostgresStore(db)
	query := regexp.QuoteMeta(`SELECT value FROM kv_entries WHERE key = $1`)

	t.Run("Found", func(t *testing.T) {
		mock.ExpectQuery(query).
			WithArgs("token").
			WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow("abc"))

		v, ok, err := s.Get(context.Background(), "token")
		assert.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "abc", v)
	})

	t.Run("Missing", func(t *testing.T) {
		mock.ExpectQuery(query).
			WithArgs("role").
			WillReturnError(sql.ErrNoRows)

		_, ok, err := s.Get(context.Background(), "role")
		assert.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("DB error", func(t *testing.T) {
		mock.ExpectQuery(query).
			WithArgs("phone").
			WillReturnError(errors.New("db down"))

		_, _, err := s.Get(context.Background(), "phone")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "db down")
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_Set(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	s := NewPostgresStore(db)

	t.Run("Success", func(t *testing.T) {
		mock.ExpectExec("INSERT INTO kv_entries").
			WithArgs("token", "abc").
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, s.Set(context.Background(), "token", "abc"))
	})

	t.Run("Error", func(t *testing.T) {
		mock.ExpectExec("INSERT INTO kv_entries").
			WillReturnError(errors.New("db error"))

		assert.Error(t, s.Set(context.Background(), "token", "abc"))
	})

	t.Run("Empty key", func(t *testing.T) {
		assert.ErrorIs(t, s.Set(context.Background(), "", "abc"), ErrEmptyKey)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_Remove(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	s := NewPostgresStore(db)
	del := regexp.QuoteMeta(`DELETE FROM kv_entries WHERE key = $1`)

	t.Run("Removes every key in one transaction", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec(del).WithArgs("token").WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(del).WithArgs("role").WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		assert.NoError(t, s.Remove(context.Background(), "token", "role"))
	})

	t.Run("Rolls back on failure", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec(del).WithArgs("token").WillReturnError(errors.New("boom"))
		mock.ExpectRollback()

		assert.Error(t, s.Remove(context.Background(), "token", "role"))
	})

	t.Run("No keys is a no-op", func(t *testing.T) {
		assert.NoError(t, s.Remove(context.Background()))
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLiteStore(t *testing.T) {
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)

	s, err := NewSQLiteStore(context.Background(), db)
	require.NoError(t, err)
	defer s.Close()

	exerciseStore(t, s)
}
