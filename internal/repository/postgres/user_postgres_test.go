package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docvault/internal/model"
	"docvault/internal/repository"
)

var userRowColumns = []string{"id", "username", "password_hash", "is_active", "created_at"}

func TestUserPostgres_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewUserPostgres(db)
	ctx := context.Background()
	now := time.Now().UTC()

	mock.ExpectQuery(`INSERT INTO users \(username, password_hash, is_active\)`).
		WithArgs("alice", "$2a$10$hash", true).
		WillReturnRows(sqlmock.NewRows(userRowColumns).AddRow(int64(1), "alice", "$2a$10$hash", true, now))

	u, err := repo.Create(ctx, &model.User{Username: "alice", PasswordHash: "$2a$10$hash", IsActive: true})
	require.NoError(t, err)
	assert.Equal(t, int64(1), u.ID)
	assert.Equal(t, now, u.CreatedAt)

	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs("alice", "$2a$10$hash", true).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_username_key"})

	_, err = repo.Create(ctx, &model.User{Username: "alice", PasswordHash: "$2a$10$hash", IsActive: true})
	var conflict *repository.ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "username", conflict.Field)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserPostgres_Find(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewUserPostgres(db)
	ctx := context.Background()
	now := time.Now().UTC()

	mock.ExpectQuery(`FROM users WHERE username = \$1`).
		WithArgs("alice").
		WillReturnRows(sqlmock.NewRows(userRowColumns).AddRow(int64(1), "alice", "h", false, now))

	u, err := repo.FindByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.False(t, u.IsActive)

	mock.ExpectQuery(`FROM users WHERE id = \$1`).
		WithArgs(int64(2)).
		WillReturnError(sql.ErrNoRows)

	_, err = repo.FindByID(ctx, 2)
	assert.ErrorIs(t, err, sql.ErrNoRows)

	assert.NoError(t, mock.ExpectationsWereMet())
}
