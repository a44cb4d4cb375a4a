package postgres

import (
	"context"
	"database/sql"

	"docvault/internal/database"
	"docvault/internal/model"
	"docvault/internal/repository"
)

const userColumns = `SELECT id, username, password_hash, is_active, created_at FROM users`

// UserPostgres is a PostgreSQL implementation of repository.UserRepository.
type UserPostgres struct {
	db *sql.DB
}

// NewUserPostgres creates a new UserPostgres repository.
func NewUserPostgres(db *sql.DB) *UserPostgres {
	return &UserPostgres{db: db}
}

var _ repository.UserRepository = (*UserPostgres)(nil)

func scanUser(row rowScanner) (*model.User, error) {
	var u model.User
	if err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.IsActive, &u.CreatedAt); err != nil {
		return nil, err
	}
	return &u, nil
}

// Create inserts a user. A taken username yields a *repository.ConflictError.
func (r *UserPostgres) Create(ctx context.Context, u *model.User) (*model.User, error) {
	const q = `
		INSERT INTO users (username, password_hash, is_active)
		VALUES ($1, $2, $3)
		RETURNING id, username, password_hash, is_active, created_at
	`
	out, err := scanUser(r.db.QueryRowContext(ctx, q, u.Username, u.PasswordHash, u.IsActive))
	if err != nil {
		if _, ok := database.UniqueViolation(err); ok {
			return nil, &repository.ConflictError{Field: "username", Err: err}
		}
		return nil, err
	}
	return out, nil
}

func (r *UserPostgres) FindByID(ctx context.Context, id int64) (*model.User, error) {
	return scanUser(r.db.QueryRowContext(ctx, userColumns+` WHERE id = $1`, id))
}

func (r *UserPostgres) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	return scanUser(r.db.QueryRowContext(ctx, userColumns+` WHERE username = $1`, username))
}
