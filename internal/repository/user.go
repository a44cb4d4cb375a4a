package repository

import (
	"context"

	"docvault/internal/model"
)

// UserRepository looks up API callers.
type UserRepository interface {
	Create(ctx context.Context, u *model.User) (*model.User, error)
	FindByID(ctx context.Context, id int64) (*model.User, error)
	FindByUsername(ctx context.Context, username string) (*model.User, error)
}
