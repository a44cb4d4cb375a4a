package repository

import (
	"context"

	"docvault/internal/model"
)

// TagRepository defines data access for tags.
type TagRepository interface {
	Create(ctx context.Context, t *model.Tag) (*model.Tag, error)
	FindByID(ctx context.Context, id int64) (*model.Tag, error)
	List(ctx context.Context, q ListQuery) (*PageResult[model.Tag], error)
	Update(ctx context.Context, t *model.Tag) (*model.Tag, error)
	// Delete removes the tag and detaches it from every document.
	Delete(ctx context.Context, id int64) error
	// CountByIDs returns how many of ids exist, for reference validation.
	CountByIDs(ctx context.Context, ids []int64) (int, error)
}
