package repository

import (
	"context"

	"docvault/internal/model"
)

// CorrespondentRepository defines data access for correspondents.
type CorrespondentRepository interface {
	Create(ctx context.Context, c *model.Correspondent) (*model.Correspondent, error)
	FindByID(ctx context.Context, id int64) (*model.Correspondent, error)
	List(ctx context.Context, q ListQuery) (*PageResult[model.Correspondent], error)
	Update(ctx context.Context, c *model.Correspondent) (*model.Correspondent, error)
	// Delete removes the correspondent; documents referencing it keep existing
	// with the reference cleared.
	Delete(ctx context.Context, id int64) error
}
