package postgres

import (
	"context"
	"database/sql"

	"docvault/internal/model"
	"docvault/internal/repository"
)

// CorrespondentPostgres is a PostgreSQL implementation of repository.CorrespondentRepository.
type CorrespondentPostgres struct {
	t namedTable
}

// NewCorrespondentPostgres creates a new CorrespondentPostgres repository.
func NewCorrespondentPostgres(db *sql.DB) *CorrespondentPostgres {
	return &CorrespondentPostgres{t: namedTable{db: db, table: "correspondents"}}
}

var _ repository.CorrespondentRepository = (*CorrespondentPostgres)(nil)

func toCorrespondent(r *namedRow) *model.Correspondent {
	return &model.Correspondent{ID: r.ID, Name: r.Name, Slug: r.Slug}
}

func (r *CorrespondentPostgres) Create(ctx context.Context, c *model.Correspondent) (*model.Correspondent, error) {
	row, err := r.t.create(ctx, c.Name, c.Slug)
	if err != nil {
		return nil, err
	}
	return toCorrespondent(row), nil
}

func (r *CorrespondentPostgres) FindByID(ctx context.Context, id int64) (*model.Correspondent, error) {
	row, err := r.t.findByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toCorrespondent(row), nil
}

func (r *CorrespondentPostgres) List(ctx context.Context, q repository.ListQuery) (*repository.PageResult[model.Correspondent], error) {
	res, err := r.t.list(ctx, q)
	if err != nil {
		return nil, err
	}
	items := make([]model.Correspondent, 0, len(res.Items))
	for i := range res.Items {
		items = append(items, *toCorrespondent(&res.Items[i]))
	}
	return &repository.PageResult[model.Correspondent]{Items: items, Total: res.Total}, nil
}

func (r *CorrespondentPostgres) Update(ctx context.Context, c *model.Correspondent) (*model.Correspondent, error) {
	row, err := r.t.update(ctx, c.ID, c.Name, c.Slug)
	if err != nil {
		return nil, err
	}
	return toCorrespondent(row), nil
}

// Delete removes the correspondent. documents.correspondent_id is declared
// ON DELETE SET NULL, so referencing documents survive.
func (r *CorrespondentPostgres) Delete(ctx context.Context, id int64) error {
	return r.t.delete(ctx, id)
}
