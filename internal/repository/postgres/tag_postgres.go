package postgres

import (
	"context"
	"database/sql"
	"strings"

	"docvault/internal/model"
	"docvault/internal/repository"
)

// TagPostgres is a PostgreSQL implementation of repository.TagRepository.
type TagPostgres struct {
	t namedTable
}

// NewTagPostgres creates a new TagPostgres repository.
func NewTagPostgres(db *sql.DB) *TagPostgres {
	return &TagPostgres{t: namedTable{db: db, table: "tags"}}
}

var _ repository.TagRepository = (*TagPostgres)(nil)

func toTag(r *namedRow) *model.Tag {
	return &model.Tag{ID: r.ID, Name: r.Name, Slug: r.Slug}
}

func (r *TagPostgres) Create(ctx context.Context, t *model.Tag) (*model.Tag, error) {
	row, err := r.t.create(ctx, t.Name, t.Slug)
	if err != nil {
		return nil, err
	}
	return toTag(row), nil
}

func (r *TagPostgres) FindByID(ctx context.Context, id int64) (*model.Tag, error) {
	row, err := r.t.findByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toTag(row), nil
}

func (r *TagPostgres) List(ctx context.Context, q repository.ListQuery) (*repository.PageResult[model.Tag], error) {
	res, err := r.t.list(ctx, q)
	if err != nil {
		return nil, err
	}
	items := make([]model.Tag, 0, len(res.Items))
	for i := range res.Items {
		items = append(items, *toTag(&res.Items[i]))
	}
	return &repository.PageResult[model.Tag]{Items: items, Total: res.Total}, nil
}

func (r *TagPostgres) Update(ctx context.Context, t *model.Tag) (*model.Tag, error) {
	row, err := r.t.update(ctx, t.ID, t.Name, t.Slug)
	if err != nil {
		return nil, err
	}
	return toTag(row), nil
}

// Delete removes the tag; document_tags rows cascade.
func (r *TagPostgres) Delete(ctx context.Context, id int64) error {
	return r.t.delete(ctx, id)
}

// CountByIDs counts the distinct existing tags among ids.
func (r *TagPostgres) CountByIDs(ctx context.Context, ids []int64) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	var b builder
	phs := make([]string, 0, len(ids))
	for _, id := range ids {
		phs = append(phs, b.arg(id))
	}
	var n int
	err := r.t.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM tags WHERE id IN (`+strings.Join(phs, ", ")+`)`,
		b.args...,
	).Scan(&n)
	return n, err
}
