package postgres

import (
	"context"
	"database/sql"
	"strings"

	"docvault/internal/database"
	"docvault/internal/repository"
)

// namedFields are the filter and ordering fields shared by correspondents and tags.
var namedFields = fieldSet{
	"name": {expr: "name"},
	"slug": {expr: "slug"},
}

// namedRow is the shape shared by correspondents and tags.
type namedRow struct {
	ID   int64
	Name string
	Slug string
}

// namedTable implements persistence for an (id, name, slug) table with
// unique name and slug columns.
type namedTable struct {
	db    *sql.DB
	table string
}

func (t namedTable) create(ctx context.Context, name, slug string) (*namedRow, error) {
	q := `INSERT INTO ` + t.table + ` (name, slug) VALUES ($1, $2) RETURNING id, name, slug`
	var out namedRow
	if err := t.db.QueryRowContext(ctx, q, name, slug).Scan(&out.ID, &out.Name, &out.Slug); err != nil {
		return nil, conflict(err)
	}
	return &out, nil
}

func (t namedTable) findByID(ctx context.Context, id int64) (*namedRow, error) {
	q := `SELECT id, name, slug FROM ` + t.table + ` WHERE id = $1`
	var out namedRow
	if err := t.db.QueryRowContext(ctx, q, id).Scan(&out.ID, &out.Name, &out.Slug); err != nil {
		return nil, err
	}
	return &out, nil
}

func (t namedTable) list(ctx context.Context, lq repository.ListQuery) (*repository.PageResult[namedRow], error) {
	var b builder
	if err := b.filter(namedFields, lq.Conditions); err != nil {
		return nil, err
	}
	order, err := orderClause(namedFields, lq.Ordering, "id ASC")
	if err != nil {
		return nil, err
	}
	where := b.whereClause()

	var total int
	if err := t.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM `+t.table+where, b.args...).Scan(&total); err != nil {
		return nil, err
	}

	limit, offset := b.arg(lq.Limit), b.arg(lq.Offset)
	rows, err := t.db.QueryContext(ctx,
		`SELECT id, name, slug FROM `+t.table+where+order+` LIMIT `+limit+` OFFSET `+offset,
		b.args...,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]namedRow, 0)
	for rows.Next() {
		var r namedRow
		if err := rows.Scan(&r.ID, &r.Name, &r.Slug); err != nil {
			return nil, err
		}
		items = append(items, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &repository.PageResult[namedRow]{Items: items, Total: total}, nil
}

func (t namedTable) update(ctx context.Context, id int64, name, slug string) (*namedRow, error) {
	q := `UPDATE ` + t.table + ` SET name = $1, slug = $2 WHERE id = $3 RETURNING id, name, slug`
	var out namedRow
	if err := t.db.QueryRowContext(ctx, q, name, slug, id).Scan(&out.ID, &out.Name, &out.Slug); err != nil {
		return nil, conflict(err)
	}
	return &out, nil
}

func (t namedTable) delete(ctx context.Context, id int64) error {
	res, err := t.db.ExecContext(ctx, `DELETE FROM `+t.table+` WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// conflict turns a unique violation into a ConflictError naming the column.
func conflict(err error) error {
	constraint, ok := database.UniqueViolation(err)
	if !ok {
		return err
	}
	field := "name"
	if strings.Contains(constraint, "slug") {
		field = "slug"
	}
	return &repository.ConflictError{Field: field, Err: err}
}
