package postgres

import (
	"context"
	"database/sql"
	"time"

	"docvault/internal/model"
	"docvault/internal/repository"
)

var logFields = fieldSet{
	"time": {expr: "MAX(modified)"},
}

const logGroupColumns = `
		SELECT grp::text, MAX(modified), string_agg(message, E'\n' ORDER BY created, id)
		FROM logs`

// LogPostgres is a PostgreSQL implementation of repository.LogRepository.
type LogPostgres struct {
	db *sql.DB
}

// NewLogPostgres creates a new LogPostgres repository.
func NewLogPostgres(db *sql.DB) *LogPostgres {
	return &LogPostgres{db: db}
}

var _ repository.LogRepository = (*LogPostgres)(nil)

// ListGroups folds log rows into one record per group.
func (r *LogPostgres) ListGroups(ctx context.Context, q repository.ListQuery) (*repository.PageResult[model.LogGroup], error) {
	// Groups have no filterable fields; any condition is rejected.
	var b builder
	if err := b.filter(nil, q.Conditions); err != nil {
		return nil, err
	}
	order, err := orderClause(logFields, q.Ordering, "grp ASC")
	if err != nil {
		return nil, err
	}

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(DISTINCT grp) FROM logs`).Scan(&total); err != nil {
		return nil, err
	}

	limit, offset := b.arg(q.Limit), b.arg(q.Offset)
	rows, err := r.db.QueryContext(ctx,
		logGroupColumns+` GROUP BY grp`+order+` LIMIT `+limit+` OFFSET `+offset,
		b.args...,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.LogGroup, 0)
	for rows.Next() {
		var g model.LogGroup
		if err := rows.Scan(&g.Group, &g.Time, &g.Messages); err != nil {
			return nil, err
		}
		items = append(items, g)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &repository.PageResult[model.LogGroup]{Items: items, Total: total}, nil
}

// FindGroup returns the folded record of a single group.
func (r *LogPostgres) FindGroup(ctx context.Context, group string) (*model.LogGroup, error) {
	var g model.LogGroup
	err := r.db.QueryRowContext(ctx, logGroupColumns+` WHERE grp = $1 GROUP BY grp`, group).
		Scan(&g.Group, &g.Time, &g.Messages)
	if err != nil {
		return nil, err
	}
	return &g, nil
}

// Append inserts a log row, stamping it with the current time when Created is zero.
func (r *LogPostgres) Append(ctx context.Context, e *model.LogEntry) error {
	const q = `
		INSERT INTO logs (grp, message, level, component, created, modified)
		VALUES ($1, $2, $3, $4, $5, $5)
		RETURNING id
	`
	if e.Created.IsZero() {
		e.Created = time.Now().UTC()
	}
	e.Modified = e.Created
	return r.db.QueryRowContext(ctx, q, e.Group, e.Message, int(e.Level), int(e.Component), e.Created).Scan(&e.ID)
}
