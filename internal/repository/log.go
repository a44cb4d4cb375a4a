package repository

import (
	"context"

	"docvault/internal/model"
)

// LogRepository reads the grouped audit log and appends to it.
type LogRepository interface {
	// ListGroups returns one record per log group.
	ListGroups(ctx context.Context, q ListQuery) (*PageResult[model.LogGroup], error)
	// FindGroup returns sql.ErrNoRows when the group has no rows.
	FindGroup(ctx context.Context, group string) (*model.LogGroup, error)
	Append(ctx context.Context, e *model.LogEntry) error
}
