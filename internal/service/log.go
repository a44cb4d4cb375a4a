package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"docvault/internal/model"
	"docvault/internal/repository"
)

// LogService exposes the audit log folded into groups.
type LogService interface {
	List(ctx context.Context, q repository.ListQuery) (*ListResult[model.LogGroup], error)
	// Get returns ErrNotFound for malformed as well as unknown group ids.
	Get(ctx context.Context, group string) (*model.LogGroup, error)
}

type logService struct {
	repo repository.LogRepository
}

func NewLogService(repo repository.LogRepository) LogService {
	return &logService{repo: repo}
}

func (s *logService) List(ctx context.Context, q repository.ListQuery) (*ListResult[model.LogGroup], error) {
	res, err := s.repo.ListGroups(ctx, q)
	if err != nil {
		return nil, err
	}
	return &ListResult[model.LogGroup]{Items: res.Items, Total: res.Total}, nil
}

func (s *logService) Get(ctx context.Context, group string) (*model.LogGroup, error) {
	id, err := uuid.Parse(group)
	if err != nil {
		return nil, ErrNotFound
	}
	g, err := s.repo.FindGroup(ctx, id.String())
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return g, nil
}
