package mocks

import (
	"context"

	"docvault/internal/model"
	"docvault/internal/repository"
	"github.com/stretchr/testify/mock"
)

type MockLogRepository struct {
	mock.Mock
}

func (m *MockLogRepository) ListGroups(ctx context.Context, q repository.ListQuery) (*repository.PageResult[model.LogGroup], error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.PageResult[model.LogGroup]), args.Error(1)
}

func (m *MockLogRepository) FindGroup(ctx context.Context, group string) (*model.LogGroup, error) {
	args := m.Called(ctx, group)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.LogGroup), args.Error(1)
}

func (m *MockLogRepository) Append(ctx context.Context, e *model.LogEntry) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}
