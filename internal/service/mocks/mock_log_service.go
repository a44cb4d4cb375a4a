package mocks

import (
	"context"

	"docvault/internal/model"
	"docvault/internal/repository"
	"docvault/internal/service"
	"github.com/stretchr/testify/mock"
)

type MockLogService struct {
	mock.Mock
}

func (m *MockLogService) List(ctx context.Context, q repository.ListQuery) (*service.ListResult[model.LogGroup], error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ListResult[model.LogGroup]), args.Error(1)
}

func (m *MockLogService) Get(ctx context.Context, group string) (*model.LogGroup, error) {
	args := m.Called(ctx, group)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.LogGroup), args.Error(1)
}
