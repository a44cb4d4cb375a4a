package mocks

import (
	"context"

	"docvault/internal/repository"
	"docvault/internal/service"
	"github.com/stretchr/testify/mock"
)

// MockNamedService mocks service.NamedService for correspondents and tags.
type MockNamedService[T any] struct {
	mock.Mock
}

func (m *MockNamedService[T]) List(ctx context.Context, q repository.ListQuery) (*service.ListResult[T], error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ListResult[T]), args.Error(1)
}

func (m *MockNamedService[T]) Get(ctx context.Context, id int64) (*T, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*T), args.Error(1)
}

func (m *MockNamedService[T]) Create(ctx context.Context, in service.NamedInput) (*T, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*T), args.Error(1)
}

func (m *MockNamedService[T]) Update(ctx context.Context, id int64, in service.NamedInput, partial bool) (*T, error) {
	args := m.Called(ctx, id, in, partial)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*T), args.Error(1)
}

func (m *MockNamedService[T]) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
