package mocks

import (
	"context"

	"docvault/internal/model"
	"docvault/internal/repository"
	"github.com/stretchr/testify/mock"
)

type MockCorrespondentRepository struct {
	mock.Mock
}

func (m *MockCorrespondentRepository) Create(ctx context.Context, v *model.Correspondent) (*model.Correspondent, error) {
	args := m.Called(ctx, v)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Correspondent), args.Error(1)
}

func (m *MockCorrespondentRepository) FindByID(ctx context.Context, id int64) (*model.Correspondent, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Correspondent), args.Error(1)
}

func (m *MockCorrespondentRepository) List(ctx context.Context, q repository.ListQuery) (*repository.PageResult[model.Correspondent], error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.PageResult[model.Correspondent]), args.Error(1)
}

func (m *MockCorrespondentRepository) Update(ctx context.Context, v *model.Correspondent) (*model.Correspondent, error) {
	args := m.Called(ctx, v)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Correspondent), args.Error(1)
}

func (m *MockCorrespondentRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
