package mocks

import (
	"context"
	"io"

	"docvault/internal/service"
	"github.com/stretchr/testify/mock"
)

type MockUploadService struct {
	mock.Mock
}

func (m *MockUploadService) Accept(ctx context.Context, form service.UploadForm, file io.Reader, size int64) (string, error) {
	args := m.Called(ctx, form, file, size)
	return args.String(0), args.Error(1)
}
