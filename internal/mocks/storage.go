package mocks

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"nickchat/internal/app/storage"
)

type StorageServiceMock struct {
	mock.Mock
}

var _ storage.StorageService = (*StorageServiceMock)(nil)

func (m *StorageServiceMock) Save(ctx context.Context, name string, mimeType string, size int64, body io.Reader) (string, error) {
	args := m.Called(ctx, name, mimeType, size, body)
	return args.String(0), args.Error(1)
}

func (m *StorageServiceMock) Delete(ctx context.Context, ref string) error {
	args := m.Called(ctx, ref)
	return args.Error(0)
}
