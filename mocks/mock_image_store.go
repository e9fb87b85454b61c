package mocks

import (
	"context"

	"imgfetch/internal/models"

	"github.com/stretchr/testify/mock"
)

// MockImageStore is a mock implementation of the image store used by the store commands
type MockImageStore struct {
	mock.Mock
}

func (m *MockImageStore) StoreImage(ctx context.Context, prefix, sourceURL string, data []byte, contentType string) (*models.StoreResult, error) {
	args := m.Called(ctx, prefix, sourceURL, data, contentType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.StoreResult), args.Error(1)
}
