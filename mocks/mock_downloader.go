package mocks

import (
	"context"

	"imgfetch/internal/downloader"

	"github.com/stretchr/testify/mock"
)

// MockDownloader is a mock implementation of binder.Downloader
type MockDownloader struct {
	mock.Mock
}

func (m *MockDownloader) Download(ctx context.Context, rawURL string) *downloader.Result {
	args := m.Called(ctx, rawURL)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(*downloader.Result)
}
