package handlers

import (
	"context"

	"github.com/drjehan/portfolio-api/internal/models"
	"github.com/stretchr/testify/mock"
)

type MockBookingService struct {
	mock.Mock
}

func (m *MockBookingService) Submit(ctx context.Context, raw map[string]string) (*models.BookingResponse, error) {
	args := m.Called(ctx, raw)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.BookingResponse), args.Error(1)
}

type MockUploadService struct {
	mock.Mock
}

func (m *MockUploadService) Upload(ctx context.Context, data []byte, fileName, mimeType string) (*models.UploadResult, error) {
	args := m.Called(ctx, data, fileName, mimeType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UploadResult), args.Error(1)
}

func (m *MockUploadService) ActiveBackend() models.StorageBackend {
	args := m.Called()
	return args.Get(0).(models.StorageBackend)
}

type MockImageHost struct {
	mock.Mock
}

func (m *MockImageHost) Upload(ctx context.Context, name string, data []byte) (string, error) {
	args := m.Called(ctx, name, data)
	return args.String(0), args.Error(1)
}
