package mocks

import (
	"context"

	"processapi/internal/model"

	"github.com/stretchr/testify/mock"
)

type MockProcessService struct {
	mock.Mock
}

func (m *MockProcessService) DuplicateProcess(ctx context.Context, sourceID string, overrides map[string]any) (*model.Process, error) {
	args := m.Called(ctx, sourceID, overrides)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Process), args.Error(1)
}

func (m *MockProcessService) Get(ctx context.Context, id string) (*model.Process, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Process), args.Error(1)
}
