package mocks

import (
	"context"

	"processapi/internal/model"

	"github.com/stretchr/testify/mock"
)

type MockProcessRepository struct {
	mock.Mock
}

func (m *MockProcessRepository) Create(ctx context.Context, p *model.Process) (*model.Process, error) {
	args := m.Called(ctx, p)
	if f, ok := args.Get(0).(func(context.Context, *model.Process) *model.Process); ok {
		return f(ctx, p), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Process), args.Error(1)
}

func (m *MockProcessRepository) FindByID(ctx context.Context, id string) (*model.Process, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Process), args.Error(1)
}
