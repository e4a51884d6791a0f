package mocks

import (
	"context"

	"processapi/internal/storage"

	"github.com/stretchr/testify/mock"
)

type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) Copy(ctx context.Context, srcKey, dstKey string) (storage.ObjectInfo, error) {
	args := m.Called(ctx, srcKey, dstKey)
	if f, ok := args.Get(0).(func(context.Context, string, string) storage.ObjectInfo); ok {
		return f(ctx, srcKey, dstKey), args.Error(1)
	}
	return args.Get(0).(storage.ObjectInfo), args.Error(1)
}

func (m *MockStorage) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}
