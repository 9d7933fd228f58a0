package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type MockAnalyticsRepository struct {
	mock.Mock
}

func (m *MockAnalyticsRepository) EnsureCounters(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockAnalyticsRepository) Increment(ctx context.Context, id string, deltas map[string]int64) error {
	args := m.Called(ctx, id, deltas)
	return args.Error(0)
}

func (m *MockAnalyticsRepository) Counters(ctx context.Context, id string) (map[string]int64, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]int64), args.Error(1)
}
