package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"travelapi/internal/repository"
)

// MockTransactor runs fn against Repos unless the WithinTx expectation returns an error.
type MockTransactor struct {
	mock.Mock
	Repos repository.Repositories
}

func (m *MockTransactor) WithinTx(ctx context.Context, fn func(ctx context.Context, repos repository.Repositories) error) error {
	args := m.Called(ctx)
	if err := args.Error(0); err != nil {
		return err
	}
	return fn(ctx, m.Repos)
}
