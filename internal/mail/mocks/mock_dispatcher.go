package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"travelapi/internal/mail"
)

type MockDispatcher struct {
	mock.Mock
}

func (m *MockDispatcher) Send(ctx context.Context, msg mail.Message) (string, error) {
	args := m.Called(ctx, msg)
	return args.String(0), args.Error(1)
}
