package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"travelapi/internal/service"
)

type MockSignupService struct {
	mock.Mock
}

func (m *MockSignupService) Signup(ctx context.Context, form map[string]string) service.SignupResult {
	args := m.Called(ctx, form)
	return args.Get(0).(service.SignupResult)
}
