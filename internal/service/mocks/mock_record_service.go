package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"travelapi/internal/model"
	"travelapi/internal/service"
	"travelapi/internal/validator"
)

type MockRecordService struct {
	mock.Mock
}

// CreateOne does not match on opts.
func (m *MockRecordService) CreateOne(ctx context.Context, entityName any, record any, opts ...validator.Option) (*model.StoredRecord, error) {
	args := m.Called(ctx, entityName, record)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.StoredRecord), args.Error(1)
}

func (m *MockRecordService) CreateMany(ctx context.Context, entityName string, records []model.Record) ([]string, error) {
	args := m.Called(ctx, entityName, records)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockRecordService) List(ctx context.Context, entityName string, limit, offset int) (*service.RecordListResult, error) {
	args := m.Called(ctx, entityName, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.RecordListResult), args.Error(1)
}

func (m *MockRecordService) Get(ctx context.Context, entityName, id string) (*model.StoredRecord, error) {
	args := m.Called(ctx, entityName, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.StoredRecord), args.Error(1)
}

func (m *MockRecordService) Delete(ctx context.Context, entityName, id string) error {
	args := m.Called(ctx, entityName, id)
	return args.Error(0)
}
