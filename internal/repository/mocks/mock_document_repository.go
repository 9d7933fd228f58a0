package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"travelapi/internal/model"
	"travelapi/internal/repository"
)

type MockDocumentRepository struct {
	mock.Mock
}

func (m *MockDocumentRepository) Insert(ctx context.Context, entity string, rec model.Record) (*model.StoredRecord, error) {
	args := m.Called(ctx, entity, rec)
	if f, ok := args.Get(0).(func(context.Context, string, model.Record) *model.StoredRecord); ok {
		return f(ctx, entity, rec), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.StoredRecord), args.Error(1)
}

func (m *MockDocumentRepository) InsertMany(ctx context.Context, entity string, recs []model.Record) ([]string, error) {
	args := m.Called(ctx, entity, recs)
	if f, ok := args.Get(0).(func(context.Context, string, []model.Record) []string); ok {
		return f(ctx, entity, recs), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockDocumentRepository) ExistsBy(ctx context.Context, entity, field string, value any) (bool, error) {
	args := m.Called(ctx, entity, field, value)
	return args.Bool(0), args.Error(1)
}

func (m *MockDocumentRepository) FindByID(ctx context.Context, entity, id string) (*model.StoredRecord, error) {
	args := m.Called(ctx, entity, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.StoredRecord), args.Error(1)
}

func (m *MockDocumentRepository) List(ctx context.Context, entity string, pq repository.PageQuery) (*repository.PageResult[model.StoredRecord], error) {
	args := m.Called(ctx, entity, pq)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.PageResult[model.StoredRecord]), args.Error(1)
}

func (m *MockDocumentRepository) Delete(ctx context.Context, entity, id string) error {
	args := m.Called(ctx, entity, id)
	return args.Error(0)
}
