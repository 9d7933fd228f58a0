package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"travelapi/internal/apperror"
	"travelapi/internal/model"
	"travelapi/internal/repository"
	"travelapi/internal/schema"
	"travelapi/internal/validator"
)

var (
	ErrIDRequired = errors.New("id is required")
	ErrNotFound   = errors.New("record not found")
)

// RecordListResult is the service-level DTO for paginated records.
type RecordListResult struct {
	Items []model.StoredRecord `json:"data"`
	Total int                  `json:"total"`
}

// RecordService creates and reads generic entity records.
type RecordService interface {
	// CreateOne validates record against entityName and persists it.
	// Validation errors are returned unchanged; storage failures become PersistenceError.
	CreateOne(ctx context.Context, entityName any, record any, opts ...validator.Option) (*model.StoredRecord, error)

	// CreateMany stores pre-validated records in one batch and returns the ids
	// in the order storage reports them. Only the entity name is checked.
	CreateMany(ctx context.Context, entityName string, records []model.Record) ([]string, error)

	// List returns records of one entity using limit/offset and a total count.
	List(ctx context.Context, entityName string, limit, offset int) (*RecordListResult, error)

	// Get returns a single record by its ID.
	Get(ctx context.Context, entityName, id string) (*model.StoredRecord, error)

	// Delete removes a record by ID.
	Delete(ctx context.Context, entityName, id string) error
}

type recordService struct {
	validator *validator.Validator
	repo      repository.DocumentRepository
	log       *zap.Logger
	newID     func() string
}

// NewRecordService constructs a new RecordService.
func NewRecordService(v *validator.Validator, repo repository.DocumentRepository, log *zap.Logger) RecordService {
	return newRecordService(v, repo, log)
}

func newRecordService(v *validator.Validator, repo repository.DocumentRepository, log *zap.Logger) *recordService {
	if log == nil {
		log = zap.NewNop()
	}
	return &recordService{validator: v, repo: repo, log: log, newID: uuid.NewString}
}

func (s *recordService) CreateOne(ctx context.Context, entityName any, record any, opts ...validator.Option) (_ *model.StoredRecord, err error) {
	ctx, span := tracer.Start(ctx, "RecordService.CreateOne")
	defer func() { endSpan(span, err) }()

	valid, err := s.validator.Validate(entityName, record, opts...)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.String("record.entity", valid.Entity))

	rec := valid.Record
	if _, ok := rec[model.IDField]; !ok {
		rec[model.IDField] = s.newID()
	}

	stored, err := s.repo.Insert(ctx, valid.Entity, rec)
	if err != nil {
		return nil, s.persistenceError("create_one", valid.Entity, err, zap.String("record_id", rec.ID()))
	}
	return stored, nil
}

func (s *recordService) CreateMany(ctx context.Context, entityName string, records []model.Record) (_ []string, err error) {
	ctx, span := tracer.Start(ctx, "RecordService.CreateMany")
	defer func() { endSpan(span, err) }()

	def, err := s.resolve(entityName)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.String("record.entity", def.Name), attribute.Int("record.count", len(records)))

	if len(records) == 0 {
		return []string{}, nil
	}

	batch := make([]model.Record, len(records))
	for i, r := range records {
		if r == nil {
			return nil, apperror.Newf(apperror.KindTypeMismatch, "record %d must be a non-null object, got null", i)
		}
		rec := r.Without()
		if _, ok := rec[model.IDField]; !ok {
			rec[model.IDField] = s.newID()
		}
		batch[i] = rec
	}

	ids, err := s.repo.InsertMany(ctx, def.Name, batch)
	if err != nil {
		return nil, s.persistenceError("create_many", def.Name, err, zap.Int("record_count", len(batch)))
	}
	return ids, nil
}

// List returns paginated records without exposing repository types.
func (s *recordService) List(ctx context.Context, entityName string, limit, offset int) (*RecordListResult, error) {
	def, err := s.resolve(entityName)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}

	res, err := s.repo.List(ctx, def.Name, repository.PageQuery{Limit: limit, Offset: offset})
	if err != nil {
		return nil, err
	}
	return &RecordListResult{Items: res.Items, Total: res.Total}, nil
}

func (s *recordService) Get(ctx context.Context, entityName, id string) (*model.StoredRecord, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	def, err := s.resolve(entityName)
	if err != nil {
		return nil, err
	}
	rec, err := s.repo.FindByID(ctx, def.Name, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return rec, nil
}

func (s *recordService) Delete(ctx context.Context, entityName, id string) error {
	if id == "" {
		return ErrIDRequired
	}
	def, err := s.resolve(entityName)
	if err != nil {
		return err
	}
	if _, err := s.repo.FindByID(ctx, def.Name, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	return s.repo.Delete(ctx, def.Name, id)
}

func (s *recordService) resolve(entityName string) (*schema.Definition, error) {
	def, err := s.validator.Registry().Lookup(entityName)
	if err != nil {
		return nil, apperror.Newf(apperror.KindUnknownEntity, "unknown entity %q", strings.TrimSpace(entityName)).WithCause(err)
	}
	return def, nil
}

// persistenceError logs the storage failure in full and returns a message safe to show callers.
func (s *recordService) persistenceError(op, entity string, err error, fields ...zap.Field) error {
	s.log.Error("record_persist_failed",
		append([]zap.Field{
			zap.String("operation", op),
			zap.String("entity", entity),
			zap.Error(err),
		}, fields...)...,
	)
	msg := fmt.Sprintf("could not save %s record", entity)
	if errors.Is(err, repository.ErrDuplicate) {
		msg = fmt.Sprintf("%s record conflicts with an existing record", entity)
	}
	return apperror.New(apperror.KindPersistence, msg).WithCause(err)
}
