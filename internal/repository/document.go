package repository

import (
	"context"
	"errors"

	"travelapi/internal/model"
)

// Storage-level errors. Implementations translate driver errors into these
// so callers never depend on sql.ErrNoRows or driver error codes.
var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("record already exists")
)

// DocumentRepository persists schemaless records grouped by entity.
// No validation here, strictly persistence operations.
type DocumentRepository interface {
	// Insert stores one record. rec must carry its identifier under model.IDField.
	// Returns the stored record as read back from the database.
	Insert(ctx context.Context, entity string, rec model.Record) (*model.StoredRecord, error)

	// InsertMany stores all records with a single statement and returns the
	// identifiers in the order the database reports them. Either every record
	// is stored or none is.
	InsertMany(ctx context.Context, entity string, recs []model.Record) ([]string, error)

	// ExistsBy reports whether a record of entity has field equal to value.
	ExistsBy(ctx context.Context, entity, field string, value any) (bool, error)

	// FindByID returns a record by its identifier.
	FindByID(ctx context.Context, entity, id string) (*model.StoredRecord, error)

	// List returns a paginated list of records and the total count for entity.
	List(ctx context.Context, entity string, pq PageQuery) (*PageResult[model.StoredRecord], error)

	// Delete removes a record by ID. It returns nil if the row was deleted or did not exist.
	Delete(ctx context.Context, entity, id string) error
}

// PageQuery holds limit/offset pagination parameters.
type PageQuery struct {
	Limit  int
	Offset int
}

// PageResult is a generic pagination result wrapper.
// T is typically a model type.
type PageResult[T any] struct {
	Items []T
	Total int
}
