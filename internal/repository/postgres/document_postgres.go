package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"travelapi/internal/model"
	"travelapi/internal/repository"
)

// pgUniqueViolation is the SQLSTATE for unique_violation.
const pgUniqueViolation = "23505"

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// DocumentPostgres is a PostgreSQL implementation of repository.DocumentRepository.
// Records live as JSONB in a single documents table keyed by (entity, id).
type DocumentPostgres struct {
	db  querier
	now func() time.Time
}

// NewDocumentPostgres creates a new DocumentPostgres repository.
func NewDocumentPostgres(db *sql.DB) *DocumentPostgres {
	return newDocumentPostgres(db)
}

func newDocumentPostgres(db querier) *DocumentPostgres {
	return &DocumentPostgres{db: db, now: func() time.Time { return time.Now().UTC() }}
}

var _ repository.DocumentRepository = (*DocumentPostgres)(nil)

// Insert stores one record and returns it as stored.
func (r *DocumentPostgres) Insert(ctx context.Context, entity string, rec model.Record) (*model.StoredRecord, error) {
	id := rec.ID()
	if id == "" {
		return nil, fmt.Errorf("insert %s: missing %s", entity, model.IDField)
	}
	data, err := json.Marshal(rec.Without(model.IDField))
	if err != nil {
		return nil, fmt.Errorf("encode %s record: %w", entity, err)
	}

	const q = `
		INSERT INTO documents (id, entity, data, created_at)
		VALUES ($1, $2, $3::jsonb, $4)
		RETURNING id, entity, data, created_at
	`
	row := r.db.QueryRowContext(ctx, q, id, entity, string(data), r.now())
	out, err := scanRecord(row)
	if err != nil {
		return nil, translate(err)
	}
	return out, nil
}

// InsertMany stores all records with one multi-row INSERT.
func (r *DocumentPostgres) InsertMany(ctx context.Context, entity string, recs []model.Record) ([]string, error) {
	if len(recs) == 0 {
		return []string{}, nil
	}

	now := r.now()
	var sb strings.Builder
	sb.WriteString("INSERT INTO documents (id, entity, data, created_at) VALUES ")
	args := make([]any, 0, len(recs)*4)
	for i, rec := range recs {
		id := rec.ID()
		if id == "" {
			return nil, fmt.Errorf("insert %s[%d]: missing %s", entity, i, model.IDField)
		}
		data, err := json.Marshal(rec.Without(model.IDField))
		if err != nil {
			return nil, fmt.Errorf("encode %s[%d]: %w", entity, i, err)
		}
		if i > 0 {
			sb.WriteString(", ")
		}
		n := len(args)
		fmt.Fprintf(&sb, "($%d, $%d, $%d::jsonb, $%d)", n+1, n+2, n+3, n+4)
		args = append(args, id, entity, string(data), now)
	}
	sb.WriteString(" RETURNING id")

	rows, err := r.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, translate(err)
	}
	defer rows.Close()

	ids := make([]string, 0, len(recs))
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, translate(err)
	}
	return ids, nil
}

// ExistsBy compares the text form of a top-level JSON field.
func (r *DocumentPostgres) ExistsBy(ctx context.Context, entity, field string, value any) (bool, error) {
	const q = `SELECT EXISTS (SELECT 1 FROM documents WHERE entity = $1 AND data->>$2 = $3)`
	var exists bool
	if err := r.db.QueryRowContext(ctx, q, entity, field, fmt.Sprint(value)).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// FindByID fetches a single record by its ID.
func (r *DocumentPostgres) FindByID(ctx context.Context, entity, id string) (*model.StoredRecord, error) {
	const q = `
		SELECT id, entity, data, created_at
		FROM documents
		WHERE entity = $1 AND id = $2
	`
	out, err := scanRecord(r.db.QueryRowContext(ctx, q, entity, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return out, nil
}

// List returns records using LIMIT/OFFSET pagination and a total count.
func (r *DocumentPostgres) List(ctx context.Context, entity string, pq repository.PageQuery) (*repository.PageResult[model.StoredRecord], error) {
	const qCount = `SELECT COUNT(*) FROM documents WHERE entity = $1`
	var total int
	if err := r.db.QueryRowContext(ctx, qCount, entity).Scan(&total); err != nil {
		return nil, err
	}

	const qList = `
		SELECT id, entity, data, created_at
		FROM documents
		WHERE entity = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.QueryContext(ctx, qList, entity, pq.Limit, pq.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.StoredRecord, 0)
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &repository.PageResult[model.StoredRecord]{
		Items: items,
		Total: total,
	}, nil
}

// Delete removes a record by ID. It does not return an error if the row does not exist.
func (r *DocumentPostgres) Delete(ctx context.Context, entity, id string) error {
	const q = `DELETE FROM documents WHERE entity = $1 AND id = $2`
	_, err := r.db.ExecContext(ctx, q, entity, id)
	return err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(s scanner) (*model.StoredRecord, error) {
	var (
		out model.StoredRecord
		raw []byte
	)
	if err := s.Scan(&out.ID, &out.Entity, &raw, &out.CreatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(raw, &out.Data); err != nil {
		return nil, fmt.Errorf("decode %s %s: %w", out.Entity, out.ID, err)
	}
	return &out, nil
}

// translate maps driver errors onto repository errors, keeping the original in the chain.
func translate(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return fmt.Errorf("%w: %s", repository.ErrDuplicate, pgErr.ConstraintName)
	}
	return err
}
