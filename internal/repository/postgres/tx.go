package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"travelapi/internal/repository"
)

// TxManager implements repository.Transactor on top of database/sql.
type TxManager struct {
	db *sql.DB
}

// NewTxManager creates a TxManager.
func NewTxManager(db *sql.DB) *TxManager {
	return &TxManager{db: db}
}

var _ repository.Transactor = (*TxManager)(nil)

// WithinTx begins a transaction, hands fn repositories bound to it, and
// commits on success. Any error from fn (or a panic) rolls the transaction back.
func (m *TxManager) WithinTx(ctx context.Context, fn func(ctx context.Context, repos repository.Repositories) error) (err error) {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	repos := repository.Repositories{
		Documents: newDocumentPostgres(tx),
		Analytics: &AnalyticsPostgres{db: tx},
	}
	if err := fn(ctx, repos); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			return fmt.Errorf("%w; rollback failed: %v", err, rbErr)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}
