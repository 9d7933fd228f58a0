package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"travelapi/internal/repository"
)

func TestTxManager_WithinTx(t *testing.T) {
	ctx := context.Background()

	t.Run("commits when fn succeeds", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectExec("INSERT INTO analytics_counters").
			WithArgs(countersID).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err = NewTxManager(db).WithinTx(ctx, func(ctx context.Context, repos repository.Repositories) error {
			require.NotNil(t, repos.Documents)
			return repos.Analytics.EnsureCounters(ctx, countersID)
		})

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rolls back when fn fails", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		boom := errors.New("boom")
		mock.ExpectBegin()
		mock.ExpectRollback()

		err = NewTxManager(db).WithinTx(ctx, func(ctx context.Context, repos repository.Repositories) error {
			return boom
		})

		assert.ErrorIs(t, err, boom)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("begin failure", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin().WillReturnError(errors.New("no connections"))

		called := false
		err = NewTxManager(db).WithinTx(ctx, func(ctx context.Context, repos repository.Repositories) error {
			called = true
			return nil
		})

		assert.ErrorContains(t, err, "begin tx")
		assert.False(t, called)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("commit failure", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectCommit().WillReturnError(errors.New("serialization failure"))

		err = NewTxManager(db).WithinTx(ctx, func(ctx context.Context, repos repository.Repositories) error {
			return nil
		})

		assert.ErrorContains(t, err, "commit tx")
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
