package postgres

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"

	"travelapi/internal/repository"
)

const countersID = "00000000-0000-4000-8000-00000000aaaa"

func TestAnalyticsPostgres_EnsureCounters(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewAnalyticsPostgres(db)

	mock.ExpectExec(`INSERT INTO analytics_counters (.+) ON CONFLICT \(id\) DO NOTHING`).
		WithArgs(countersID).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err = repo.EnsureCounters(context.Background(), countersID)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAnalyticsPostgres_Increment(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewAnalyticsPostgres(db)
	ctx := context.Background()

	t.Run("one update per counter in name order", func(t *testing.T) {
		mock.ExpectExec("UPDATE analytics_counters").
			WithArgs(countersID, "signupAttempts", int64(1)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("UPDATE analytics_counters").
			WithArgs(countersID, "visitors", int64(1)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.Increment(ctx, countersID, map[string]int64{"visitors": 1, "signupAttempts": 1})

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing document", func(t *testing.T) {
		mock.ExpectExec("UPDATE analytics_counters").
			WithArgs(countersID, "users", int64(1)).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.Increment(ctx, countersID, map[string]int64{"users": 1})

		assert.ErrorIs(t, err, repository.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestAnalyticsPostgres_Counters(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewAnalyticsPostgres(db)
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		mock.ExpectQuery("SELECT counters FROM analytics_counters").
			WithArgs(countersID).
			WillReturnRows(sqlmock.NewRows([]string{"counters"}).
				AddRow([]byte(`{"visitors":4,"signups":2}`)))

		got, err := repo.Counters(ctx, countersID)

		assert.NoError(t, err)
		assert.Equal(t, map[string]int64{"visitors": 4, "signups": 2}, got)
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery("SELECT counters FROM analytics_counters").
			WithArgs(countersID).
			WillReturnRows(sqlmock.NewRows([]string{"counters"}))

		got, err := repo.Counters(ctx, countersID)

		assert.ErrorIs(t, err, repository.ErrNotFound)
		assert.Nil(t, got)
	})
}
