package repository

import "context"

// AnalyticsRepository stores named integer counters in a single document per id.
type AnalyticsRepository interface {
	// EnsureCounters creates the counters document if it does not exist yet.
	EnsureCounters(ctx context.Context, id string) error
	// Increment adds each delta (negative to decrement) to its named counter.
	// Counters missing from the document start at zero.
	Increment(ctx context.Context, id string, deltas map[string]int64) error
	// Counters returns the current counter values.
	Counters(ctx context.Context, id string) (map[string]int64, error)
}

// Repositories groups the stores bound to one unit of work.
type Repositories struct {
	Documents DocumentRepository
	Analytics AnalyticsRepository
}

// Transactor runs fn with repositories bound to a single transaction.
// The transaction commits when fn returns nil and rolls back otherwise.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, repos Repositories) error) error
}
