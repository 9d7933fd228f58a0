// Package analytics keeps the signup funnel counters.
package analytics

import (
	"context"
	"fmt"
	"sort"

	"github.com/prometheus/client_golang/prometheus"

	"travelapi/internal/repository"
)

// Counter names stored in the analytics document.
const (
	Visitors       = "visitors"
	SignupAttempts = "signupAttempts"
	Users          = "users"
	Signups        = "signups"
)

// Recorder writes counter deltas to the analytics document and mirrors them
// into a Prometheus counter once the caller's transaction has committed.
type Recorder struct {
	id       string
	counters *prometheus.CounterVec
}

// NewRecorder creates a Recorder for the counters document id and registers
// its Prometheus collector with reg.
func NewRecorder(id string, reg prometheus.Registerer) (*Recorder, error) {
	r := &Recorder{
		id: id,
		counters: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "analytics_events_total",
				Help: "Signup funnel events recorded in the analytics document.",
			},
			[]string{"counter"},
		),
	}
	if err := reg.Register(r.counters); err != nil {
		return nil, err
	}
	return r, nil
}

// ID returns the counters document id.
func (r *Recorder) ID() string { return r.id }

// Ensure creates the counters document if needed.
func (r *Recorder) Ensure(ctx context.Context, repo repository.AnalyticsRepository) error {
	if err := repo.EnsureCounters(ctx, r.id); err != nil {
		return fmt.Errorf("ensure counters %s: %w", r.id, err)
	}
	return nil
}

// Increment adds deltas to the stored counters through repo.
func (r *Recorder) Increment(ctx context.Context, repo repository.AnalyticsRepository, deltas map[string]int64) error {
	if len(deltas) == 0 {
		return nil
	}
	if err := repo.Increment(ctx, r.id, deltas); err != nil {
		return fmt.Errorf("increment counters: %w", err)
	}
	return nil
}

// Observe mirrors committed deltas into Prometheus. Negative deltas are skipped
// because Prometheus counters only go up.
func (r *Recorder) Observe(deltas ...map[string]int64) {
	for _, d := range deltas {
		for _, name := range sortedNames(d) {
			if v := d[name]; v > 0 {
				r.counters.WithLabelValues(name).Add(float64(v))
			}
		}
	}
}

// Snapshot returns the stored counter values.
func (r *Recorder) Snapshot(ctx context.Context, repo repository.AnalyticsRepository) (map[string]int64, error) {
	return repo.Counters(ctx, r.id)
}

func sortedNames(m map[string]int64) []string {
	names := make([]string, 0, len(m))
	for k := range m {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
