// Package stats feeds address-lookup outcomes to an analytics sink.
// Recording is best effort: resolution never waits on, or fails
// because of, the sink.
package stats

import (
	"context"
	"time"
)

// Event describes the outcome of a single address lookup.
type Event struct {
	Outcome  string // resolved, not_found, rate_limited, error
	CacheHit bool
	Address  string // normalized address; recorded only when address tracking is on
	At       time.Time
}

// Recorder receives lookup events. Implementations must be safe for
// concurrent use.
type Recorder interface {
	Record(ctx context.Context, ev Event) error
}

// Noop discards every event. It is the default sink when stats are
// disabled.
type Noop struct{}

// Record implements Recorder.
func (Noop) Record(context.Context, Event) error { return nil }
