// Package timeframe turns operator-supplied start/end values into the epoch
// millisecond window the metrics endpoint expects.
package timeframe

import (
	"fmt"
	"time"
)

// Window is a fixed [StartAt, EndAt] export range in epoch milliseconds.
type Window struct {
	StartAt int64
	EndAt   int64
}

// Validate rejects windows that cannot select any data.
func (w Window) Validate() error {
	if w.StartAt < 0 || w.EndAt < 0 {
		return fmt.Errorf("window bounds must not be negative")
	}
	if w.StartAt >= w.EndAt {
		return fmt.Errorf("window start %d is not before end %d", w.StartAt, w.EndAt)
	}
	return nil
}

// TimeProvider abstracts "now" so default windows are testable.
type TimeProvider interface {
	Now(loc *time.Location) time.Time
}

// DefaultTimeProvider uses the wall clock.
type DefaultTimeProvider struct{}

func (DefaultTimeProvider) Now(loc *time.Location) time.Time {
	return time.Now().In(loc)
}
