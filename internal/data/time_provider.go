package data

import "time"

// TimeProvider supplies the timestamps repositories write.
// testutil.Clock satisfies it for tests that need deterministic ordering.
type TimeProvider interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }
