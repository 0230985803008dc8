package clock

import "time"

// Clock abstracts wall-clock access so revenue bucketing stays deterministic
// in tests.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func NewSystemClock() Clock {
	return systemClock{}
}

func (systemClock) Now() time.Time {
	return time.Now().UTC()
}
