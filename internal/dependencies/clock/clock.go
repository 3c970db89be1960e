package clock

import "time"

// Clock supplies ingestion and transition timestamps so tests can pin them
type Clock interface {
	Now() time.Time
}

// System reads the wall clock. Times are UTC at millisecond precision,
// the finest resolution every storage backend keeps.
type System struct{}

// New returns the system clock
func New() System {
	return System{}
}

// Now returns the current time
func (System) Now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}
