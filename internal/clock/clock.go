// Package clock supplies the current date for the "today" shortcut.
package clock

import (
	"time"

	"github.com/danieljhkim/dateplan/internal/plan"
)

// Clock provides an abstraction for time operations to enable deterministic testing.
type Clock interface {
	// Now returns the current time.
	Now() time.Time
}

// RealClock implements Clock using the local system time.
type RealClock struct{}

// Now returns the current system time.
func (c *RealClock) Now() time.Time {
	return time.Now()
}

// FakeClock implements Clock with a fixed time for testing.
type FakeClock struct {
	current time.Time
}

// NewFakeClock creates a new FakeClock with the given time.
func NewFakeClock(t time.Time) *FakeClock {
	return &FakeClock{current: t}
}

// Now returns the fixed time.
func (c *FakeClock) Now() time.Time {
	return c.current
}

// AdvanceDays moves the fixed time by n calendar days.
func (c *FakeClock) AdvanceDays(n int) {
	c.current = c.current.AddDate(0, 0, n)
}

// Today returns the plan date of c's current local time.
func Today(c Clock) plan.Date {
	return plan.DateOf(c.Now())
}
