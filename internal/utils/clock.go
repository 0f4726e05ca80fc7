package utils

import "time"

// Clock is the time source for every timestamp written into a plan.
type Clock interface {
	Now() time.Time
}

// SystemClock reports wall-clock time in UTC, so persisted timestamps are stable across hosts.
type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}

type MockClock struct {
	FixedNow time.Time
}

func (m *MockClock) Now() time.Time {
	return m.FixedNow
}

func (m *MockClock) SetNow(now time.Time) {
	m.FixedNow = now
}

// Advance moves the mock clock forward by d.
func (m *MockClock) Advance(d time.Duration) {
	m.FixedNow = m.FixedNow.Add(d)
}
