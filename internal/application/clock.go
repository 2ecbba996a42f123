package application

import "time"

// Clock interface so services are testable against fixed times.
type Clock interface {
	Now() time.Time
}

// SystemClock is the default implementation, backed by time.Now in UTC.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now().UTC() }
