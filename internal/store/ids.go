package store

import (
	"time"

	"github.com/google/uuid"
)

// IDGenerator produces run IDs.
type IDGenerator interface {
	NewID() string
}

// UUIDGenerator produces UUIDv7 run IDs. They sort by creation time.
type UUIDGenerator struct{}

// NewID returns a fresh UUIDv7.
func (UUIDGenerator) NewID() string {
	return uuid.Must(uuid.NewV7()).String()
}

// Clock stamps runs.
type Clock interface {
	Now() time.Time
}

// SystemClock is the wall clock.
type SystemClock struct{}

// Now returns the current UTC time.
func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}
