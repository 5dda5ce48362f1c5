// Package uid generates opaque string identifiers.
package uid

import "github.com/google/uuid"

// UUID generates time-ordered (v7) UUID strings used as token ids and
// correlation ids.
type UUID struct{}

// NewUUID returns a UUID generator.
func NewUUID() *UUID {
	return &UUID{}
}

// Generate returns a new v7 UUID string, or a random v4 if the v7 clock
// sequence cannot be read.
func (*UUID) Generate() string {
	if id, err := uuid.NewV7(); err == nil {
		return id.String()
	}
	return uuid.NewString()
}

// Valid reports whether s parses as a UUID of any version.
func Valid(s string) bool {
	return uuid.Validate(s) == nil
}
