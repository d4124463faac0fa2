package types

import "github.com/google/uuid"

// NewID generates a UUID v7 for record identity. Falls back to UUID v4
// if v7 generation fails.
func NewID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}
