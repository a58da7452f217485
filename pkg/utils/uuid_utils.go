package utils

import "github.com/google/uuid"

var newUUIDv7 = uuid.NewV7

// GenerateUUIDv7 returns a time-ordered id, or a random v4 id if the v7
// generator fails.
func GenerateUUIDv7() uuid.UUID {
	if id, err := newUUIDv7(); err == nil {
		return id
	}
	return uuid.New()
}
