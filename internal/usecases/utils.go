package usecases

import (
	"strings"

	"github.com/google/uuid"
)

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// parseID parses a well-formed record reference. ok is false for anything
// that is not a UUID.
func parseID(raw string) (uuid.UUID, bool) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil || id == uuid.Nil {
		return uuid.Nil, false
	}
	return id, true
}
