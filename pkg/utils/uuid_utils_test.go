package utils

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestGenerateUUIDv7(t *testing.T) {
	a := GenerateUUIDv7()
	b := GenerateUUIDv7()
	assert.Equal(t, uuid.Version(7), a.Version())
	assert.NotEqual(t, a, b)
	assert.Less(t, a.String(), b.String())
}

func TestGenerateUUIDv7_FallsBackToV4(t *testing.T) {
	orig := newUUIDv7
	t.Cleanup(func() { newUUIDv7 = orig })
	newUUIDv7 = func() (uuid.UUID, error) { return uuid.Nil, errors.New("clock unavailable") }

	id := GenerateUUIDv7()
	assert.NotEqual(t, uuid.Nil, id)
	assert.Equal(t, uuid.Version(4), id.Version())
}
