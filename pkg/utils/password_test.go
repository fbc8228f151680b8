package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHashAndCheckPassword(t *testing.T) {
	h := HashPassword("adminpass")
	assert.NotEmpty(t, h)
	assert.NotEqual(t, "adminpass", h)

	assert.True(t, CheckPassword("adminpass", h))
	assert.False(t, CheckPassword("wrong", h))
	assert.False(t, CheckPassword("adminpass", "not-a-hash"))
}

func TestNewID(t *testing.T) {
	a, b := NewID(), NewID()
	assert.Len(t, a, 32)
	assert.NotEqual(t, a, b)
	assert.NotContains(t, a, "-")
}
