package mail

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidAddress(t *testing.T) {
	valid := []string{"a@example.com", "first.last@sub.example.org", " spaced@example.com "}
	for _, a := range valid {
		assert.True(t, ValidAddress(a), a)
	}
	invalid := []string{"", "   ", "invalid-email", "no-at.example.com", "@example.com"}
	for _, a := range invalid {
		assert.False(t, ValidAddress(a), a)
	}
}
