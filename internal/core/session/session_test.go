package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndParse(t *testing.T) {
	m := NewManager("test-secret", "educall", "", time.Hour)

	tok, err := m.Issue("uid-1", "agent")
	require.NoError(t, err)
	require.NotEmpty(t, tok)

	claims, err := m.Parse(tok)
	require.NoError(t, err)
	assert.Equal(t, "uid-1", claims.UID)
	assert.Equal(t, "agent", claims.Role)
}

func TestParseRejectsWrongSecret(t *testing.T) {
	m := NewManager("secret-a", "educall", "", time.Hour)
	tok, err := m.Issue("uid-1", "admin")
	require.NoError(t, err)

	other := NewManager("secret-b", "educall", "", time.Hour)
	_, err = other.Parse(tok)
	assert.Error(t, err)
}

func TestParseRejectsWrongIssuer(t *testing.T) {
	m := NewManager("secret", "educall", "", time.Hour)
	tok, err := m.Issue("uid-1", "admin")
	require.NoError(t, err)

	other := NewManager("secret", "elsewhere", "", time.Hour)
	_, err = other.Parse(tok)
	assert.Error(t, err)
}

func TestDefaultCookieName(t *testing.T) {
	m := NewManager("secret", "educall", "", time.Hour)
	assert.Equal(t, "educall_session", m.CookieName)
}
