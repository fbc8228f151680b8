package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"educall-server/internal/domain"
)

func TestRegisterAndAuthenticate(t *testing.T) {
	db := newTestDB(t)
	svc := NewAccounts(db)

	u, err := svc.Register("alice", "secret123", "secret123")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAgent, u.Role)
	assert.NotEqual(t, "secret123", u.PasswordHash)

	got, err := svc.Authenticate("alice", "secret123")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = svc.Authenticate("alice", "wrongpass")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Authenticate("nobody", "secret123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRegisterPasswordMismatch(t *testing.T) {
	db := newTestDB(t)
	svc := NewAccounts(db)

	_, err := svc.Register("bob", "secret123", "other")
	assert.ErrorIs(t, err, ErrPasswordMismatch)
}

func TestRegisterDuplicateUsername(t *testing.T) {
	db := newTestDB(t)
	svc := NewAccounts(db)

	_, err := svc.Register("carol", "secret123", "secret123")
	require.NoError(t, err)

	_, err = svc.Register("carol", "another1", "another1")
	assert.ErrorIs(t, err, domain.ErrDuplicateUsername)
}

func TestCreateUserRoles(t *testing.T) {
	db := newTestDB(t)
	svc := NewAccounts(db)

	admin, err := svc.CreateUser("boss", "secret123", domain.RoleAdmin, "boss@example.com")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, admin.Role)
	assert.Equal(t, "boss@example.com", admin.Email)

	_, err = svc.CreateUser("weird", "secret123", "superuser", "")
	assert.ErrorIs(t, err, domain.ErrInvalidRole)

	agents, err := svc.ListAgents()
	require.NoError(t, err)
	assert.Empty(t, agents)
}
