package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("super-secret-password")

	require.NoError(t, err)
	assert.NotEmpty(t, hash)
	assert.NotEqual(t, "super-secret-password", hash)
}

func TestHashPassword_TooShort(t *testing.T) {
	_, err := HashPassword("short")
	assert.ErrorIs(t, err, ErrPasswordTooShort)
}

func TestCheckPassword(t *testing.T) {
	hash, err := HashPassword("super-secret-password")
	require.NoError(t, err)

	assert.True(t, CheckPassword("super-secret-password", hash))
	assert.False(t, CheckPassword("wrong-password", hash))
	assert.False(t, CheckPassword("super-secret-password", "not-a-hash"))
}

func TestMemoryDirectory(t *testing.T) {
	dir := NewMemoryDirectory()
	ctx := context.Background()

	dir.Put(Staff{ID: "staff-1", Email: "Owner@Example.com", Role: RoleAdmin})

	// Lookup is case-insensitive on email.
	s, err := dir.GetByEmail(ctx, "owner@example.com")
	require.NoError(t, err)
	assert.Equal(t, "staff-1", s.ID)

	_, err = dir.GetByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, ErrStaffNotFound)
}

func TestStaffRole(t *testing.T) {
	assert.True(t, StaffRole(RoleStaff))
	assert.True(t, StaffRole(RoleAdmin))
	assert.False(t, StaffRole("customer"))
	assert.False(t, StaffRole(""))
}
