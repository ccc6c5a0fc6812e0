package google

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdentityFromClaims(t *testing.T) {
	t.Parallel()

	id := IdentityFromClaims("sub-1", map[string]any{
		"email":          "ann@example.com",
		"email_verified": true,
		"name":           "Ann",
		"picture":        "https://example.com/a.png",
		"unrelated":      42,
	})

	assert.Equal(t, "sub-1", id.Subject)
	assert.Equal(t, "ann@example.com", id.Email)
	assert.True(t, id.EmailVerified)
	assert.Equal(t, "Ann", id.Name)
	assert.Equal(t, "https://example.com/a.png", id.Picture)
}

func TestIdentityFromClaims_WrongTypes(t *testing.T) {
	t.Parallel()

	id := IdentityFromClaims("sub-2", map[string]any{"email": 7, "email_verified": "yes"})
	assert.Empty(t, id.Email)
	assert.False(t, id.EmailVerified)
}

func TestDisabled(t *testing.T) {
	t.Parallel()

	id, err := Disabled{}.Verify(context.Background(), "anything")
	require.Error(t, err)
	assert.Nil(t, id)
	assert.True(t, errors.Is(err, ErrNotConfigured))
}

func TestIDTokenVerifier_EmptyToken(t *testing.T) {
	t.Parallel()

	v := &IDTokenVerifier{ClientID: "client"}
	_, err := v.Verify(context.Background(), "")
	assert.ErrorIs(t, err, ErrInvalidIDToken)
}
