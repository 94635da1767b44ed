package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserTokenRoundTrip(t *testing.T) {
	ti := NewTokenIssuer("secret", time.Hour, time.Hour)
	rid := uint(7)

	token, err := ti.GenerateUserToken(3, "manager", &rid)
	require.NoError(t, err)

	claims, err := ti.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(3), claims.UserID)
	assert.Equal(t, "manager", claims.Role)
	assert.Equal(t, TokenTypeUser, claims.Type)
	require.NotNil(t, claims.RestaurantID)
	assert.Equal(t, rid, *claims.RestaurantID)
}

func TestCustomerTokenExpires(t *testing.T) {
	ti := NewTokenIssuer("secret", time.Hour, time.Minute)
	ti.now = func() time.Time { return time.Now().Add(-2 * time.Minute) }

	token, err := ti.GenerateCustomerToken(9)
	require.NoError(t, err)

	_, err = ti.ParseToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseTokenRejectsOtherSecret(t *testing.T) {
	token, err := NewTokenIssuer("a", time.Hour, time.Hour).GenerateCustomerToken(1)
	require.NoError(t, err)

	_, err = NewTokenIssuer("b", time.Hour, time.Hour).ParseToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
