package security

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArgonRoundTrip(t *testing.T) {
	a := New()

	encoded, err := a.GenerateFromPassword("correct horse battery staple")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(encoded, "$argon2id$v=19$"))

	ok, err := a.VerifyPasswd("correct horse battery staple", encoded)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = a.VerifyPasswd("wrong password", encoded)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestArgonRejectsMalformedHash(t *testing.T) {
	a := New()

	_, err := a.VerifyPasswd("anything", "not-a-phc-string")
	assert.Error(t, err)
}

func TestMakeResetToken(t *testing.T) {
	reset, err := MakeResetToken("user_1", time.Hour)
	require.NoError(t, err)

	assert.Equal(t, "user_1", reset.UserID)
	assert.NotEmpty(t, reset.Token)
	assert.False(t, reset.Used)
	assert.WithinDuration(t, time.Now().Add(time.Hour), reset.ExpiresAt, time.Minute)

	other, err := MakeResetToken("user_1", time.Hour)
	require.NoError(t, err)
	assert.NotEqual(t, reset.Token, other.Token)
}
