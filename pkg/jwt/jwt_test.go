package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenAndParseToken(t *testing.T) {
	token, err := GenToken(BuildClaims(time.Now().Add(time.Hour), "desk-1", "tradeflow"), "secret")
	require.NoError(t, err)

	claims, err := ParseToken(token, "secret")
	require.NoError(t, err)
	assert.Equal(t, "desk-1", claims.Subject)
	assert.Equal(t, "tradeflow", claims.Issuer)

	_, err = ParseToken(token, "other")
	assert.Error(t, err)
}

func TestParseToken_Expired(t *testing.T) {
	token, err := GenToken(BuildClaims(time.Now().Add(-time.Minute), "desk-1", "tradeflow"), "secret")
	require.NoError(t, err)

	_, err = ParseToken(token, "secret")
	assert.Error(t, err)
}
