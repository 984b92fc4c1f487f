package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndParseRoundTrip(t *testing.T) {
	t.Parallel()

	j := &JWTer{Secret: []byte("test-secret"), Issuer: "membership-hub", TTL: time.Hour}
	tok, err := j.Issue("uid-1", "admin")
	require.NoError(t, err)
	require.NotEmpty(t, tok)

	claims, err := j.Parse(tok)
	require.NoError(t, err)
	assert.Equal(t, "uid-1", claims.UID)
	assert.Equal(t, "admin", claims.Role)
}

func TestParseRejectsForeignIssuer(t *testing.T) {
	t.Parallel()

	issuer := &JWTer{Secret: []byte("test-secret"), Issuer: "someone-else", TTL: time.Hour}
	tok, err := issuer.Issue("uid-1", "member")
	require.NoError(t, err)

	j := &JWTer{Secret: []byte("test-secret"), Issuer: "membership-hub", TTL: time.Hour}
	_, err = j.Parse(tok)
	assert.Error(t, err)
}

func TestParseRejectsWrongSecret(t *testing.T) {
	t.Parallel()

	issuer := &JWTer{Secret: []byte("other-secret"), Issuer: "membership-hub", TTL: time.Hour}
	tok, err := issuer.Issue("uid-1", "member")
	require.NoError(t, err)

	j := &JWTer{Secret: []byte("test-secret"), Issuer: "membership-hub", TTL: time.Hour}
	_, err = j.Parse(tok)
	assert.Error(t, err)
}
