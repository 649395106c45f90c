package identity

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthenticateRoundTrip(t *testing.T) {
	p := NewJWTProvider("top-secret", "awardly")
	token, err := p.Issue("host@example.com", time.Minute)
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/auth/lobbies", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	principal, err := p.Authenticate(req)
	require.NoError(t, err)
	assert.Equal(t, "host@example.com", principal)
}

func TestAuthenticateRejects(t *testing.T) {
	p := NewJWTProvider("top-secret", "awardly")

	req := httptest.NewRequest("GET", "/", nil)
	_, err := p.Authenticate(req)
	assert.ErrorIs(t, err, ErrNoCredentials)

	expired, err := p.Issue("host", -time.Minute)
	require.NoError(t, err)
	_, err = p.Verify(expired)
	assert.ErrorIs(t, err, ErrInvalidToken)

	foreign, err := NewJWTProvider("other-secret", "awardly").Issue("host", time.Minute)
	require.NoError(t, err)
	_, err = p.Verify(foreign)
	assert.ErrorIs(t, err, ErrInvalidToken)

	wrongIssuer, err := NewJWTProvider("top-secret", "someone-else").Issue("host", time.Minute)
	require.NoError(t, err)
	_, err = p.Verify(wrongIssuer)
	assert.ErrorIs(t, err, ErrInvalidToken)

	noSubject, err := p.Issue("", time.Minute)
	require.NoError(t, err)
	_, err = p.Verify(noSubject)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
