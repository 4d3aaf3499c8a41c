package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestJWTer(ttl time.Duration) *JWTer {
	return &JWTer{Secret: []byte("test-secret-0123456789"), Issuer: "theend-test", TTL: ttl}
}

func TestIssueAndParse(t *testing.T) {
	j := newTestJWTer(time.Hour)

	tok, err := j.Issue("user-1", "user")
	require.NoError(t, err)
	require.NotEmpty(t, tok)

	claims, err := j.Parse(tok)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UID)
	assert.Equal(t, "user-1", claims.Subject)
	assert.Equal(t, "user", claims.Role)
	assert.Equal(t, "theend-test", claims.Issuer)
}

func TestParseRejectsWrongSecret(t *testing.T) {
	j := newTestJWTer(time.Hour)
	tok, err := j.Issue("user-1", "user")
	require.NoError(t, err)

	other := &JWTer{Secret: []byte("another-secret"), Issuer: "theend-test", TTL: time.Hour}
	_, err = other.Parse(tok)
	assert.Error(t, err)
}

func TestParseRejectsExpired(t *testing.T) {
	// leeway 60s，过期要够久
	j := newTestJWTer(-5 * time.Minute)
	tok, err := j.Issue("user-1", "user")
	require.NoError(t, err)

	_, err = j.Parse(tok)
	assert.Error(t, err)
}

func TestParseRejectsTampered(t *testing.T) {
	j := newTestJWTer(time.Hour)
	tok, err := j.Issue("user-1", "user")
	require.NoError(t, err)

	_, err = j.Parse(tok + "x")
	assert.Error(t, err)
	_, err = j.Parse("not-a-token")
	assert.Error(t, err)
}

func TestParseRejectsWrongIssuer(t *testing.T) {
	other := &JWTer{Secret: []byte("test-secret-0123456789"), Issuer: "someone-else", TTL: time.Hour}
	tok, err := other.Issue("user-1", "user")
	require.NoError(t, err)

	j := newTestJWTer(time.Hour)
	_, err = j.Parse(tok)
	assert.Error(t, err)
}

func TestDefaultTTLIsOneHour(t *testing.T) {
	j := newTestJWTer(0) // 未配置时固定 1h
	tok, err := j.Issue("user-1", "user")
	require.NoError(t, err)

	claims, err := j.Parse(tok)
	require.NoError(t, err)
	ttl := claims.ExpiresAt.Sub(claims.IssuedAt.Time)
	assert.Equal(t, time.Hour, ttl)
}
