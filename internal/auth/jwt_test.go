package auth_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/breatheroute/valhalla/internal/auth"
)

func newService(key, issuer, audience string) *auth.JWTService {
	return auth.NewJWTService(auth.JWTConfig{
		SigningKey: key,
		Issuer:     issuer,
		Audience:   audience,
	})
}

func TestJWTService_IssueAndValidate(t *testing.T) {
	svc := newService("test-secret-key-for-testing-only", "https://routing.example.org", "valhalla-gateway")

	token, expiresAt, err := svc.Issue("fleet-planner", 0, "route", "matrix")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(auth.DefaultTokenExpiry), expiresAt, 5*time.Second)

	claims, err := svc.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "fleet-planner", claims.Subject)
	assert.Equal(t, "https://routing.example.org", claims.Issuer)
	assert.True(t, claims.Allows("route"))
	assert.False(t, claims.Allows("elevation"))
}

func TestJWTService_NoScopesAllowsEverything(t *testing.T) {
	svc := newService("k", "iss", "aud")

	token, _, err := svc.Issue("ops", time.Minute)
	require.NoError(t, err)

	claims, err := svc.Validate(token)
	require.NoError(t, err)
	assert.True(t, claims.Allows("status"))
}

func TestJWTService_MissingSubject(t *testing.T) {
	_, _, err := newService("k", "iss", "aud").Issue("", time.Minute)
	assert.ErrorIs(t, err, auth.ErrMissingSubject)
}

func TestJWTService_Expired(t *testing.T) {
	svc := newService("k", "iss", "aud")

	token, _, err := svc.Issue("ops", -time.Minute)
	require.NoError(t, err)

	_, err = svc.Validate(token)
	assert.ErrorIs(t, err, auth.ErrAccessTokenExpired)
}

func TestJWTService_InvalidToken(t *testing.T) {
	svc := newService("test-secret-key-for-testing-only", "iss", "aud")

	tests := []struct {
		name  string
		token string
	}{
		{"empty token", ""},
		{"malformed token", "not.a.valid.jwt"},
		{"invalid base64", "xxx.yyy.zzz"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Validate(tt.token)
			assert.ErrorIs(t, err, auth.ErrInvalidAccessToken)
		})
	}
}

func TestJWTService_Mismatch(t *testing.T) {
	issuer := newService("key-one", "iss", "aud")
	token, _, err := issuer.Issue("ops", time.Minute)
	require.NoError(t, err)

	tests := []struct {
		name     string
		verifier *auth.JWTService
	}{
		{"wrong signing key", newService("key-two", "iss", "aud")},
		{"wrong issuer", newService("key-one", "other-iss", "aud")},
		{"wrong audience", newService("key-one", "iss", "other-aud")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.verifier.Validate(token)
			assert.ErrorIs(t, err, auth.ErrInvalidAccessToken)
		})
	}
}
