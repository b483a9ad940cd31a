package googleauth

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"pocaswap-api/internal/errs"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testKeyID    = "google-test-key"
	testClientID = "android-client.apps.googleusercontent.com"
)

func newTestKey(t *testing.T) *rsa.PrivateKey {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	return key
}

func setupJWKS(t *testing.T, key *rsa.PrivateKey) *httptest.Server {
	t.Helper()
	pub := key.PublicKey
	body, err := json.Marshal(map[string]any{
		"keys": []map[string]any{{
			"kty": "RSA",
			"alg": "RS256",
			"use": "sig",
			"kid": testKeyID,
			"n":   base64.RawURLEncoding.EncodeToString(pub.N.Bytes()),
			"e":   base64.RawURLEncoding.EncodeToString(big.NewInt(int64(pub.E)).Bytes()),
		}},
	})
	require.NoError(t, err)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(body)
	}))
	t.Cleanup(server.Close)
	return server
}

func sign(t *testing.T, key *rsa.PrivateKey, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	token.Header["kid"] = testKeyID
	s, err := token.SignedString(key)
	require.NoError(t, err)
	return s
}

func googleClaims() jwt.MapClaims {
	now := time.Now()
	return jwt.MapClaims{
		"iss":            "https://accounts.google.com",
		"aud":            testClientID,
		"sub":            "1098765432",
		"email":          "fan@example.com",
		"email_verified": true,
		"name":           "Photocard Fan",
		"picture":        "https://lh3.googleusercontent.com/a/pic",
		"iat":            now.Unix(),
		"exp":            now.Add(time.Hour).Unix(),
	}
}

func newTestVerifier(t *testing.T, key *rsa.PrivateKey) *Verifier {
	t.Helper()
	server := setupJWKS(t, key)
	v, err := NewVerifier(Config{JWKSURL: server.URL, ClientIDs: []string{"web-client", testClientID}}, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = v.Close() })
	return v
}

func TestVerifyValidToken(t *testing.T) {
	key := newTestKey(t)
	v := newTestVerifier(t, key)

	identity, err := v.Verify(context.Background(), sign(t, key, googleClaims()))
	require.NoError(t, err)
	assert.Equal(t, "1098765432", identity.Subject)
	assert.Equal(t, "fan@example.com", identity.Email)
	assert.True(t, identity.EmailVerified)
	assert.Equal(t, "Photocard Fan", identity.Name)
}

func TestVerifyAcceptsBareIssuerAndStringEmailVerified(t *testing.T) {
	key := newTestKey(t)
	v := newTestVerifier(t, key)

	claims := googleClaims()
	claims["iss"] = "accounts.google.com"
	claims["email_verified"] = "true"

	_, err := v.Verify(context.Background(), sign(t, key, claims))
	assert.NoError(t, err)
}

func TestVerifyRejects(t *testing.T) {
	key := newTestKey(t)
	v := newTestVerifier(t, key)
	otherKey := newTestKey(t)

	tests := []struct {
		name  string
		token func() string
	}{
		{"empty", func() string { return "" }},
		{"garbage", func() string { return "not.a.jwt" }},
		{"wrong issuer", func() string {
			c := googleClaims()
			c["iss"] = "https://evil.example.com"
			return sign(t, key, c)
		}},
		{"wrong audience", func() string {
			c := googleClaims()
			c["aud"] = "someone-else"
			return sign(t, key, c)
		}},
		{"expired", func() string {
			c := googleClaims()
			c["exp"] = time.Now().Add(-time.Hour).Unix()
			return sign(t, key, c)
		}},
		{"email not verified", func() string {
			c := googleClaims()
			c["email_verified"] = false
			return sign(t, key, c)
		}},
		{"unknown signing key", func() string { return sign(t, otherKey, googleClaims()) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := v.Verify(context.Background(), tt.token())
			assert.ErrorIs(t, err, errs.ErrUnauthorized)
		})
	}
}

func TestNewVerifierRequiresURL(t *testing.T) {
	_, err := NewVerifier(Config{}, zerolog.Nop())
	assert.Error(t, err)
}
