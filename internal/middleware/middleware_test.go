package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"pocaswap-api/internal/config"
	"pocaswap-api/internal/models"
	"pocaswap-api/internal/tokens"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "middleware-test-secret-middleware-test"

func newTestMiddleware(rateLimit int) (*Middleware, *tokens.Issuer) {
	issuer := tokens.NewIssuer(testSecret, time.Hour, 24*time.Hour)
	app := &config.Application{
		Config: config.Config{RateLimit: rateLimit},
		Logger: zerolog.Nop(),
	}
	return New(app, issuer), issuer
}

// echoIdentity reports what Auth put into the context.
var echoIdentity = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	_ = json.NewEncoder(w).Encode(map[string]string{
		"user_id": UserIDFrom(r.Context()),
		"role":    string(RoleFrom(r.Context())),
	})
})

func decodeEnvelope(t *testing.T, rr *httptest.ResponseRecorder) models.Envelope {
	t.Helper()
	var env models.Envelope
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env))
	return env
}

func TestAuth(t *testing.T) {
	mw, issuer := newTestMiddleware(60)
	userToken, _, err := issuer.IssueAccess("user-1", models.RoleUser)
	require.NoError(t, err)
	refreshToken, _, err := issuer.IssueRefresh("user-1", models.RoleUser)
	require.NoError(t, err)

	tests := []struct {
		name       string
		setup      func(r *http.Request)
		wantStatus int
	}{
		{"bearer header", func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+userToken) }, http.StatusOK},
		{"cookie", func(r *http.Request) { r.AddCookie(&http.Cookie{Name: AuthCookieName, Value: userToken}) }, http.StatusOK},
		{"websocket query", func(r *http.Request) {
			r.Header.Set("Upgrade", "websocket")
			r.URL.RawQuery = "token=" + userToken
		}, http.StatusOK},
		{"query ignored without upgrade", func(r *http.Request) { r.URL.RawQuery = "token=" + userToken }, http.StatusUnauthorized},
		{"missing", func(r *http.Request) {}, http.StatusUnauthorized},
		{"wrong scheme", func(r *http.Request) { r.Header.Set("Authorization", "Basic "+userToken) }, http.StatusUnauthorized},
		{"refresh token rejected", func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+refreshToken) }, http.StatusUnauthorized},
		{"garbage", func(r *http.Request) { r.Header.Set("Authorization", "Bearer not-a-jwt") }, http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/me", nil)
			tt.setup(req)
			rr := httptest.NewRecorder()

			mw.Auth(echoIdentity).ServeHTTP(rr, req)

			assert.Equal(t, tt.wantStatus, rr.Code)
			if tt.wantStatus == http.StatusOK {
				var got map[string]string
				require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
				assert.Equal(t, "user-1", got["user_id"])
				assert.Equal(t, "user", got["role"])
				return
			}
			env := decodeEnvelope(t, rr)
			require.NotNil(t, env.Error)
			assert.Equal(t, "unauthorized", env.Error.Code)
			assert.Nil(t, env.Data)
		})
	}
}

func TestAuth_ExpiredToken(t *testing.T) {
	mw, _ := newTestMiddleware(60)
	past := tokens.NewIssuer(testSecret, time.Minute, time.Hour).WithClock(func() time.Time {
		return time.Now().Add(-time.Hour)
	})
	expired, _, err := past.IssueAccess("user-1", models.RoleUser)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/me", nil)
	req.Header.Set("Authorization", "Bearer "+expired)
	rr := httptest.NewRecorder()

	mw.Auth(echoIdentity).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, "Token has expired", decodeEnvelope(t, rr).Error.Message)
}

func TestRequireAdmin(t *testing.T) {
	mw, issuer := newTestMiddleware(60)
	handler := mw.Auth(mw.RequireAdmin(echoIdentity))

	adminToken, _, err := issuer.IssueAccess("admin-1", models.RoleAdmin)
	require.NoError(t, err)
	userToken, _, err := issuer.IssueAccess("user-1", models.RoleUser)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/users", nil)
	req.Header.Set("Authorization", "Bearer "+adminToken)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/admin/users", nil)
	req.Header.Set("Authorization", "Bearer "+userToken)
	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusForbidden, rr.Code)
	assert.Equal(t, "forbidden", decodeEnvelope(t, rr).Error.Code)
}

func TestRequestID(t *testing.T) {
	mw, _ := newTestMiddleware(60)
	var seen string
	handler := mw.RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestIDFrom(r.Context())
	}))

	t.Run("Propagated", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		req.Header.Set("X-Request-ID", "abc-123")
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		assert.Equal(t, "abc-123", seen)
		assert.Equal(t, "abc-123", rr.Header().Get("X-Request-ID"))
	})

	t.Run("Generated", func(t *testing.T) {
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Len(t, seen, 36)
		assert.Equal(t, seen, rr.Header().Get("X-Request-ID"))
	})
}

func TestRecovery(t *testing.T) {
	mw, _ := newTestMiddleware(60)
	handler := mw.RequestID(mw.Recovery(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "req-9")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	env := decodeEnvelope(t, rr)
	assert.Equal(t, "internal_error", env.Error.Code)
	assert.Equal(t, "req-9", env.Error.RequestID)
}

func TestRateLimit_MemoryFallback(t *testing.T) {
	mw, _ := newTestMiddleware(1)
	handler := mw.RateLimit(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "10.0.0.1:5555"
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		codes = append(codes, rr.Code)
	}

	// Burst is twice the per-minute rate.
	assert.Equal(t, []int{http.StatusNoContent, http.StatusNoContent, http.StatusTooManyRequests}, codes)
}

func TestTimeout(t *testing.T) {
	mw, _ := newTestMiddleware(60)
	handler := mw.Timeout(20 * time.Millisecond)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/slow", nil))

	assert.Equal(t, http.StatusRequestTimeout, rr.Code)
	assert.Equal(t, "timeout", decodeEnvelope(t, rr).Error.Code)
}

func TestGetClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.0.2.10:4000"
	assert.Equal(t, "192.0.2.10", getClientIP(req))

	req.Header.Set("X-Forwarded-For", "203.0.113.5, 10.0.0.1")
	assert.Equal(t, "203.0.113.5", getClientIP(req))
}
