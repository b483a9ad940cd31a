package router

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"pocaswap-api/internal/config"
	"pocaswap-api/internal/handlers"
	"pocaswap-api/internal/middleware"
	"pocaswap-api/internal/mocks"
	"pocaswap-api/internal/models"
	"pocaswap-api/internal/tokens"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const (
	userID  = "11111111-1111-4111-8111-111111111111"
	tradeID = "44444444-4444-4444-8444-444444444444"
	origin  = "https://admin.pocaswap.app"
)

type fixture struct {
	handler http.Handler
	issuer  *tokens.Issuer
	trades  *mocks.MockTradeService
	users   *mocks.MockUserService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	app := &config.Application{
		Config: config.Config{
			RateLimit:            1000,
			RequestTimeout:       5,
			CORS_Allowed_Origins: []string{origin},
		},
		Logger: zerolog.Nop(),
	}
	issuer := tokens.NewIssuer("router-test-secret-router-test-secret", time.Hour, 24*time.Hour)
	f := &fixture{
		issuer: issuer,
		trades: new(mocks.MockTradeService),
		users:  new(mocks.MockUserService),
	}
	h := handlers.New(app, handlers.Services{Trades: f.trades, Users: f.users}, nil, nil)
	f.handler = Setup(app, h, middleware.New(app, issuer), nil)
	t.Cleanup(func() {
		f.trades.AssertExpectations(t)
		f.users.AssertExpectations(t)
	})
	return f
}

func (f *fixture) do(t *testing.T, method, path string, role models.Role) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	if role != "" {
		token, _, err := f.issuer.IssueAccess(userID, role)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	f.handler.ServeHTTP(rr, req)
	return rr
}

func errorCode(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	var env models.Envelope
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env))
	require.NotNil(t, env.Error)
	return env.Error.Code
}

func TestRouting(t *testing.T) {
	tests := []struct {
		name       string
		method     string
		path       string
		role       models.Role
		wantStatus int
		wantCode   string
	}{
		{"unknown route", http.MethodGet, "/nope", "", http.StatusNotFound, "not_found"},
		{"protected without token", http.MethodGet, "/api/v1/me", "", http.StatusUnauthorized, "unauthorized"},
		{"malformed id", http.MethodGet, "/api/v1/cards/not-a-uuid", models.RoleUser, http.StatusNotFound, "not_found"},
		{"unknown trade action", http.MethodPost, "/api/v1/trades/" + tradeID + "/explode", models.RoleUser, http.StatusNotFound, "not_found"},
		{"admin route as user", http.MethodGet, "/api/v1/admin/users", models.RoleUser, http.StatusForbidden, "forbidden"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			rr := f.do(t, tt.method, tt.path, tt.role)

			assert.Equal(t, tt.wantStatus, rr.Code)
			assert.Equal(t, tt.wantCode, errorCode(t, rr))
		})
	}
}

func TestRouting_TradeAction(t *testing.T) {
	f := newFixture(t)
	f.trades.On("Transition", mock.Anything, userID, tradeID, models.TradeCancel).
		Return(&models.Trade{ID: tradeID, Status: models.TradeCanceled}, nil)

	rr := f.do(t, http.MethodPost, "/api/v1/trades/"+tradeID+"/cancel", models.RoleUser)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.NotEmpty(t, rr.Header().Get("X-Request-ID"))
	assert.Equal(t, "nosniff", rr.Header().Get("X-Content-Type-Options"))
}

func TestRouting_AdminAllowed(t *testing.T) {
	f := newFixture(t)
	f.users.On("ListUsers", mock.Anything, 1, models.DefaultPageLimit).
		Return([]models.User{}, models.NewPagination(1, models.DefaultPageLimit, 0), nil)

	rr := f.do(t, http.MethodGet, "/api/v1/admin/users", models.RoleAdmin)

	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestRouting_Preflight(t *testing.T) {
	f := newFixture(t)
	req := httptest.NewRequest(http.MethodOptions, "/api/v1/posts/"+tradeID+"/status", nil)
	req.Header.Set("Origin", origin)
	req.Header.Set("Access-Control-Request-Method", http.MethodPatch)
	rr := httptest.NewRecorder()

	f.handler.ServeHTTP(rr, req)

	assert.Less(t, rr.Code, 300)
	assert.Equal(t, origin, rr.Header().Get("Access-Control-Allow-Origin"))
}
