// File: internal/middleware/middleware.go
package middleware

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"runtime/debug"
	"strconv"
	"strings"
	"sync"
	"time"

	"pocaswap-api/internal/config"
	"pocaswap-api/internal/models"
	"pocaswap-api/internal/tokens"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

// AuthCookieName is the cookie the admin console authenticates with.
const AuthCookieName = "jwt_token"

type Middleware struct {
	app    *config.Application
	issuer *tokens.Issuer
}

func New(app *config.Application, issuer *tokens.Issuer) *Middleware {
	return &Middleware{app: app, issuer: issuer}
}

// --- RESPONSE WRITER for logging ---
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	size       int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	size, err := rw.ResponseWriter.Write(b)
	rw.size += size
	return size, err
}

func (rw *responseWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hj, ok := rw.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("response writer does not support hijacking")
	}
	rw.statusCode = http.StatusSwitchingProtocols
	return hj.Hijack()
}

// --- REQUEST ID MIDDLEWARE ---
func (mw *Middleware) RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" || len(requestID) > 64 {
			requestID = uuid.New().String()
		}

		ctx := context.WithValue(r.Context(), config.RequestIDKey, requestID)
		w.Header().Set("X-Request-ID", requestID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// --- ENHANCED LOGGING MIDDLEWARE ---
func (mw *Middleware) Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := RequestIDFrom(r.Context())

		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(wrapped, r)

		duration := time.Since(start)

		logEvent := mw.app.Logger.Info()
		if wrapped.statusCode >= 400 {
			if wrapped.statusCode >= 500 {
				logEvent = mw.app.Logger.Error()
			} else {
				logEvent = mw.app.Logger.Warn()
			}
		}

		// The query is left out because websocket clients pass their token there.
		logEvent.
			Str("request_id", requestID).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", wrapped.statusCode).
			Dur("duration", duration).
			Str("ip", getClientIP(r)).
			Str("user_agent", r.UserAgent()).
			Int64("content_length", r.ContentLength).
			Int("response_size", wrapped.size).
			Msg("HTTP request processed")
	})
}

// --- ENHANCED RECOVERY MIDDLEWARE ---
func (mw *Middleware) Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				requestID := RequestIDFrom(r.Context())

				mw.app.Logger.Error().
					Str("request_id", requestID).
					Str("panic", fmt.Sprintf("%v", err)).
					Bytes("stack", debug.Stack()).
					Str("path", r.URL.Path).
					Str("method", r.Method).
					Msg("Panic recovered")

				writeJSONError(w, http.StatusInternalServerError, "internal_error", "Internal server error", requestID)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// --- AUTH MIDDLEWARE ---

// bearerToken finds the access token of a request. Mobile clients send a bearer
// header, the admin console a cookie, and websocket clients may use ?token=.
func bearerToken(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		if scheme, token, ok := strings.Cut(h, " "); ok && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(token)
		}
		return ""
	}
	if cookie, err := r.Cookie(AuthCookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	if isWebsocketUpgrade(r) {
		return r.URL.Query().Get("token")
	}
	return ""
}

func (mw *Middleware) Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := RequestIDFrom(r.Context())

		tokenString := bearerToken(r)
		if tokenString == "" {
			mw.app.Logger.Warn().
				Str("request_id", requestID).
				Msg("Missing access token")
			writeJSONError(w, http.StatusUnauthorized, "unauthorized", "Access token required", requestID)
			return
		}

		claims, err := mw.issuer.Parse(tokenString, models.TokenTypeAccess)
		if err != nil {
			msg := "Invalid token"
			if errors.Is(err, tokens.ErrExpired) {
				msg = "Token has expired"
			} else {
				mw.app.Logger.Warn().
					Str("request_id", requestID).
					Err(err).
					Msg("Token validation failed")
			}
			writeJSONError(w, http.StatusUnauthorized, "unauthorized", msg, requestID)
			return
		}

		ctx := context.WithValue(r.Context(), config.UserIDKey, claims.Subject)
		ctx = context.WithValue(ctx, config.UserRoleKey, claims.Role)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAdmin must run after Auth.
func (mw *Middleware) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if RoleFrom(r.Context()) != models.RoleAdmin {
			requestID := RequestIDFrom(r.Context())
			mw.app.Logger.Warn().
				Str("request_id", requestID).
				Str("user_id", UserIDFrom(r.Context())).
				Str("path", r.URL.Path).
				Msg("Admin route denied")
			writeJSONError(w, http.StatusForbidden, "forbidden", "Admin access required", requestID)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// --- REDIS-BASED RATE LIMITER ---
type RedisRateLimiter struct {
	app   *config.Application
	rate  int
	burst int
}

func NewRedisRateLimiter(app *config.Application, rate, burst int) *RedisRateLimiter {
	return &RedisRateLimiter{
		app:   app,
		rate:  rate,
		burst: burst,
	}
}

func (rl *RedisRateLimiter) Allow(ctx context.Context, ip string) bool {
	key := fmt.Sprintf("rate_limit:%s", ip)

	// Sliding one-minute window
	now := time.Now()
	windowStart := now.Add(-time.Minute).UnixNano()

	pipe := rl.app.Redis.Pipeline()
	pipe.ZRemRangeByScore(ctx, key, "0", strconv.FormatInt(windowStart, 10))
	countCmd := pipe.ZCard(ctx, key)
	pipe.ZAdd(ctx, key, &redis.Z{Score: float64(now.UnixNano()), Member: uuid.NewString()})
	pipe.Expire(ctx, key, time.Minute*2)

	_, err := pipe.Exec(ctx)
	if err != nil {
		// If Redis fails, allow the request (fail open)
		rl.app.Logger.Warn().Err(err).Msg("Redis rate limiter failed, allowing request")
		return true
	}

	return countCmd.Val() < int64(rl.rate)
}

// --- FALLBACK IN-MEMORY RATE LIMITER ---
type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

type MemoryRateLimiter struct {
	visitors map[string]*visitor
	mu       sync.Mutex
	rate     rate.Limit
	burst    int
}

// NewMemoryRateLimiter allows rpm requests per minute per client with the given burst.
func NewMemoryRateLimiter(rpm int, burst int) *MemoryRateLimiter {
	rl := &MemoryRateLimiter{
		visitors: make(map[string]*visitor),
		rate:     rate.Limit(float64(rpm) / 60),
		burst:    burst,
	}
	go rl.cleanupVisitors()
	return rl
}

func (rl *MemoryRateLimiter) getLimiter(ip string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	v, exists := rl.visitors[ip]
	if !exists {
		limiter := rate.NewLimiter(rl.rate, rl.burst)
		rl.visitors[ip] = &visitor{limiter, time.Now()}
		return limiter
	}

	v.lastSeen = time.Now()
	return v.limiter
}

func (rl *MemoryRateLimiter) Allow(ip string) bool {
	return rl.getLimiter(ip).Allow()
}

func (rl *MemoryRateLimiter) cleanupVisitors() {
	for {
		time.Sleep(time.Minute)
		rl.mu.Lock()
		for ip, v := range rl.visitors {
			if time.Since(v.lastSeen) > 15*time.Minute {
				delete(rl.visitors, ip)
			}
		}
		rl.mu.Unlock()
	}
}

// RateLimit applies RATE_LIMIT requests per minute per client IP.
func (mw *Middleware) RateLimit(next http.Handler) http.Handler {
	// Try Redis-based rate limiting first, fallback to memory-based
	var redisLimiter *RedisRateLimiter
	var memoryLimiter *MemoryRateLimiter

	if mw.app.Redis != nil {
		redisLimiter = NewRedisRateLimiter(mw.app, mw.app.Config.RateLimit, mw.app.Config.RateLimit*2)
	} else {
		memoryLimiter = NewMemoryRateLimiter(mw.app.Config.RateLimit, mw.app.Config.RateLimit*2)
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := RequestIDFrom(r.Context())
		ip := getClientIP(r)

		var allowed bool
		if redisLimiter != nil {
			allowed = redisLimiter.Allow(r.Context(), ip)
		} else {
			allowed = memoryLimiter.Allow(ip)
		}

		if !allowed {
			mw.app.Logger.Warn().
				Str("request_id", requestID).
				Str("ip", ip).
				Msg("Rate limit exceeded")
			w.Header().Set("Retry-After", "60")
			writeJSONError(w, http.StatusTooManyRequests, "rate_limited", "Rate limit exceeded", requestID)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// --- ENHANCED SECURITY MIDDLEWARE ---
func Security(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Strict-Transport-Security", "max-age=63072000; includeSubDomains; preload")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		w.Header().Set("Permissions-Policy", "camera=(), microphone=(), geolocation=()")
		w.Header().Set("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")

		// Remove server information
		w.Header().Set("Server", "")

		next.ServeHTTP(w, r)
	})
}

// --- TIMEOUT MIDDLEWARE ---

// timeoutWriter drops writes that arrive after the deadline answered the request.
type timeoutWriter struct {
	http.ResponseWriter
	mu       sync.Mutex
	timedOut bool
	wrote    bool
}

func (tw *timeoutWriter) WriteHeader(code int) {
	tw.mu.Lock()
	defer tw.mu.Unlock()
	if tw.timedOut || tw.wrote {
		return
	}
	tw.wrote = true
	tw.ResponseWriter.WriteHeader(code)
}

func (tw *timeoutWriter) Write(b []byte) (int, error) {
	tw.mu.Lock()
	defer tw.mu.Unlock()
	if tw.timedOut {
		return 0, http.ErrHandlerTimeout
	}
	tw.wrote = true
	return tw.ResponseWriter.Write(b)
}

// Timeout bounds request handling. Websocket upgrades are long-lived and skip it.
func (mw *Middleware) Timeout(timeout time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if isWebsocketUpgrade(r) {
				next.ServeHTTP(w, r)
				return
			}

			ctx, cancel := context.WithTimeout(r.Context(), timeout)
			defer cancel()

			r = r.WithContext(ctx)
			tw := &timeoutWriter{ResponseWriter: w}

			done := make(chan struct{})
			panicked := make(chan any, 1)
			go func() {
				defer func() {
					if p := recover(); p != nil {
						panicked <- p
					}
				}()
				next.ServeHTTP(tw, r)
				close(done)
			}()

			select {
			case <-done:
				return
			case p := <-panicked:
				panic(p)
			case <-ctx.Done():
				tw.mu.Lock()
				defer tw.mu.Unlock()
				tw.timedOut = true
				if tw.wrote {
					return
				}

				requestID := RequestIDFrom(r.Context())
				mw.app.Logger.Warn().
					Str("request_id", requestID).
					Dur("timeout", timeout).
					Msg("Request timeout")
				writeJSONError(w, http.StatusRequestTimeout, "timeout", "Request timeout", requestID)
				return
			}
		})
	}
}

// --- HELPER FUNCTIONS ---

// RequestIDFrom returns the request id set by RequestID.
func RequestIDFrom(ctx context.Context) string {
	if requestID, ok := ctx.Value(config.RequestIDKey).(string); ok {
		return requestID
	}
	return "unknown"
}

// UserIDFrom returns the authenticated user id, or "" outside Auth.
func UserIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(config.UserIDKey).(string)
	return id
}

// RoleFrom returns the authenticated user's role.
func RoleFrom(ctx context.Context) models.Role {
	role, _ := ctx.Value(config.UserRoleKey).(models.Role)
	return role
}

func isWebsocketUpgrade(r *http.Request) bool {
	return strings.EqualFold(r.Header.Get("Upgrade"), "websocket")
}

func getClientIP(r *http.Request) string {
	// Check X-Forwarded-For header
	xff := r.Header.Get("X-Forwarded-For")
	if xff != "" {
		// Get the first IP (client IP)
		ips := strings.Split(xff, ",")
		return strings.TrimSpace(ips[0])
	}

	// Check X-Real-IP header
	xri := r.Header.Get("X-Real-IP")
	if xri != "" {
		return strings.TrimSpace(xri)
	}

	// Fallback to RemoteAddr
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

func writeJSONError(w http.ResponseWriter, status int, code, message, requestID string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(models.Envelope{
		Error: &models.APIError{Code: code, Message: message, RequestID: requestID},
	})
}

// NotFound answers requests that match no route.
func NotFound(w http.ResponseWriter, r *http.Request) {
	writeJSONError(w, http.StatusNotFound, "not_found", "Route not found", RequestIDFrom(r.Context()))
}

// MethodNotAllowed answers requests whose path matches but whose method does not.
func MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeJSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", "Method not allowed", RequestIDFrom(r.Context()))
}
