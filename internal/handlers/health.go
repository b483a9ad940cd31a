package handlers

import (
	"context"
	"net/http"
	"time"

	"pocaswap-api/internal/database"
	"pocaswap-api/internal/models"
)

// Health handles health check requests with enhanced diagnostics
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	requestID := getRequestID(r)
	healthCtx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	dbStatus := "connected"
	var dbLatency time.Duration
	dbStart := time.Now()
	if err := h.app.DB.Ping(healthCtx); err != nil {
		dbStatus = "disconnected"
		h.app.Logger.Error().
			Str("request_id", requestID).
			Err(err).
			Msg("Database health check failed")
	} else {
		dbLatency = time.Since(dbStart)
	}

	redisStatus := "connected"
	var redisLatency time.Duration
	redisStart := time.Now()
	if _, err := h.app.Redis.Ping(healthCtx).Result(); err != nil {
		redisStatus = "disconnected"
		h.app.Logger.Error().
			Str("request_id", requestID).
			Err(err).
			Msg("Redis health check failed")
	} else {
		redisLatency = time.Since(redisStart)
	}

	health := map[string]any{
		"status":      "healthy",
		"timestamp":   time.Now().UTC(),
		"uptime":      time.Since(startTime).String(),
		"version":     h.app.Version,
		"environment": h.app.Config.App_Env,
		"services": map[string]any{
			"database": map[string]any{
				"status":  dbStatus,
				"latency": dbLatency.String(),
			},
			"redis": map[string]any{
				"status":  redisStatus,
				"latency": redisLatency.String(),
			},
		},
	}

	if dbStatus == "disconnected" || redisStatus == "disconnected" {
		health["status"] = "degraded"
		h.writeJSON(w, http.StatusServiceUnavailable, models.Envelope{
			Data: health,
			Error: &models.APIError{
				Code:      "degraded",
				Message:   "Service is degraded",
				RequestID: requestID,
			},
		})
		return
	}

	h.writeSuccess(w, health)
}

// HealthDetailed provides detailed health information including database stats
func (h *Handlers) HealthDetailed(w http.ResponseWriter, r *http.Request) {
	healthCtx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	health := map[string]any{
		"status":      "healthy",
		"timestamp":   time.Now().UTC(),
		"uptime":      time.Since(startTime).String(),
		"version":     h.app.Version,
		"environment": h.app.Config.App_Env,
	}

	// Database health
	dbHealth := make(map[string]any)
	dbStart := time.Now()
	if err := database.HealthCheck(healthCtx, h.app.DB); err != nil {
		dbHealth["status"] = "unhealthy"
		dbHealth["error"] = err.Error()
		health["status"] = "degraded"
	} else {
		dbHealth["status"] = "healthy"
		dbHealth["latency"] = time.Since(dbStart).String()
		dbHealth["stats"] = database.GetConnectionStats(h.app.DB)
	}
	health["database"] = dbHealth

	// Redis health
	redisHealth := make(map[string]any)
	redisStart := time.Now()
	if _, err := h.app.Redis.Ping(healthCtx).Result(); err != nil {
		redisHealth["status"] = "unhealthy"
		redisHealth["error"] = err.Error()
		health["status"] = "degraded"
	} else {
		redisHealth["status"] = "healthy"
		redisHealth["latency"] = time.Since(redisStart).String()
	}
	health["redis"] = redisHealth

	if counter, ok := h.socket.(interface{ OnlineUsers() int }); ok {
		health["realtime"] = map[string]any{"online_users": counter.OnlineUsers()}
	}

	statusCode := http.StatusOK
	if health["status"] == "degraded" {
		statusCode = http.StatusServiceUnavailable
	}
	h.writeData(w, statusCode, health, nil)
}

// GetDatabaseStats handles GET /api/v1/admin/db-stats
func (h *Handlers) GetDatabaseStats(w http.ResponseWriter, r *http.Request) {
	h.writeSuccess(w, database.GetConnectionStats(h.app.DB))
}
