package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"pocaswap-api/internal/errs"
	"pocaswap-api/internal/middleware"
	"pocaswap-api/internal/models"
	"pocaswap-api/internal/validation"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

const maxBodyBytes = 1 << 20

// --- Helper Functions ---

func getRequestID(r *http.Request) string {
	return middleware.RequestIDFrom(r.Context())
}

func currentUser(r *http.Request) string {
	return middleware.UserIDFrom(r.Context())
}

func pathVar(r *http.Request, name string) string {
	return mux.Vars(r)[name]
}

func (h *Handlers) writeJSON(w http.ResponseWriter, status int, body models.Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.app.Logger.Error().Err(err).Msg("Failed to write JSON response")
	}
}

func (h *Handlers) writeData(w http.ResponseWriter, status int, data, meta any) {
	h.writeJSON(w, status, models.Envelope{Data: data, Meta: meta})
}

func (h *Handlers) writeSuccess(w http.ResponseWriter, data any) {
	h.writeData(w, http.StatusOK, data, nil)
}

func (h *Handlers) writeCreated(w http.ResponseWriter, data any) {
	h.writeData(w, http.StatusCreated, data, nil)
}

func (h *Handlers) writeList(w http.ResponseWriter, data any, pagination *models.PaginationMetadata) {
	h.writeData(w, http.StatusOK, data, map[string]any{"pagination": pagination})
}

func (h *Handlers) writeDeleted(w http.ResponseWriter) {
	h.writeSuccess(w, map[string]bool{"deleted": true})
}

func (h *Handlers) writeErrorCode(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	h.writeJSON(w, status, models.Envelope{Error: &models.APIError{
		Code:      code,
		Message:   message,
		RequestID: getRequestID(r),
	}})
}

type errorMapping struct {
	target error
	status int
	code   string
}

// errorTable is checked in order; the first errors.Is match wins.
var errorTable = []errorMapping{
	{errs.ErrNotFound, http.StatusNotFound, "not_found"},
	{errs.ErrConflict, http.StatusConflict, "conflict"},
	{errs.ErrInvalidInput, http.StatusBadRequest, "invalid_input"},
	{errs.ErrUnauthorized, http.StatusUnauthorized, "unauthorized"},
	{errs.ErrForbidden, http.StatusForbidden, "forbidden"},
	{errs.ErrInvalidTransition, http.StatusConflict, "invalid_transition"},
	{errs.ErrQuotaExceeded, http.StatusTooManyRequests, "quota_exceeded"},
	{errs.ErrLimitReached, http.StatusForbidden, "limit_reached"},
	{errs.ErrPurchaseTokenInUse, http.StatusConflict, "purchase_token_in_use"},
	{errs.ErrInvalidReceipt, http.StatusUnprocessableEntity, "invalid_receipt"},
	{errs.ErrUpstream, http.StatusBadGateway, "upstream"},
}

// statusFor resolves err against errorTable.
func statusFor(err error) (int, string) {
	for _, m := range errorTable {
		if errors.Is(err, m.target) {
			return m.status, m.code
		}
	}
	return http.StatusInternalServerError, "internal_error"
}

// writeError maps a service error to the envelope. Unmapped errors are logged
// and reported with a generic message.
func (h *Handlers) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, code := statusFor(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		h.app.Logger.Error().
			Str("request_id", getRequestID(r)).
			Str("path", r.URL.Path).
			Err(err).
			Msg("Request failed")
		message = "An internal error occurred"
	} else if status == http.StatusBadGateway {
		h.app.Logger.Warn().
			Str("request_id", getRequestID(r)).
			Err(err).
			Msg("Upstream dependency failed")
	}
	h.writeErrorCode(w, r, status, code, message)
}

// decodeAndValidate reads a JSON body into dst and runs struct validation.
// It writes the error response itself and reports whether to continue.
func (h *Handlers) decodeAndValidate(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		h.app.Logger.Warn().
			Str("request_id", getRequestID(r)).
			Err(err).
			Msg("Invalid JSON in request")
		h.writeErrorCode(w, r, http.StatusBadRequest, "invalid_input", "Invalid request format")
		return false
	}
	if err := validation.ValidateStruct(dst); err != nil {
		h.writeErrorCode(w, r, http.StatusBadRequest, "invalid_input", err.Error())
		return false
	}
	return true
}

// pageParams reads page and limit; bad values fall back to the defaults.
func pageParams(r *http.Request) (int, int) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	return models.NormalizePage(page, limit)
}

// nearbyParams parses lat, lng, radius_km and limit from the query string.
func nearbyParams(r *http.Request) (models.NearbyQuery, error) {
	q := r.URL.Query()
	var out models.NearbyQuery
	var err error
	if out.Latitude, err = requiredFloat(q.Get("lat"), "lat"); err != nil {
		return out, err
	}
	if out.Longitude, err = requiredFloat(q.Get("lng"), "lng"); err != nil {
		return out, err
	}
	if out.RadiusKm, err = requiredFloat(q.Get("radius_km"), "radius_km"); err != nil {
		return out, err
	}
	if raw := q.Get("limit"); raw != "" {
		if out.Limit, err = strconv.Atoi(raw); err != nil {
			return out, fmt.Errorf("%w: limit must be an integer", errs.ErrInvalidInput)
		}
	}
	return out, nil
}

func requiredFloat(raw, name string) (float64, error) {
	if strings.TrimSpace(raw) == "" {
		return 0, fmt.Errorf("%w: %s is required", errs.ErrInvalidInput, name)
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be a number", errs.ErrInvalidInput, name)
	}
	return v, nil
}

// cursorParam parses the optional message cursor: before (RFC 3339) and before_id.
func cursorParam(r *http.Request) (*models.MessageCursor, error) {
	q := r.URL.Query()
	raw, rawID := q.Get("before"), q.Get("before_id")
	if raw == "" {
		if rawID != "" {
			return nil, fmt.Errorf("%w: before_id requires before", errs.ErrInvalidInput)
		}
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return nil, fmt.Errorf("%w: before must be an RFC 3339 timestamp", errs.ErrInvalidInput)
	}
	cursor := &models.MessageCursor{CreatedAt: t}
	if rawID != "" {
		id, err := uuid.Parse(rawID)
		if err != nil {
			return nil, fmt.Errorf("%w: before_id must be a valid id", errs.ErrInvalidInput)
		}
		cursor.ID = id.String()
	}
	return cursor, nil
}
