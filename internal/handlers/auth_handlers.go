package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"pocaswap-api/internal/middleware"
	"pocaswap-api/internal/models"
)

// GoogleLogin handles POST /auth/google
func (h *Handlers) GoogleLogin(w http.ResponseWriter, r *http.Request) {
	var req models.GoogleLoginRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	resp, err := h.svc.Auth.LoginWithGoogle(r.Context(), req)
	if err != nil {
		h.app.Logger.Warn().
			Str("request_id", getRequestID(r)).
			Err(err).
			Msg("Google login failed")
		h.writeError(w, r, err)
		return
	}

	h.app.Logger.Info().
		Str("request_id", getRequestID(r)).
		Str("user_id", resp.User.ID).
		Bool("new_user", resp.IsNewUser).
		Msg("User signed in with Google")

	h.writeSuccess(w, resp)
}

// AdminLogin handles POST /auth/admin/login. The access token is also set as
// an HttpOnly cookie for the admin console.
func (h *Handlers) AdminLogin(w http.ResponseWriter, r *http.Request) {
	var req models.AdminLoginRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	resp, err := h.svc.Auth.AdminLogin(r.Context(), req)
	if err != nil {
		h.app.Logger.Warn().
			Str("request_id", getRequestID(r)).
			Str("username", req.Username).
			Err(err).
			Msg("Admin login failed")
		h.writeError(w, r, err)
		return
	}

	h.app.Logger.Info().
		Str("request_id", getRequestID(r)).
		Str("user_id", resp.User.ID).
		Msg("Admin authenticated successfully")

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.AuthCookieName,
		Value:    resp.AccessToken,
		Expires:  time.Unix(resp.ExpiresAt, 0),
		HttpOnly: true,
		Secure:   true,
		Path:     "/",
		SameSite: http.SameSiteLaxMode,
	})

	h.writeSuccess(w, resp)
}

// Refresh handles POST /auth/refresh
func (h *Handlers) Refresh(w http.ResponseWriter, r *http.Request) {
	var req models.RefreshRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	resp, err := h.svc.Auth.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeSuccess(w, resp)
}

// Logout revokes the refresh token when one is sent and clears the auth cookie.
func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	var req models.RefreshRequest
	if r.ContentLength != 0 {
		r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.writeErrorCode(w, r, http.StatusBadRequest, "invalid_input", "Invalid request format")
			return
		}
	}

	if req.RefreshToken != "" {
		if err := h.svc.Auth.Logout(r.Context(), req.RefreshToken); err != nil {
			h.writeError(w, r, err)
			return
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.AuthCookieName,
		Value:    "",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   true,
		Path:     "/",
		SameSite: http.SameSiteLaxMode,
	})

	h.writeSuccess(w, map[string]bool{"logged_out": true})
}
