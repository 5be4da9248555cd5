package handler

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/ecotracker/ecotracker/internal/api/response"
	"github.com/ecotracker/ecotracker/internal/auth"
)

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	authService *auth.Service
	log         zerolog.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *auth.Service, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{authService: authService, log: log}
}

// DevToken handles POST /v1/auth/dev-token. It is only routed in development
// and issues a token for the requested user ID, or a fresh one when the body
// is empty.
func (h *AuthHandler) DevToken(w http.ResponseWriter, r *http.Request) {
	var req auth.DevAuthenticateRequest
	if err := decodeJSON(w, r, &req); err != nil && !errors.Is(err, errEmptyBody) {
		response.BadRequest(w, r, err.Error(), nil)
		return
	}

	tokenResp, err := h.authService.DevAuthenticate(&req)
	if err != nil {
		h.log.Error().Err(err).Msg("dev token issuance failed")
		response.InternalError(w, r, "dev authentication failed")
		return
	}

	response.JSON(w, r, http.StatusOK, tokenResp)
}
