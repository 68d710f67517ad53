package api

import (
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"postboard/internal/api/shared"
	"postboard/internal/service/auth"
)

// AuthHandler handles the token issuing endpoint for the v2 API.
type AuthHandler struct {
	jwtService auth.JWTService
	validator  *validator.Validate
	logger     *slog.Logger
}

// NewAuthHandler creates a new AuthHandler with the given dependencies.
func NewAuthHandler(jwtService auth.JWTService, logger *slog.Logger) *AuthHandler {
	if logger == nil {
		logger = slog.Default()
	}

	return &AuthHandler{
		jwtService: jwtService,
		validator:  newValidator(),
		logger:     logger.With(slog.String("component", "auth_handler")),
	}
}

// Login handles POST /auth/login. It mints an access token for the
// caller-supplied user_id with no credential verification whatsoever: this
// is a demo stand-in for real authentication, not a login in any meaningful
// sense. No password check, no rate limiting, no user store lookup.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest

	if err := DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, sanitizeValidationError(err))
		return
	}

	token, err := h.jwtService.GenerateToken(r.Context(), *req.UserID)
	if err != nil {
		h.logger.Error("failed to generate token", "error", err, "user_id", *req.UserID)
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
			"Failed to generate authentication token", err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, LoginResponse{AccessToken: token})
}
