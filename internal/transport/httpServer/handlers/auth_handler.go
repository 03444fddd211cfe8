package handlers

import (
	"crypto/subtle"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"nwaevents/internal/auth"
	"nwaevents/internal/models/domain"
	"nwaevents/internal/utils"
	"nwaevents/internal/utils/logger/sl"
)

type AuthHandler struct {
	log           *slog.Logger
	adminPassword string
	jwtSecret     string
	tokenTTL      time.Duration
}

func NewAuthHandler(log *slog.Logger, adminPassword, jwtSecret string, tokenTTL time.Duration) *AuthHandler {
	return &AuthHandler{
		log:           log,
		adminPassword: adminPassword,
		jwtSecret:     jwtSecret,
		tokenTTL:      tokenTTL,
	}
}

type loginRequest struct {
	Password string `json:"password"`
}

// Login handles POST /api/v1/auth/login. Exchanges the shared admin
// password for a session token used on moderation endpoints.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	op := "httpServer.handlers.AuthHandler.Login()"
	log := h.log.With(slog.String("op", op))

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(log, fmt.Errorf("cannot decode json: %w", err), w, http.StatusBadRequest)
		return
	}

	if subtle.ConstantTimeCompare([]byte(req.Password), []byte(h.adminPassword)) != 1 {
		h.respondError(log, domain.ErrUnauthorized, w, http.StatusUnauthorized)
		return
	}

	token, err := auth.NewAdminToken(h.jwtSecret, h.tokenTTL)
	if err != nil {
		h.respondError(log, fmt.Errorf("cannot issue token: %w", err), w, http.StatusInternalServerError)
		return
	}

	log.Info("admin logged in")

	if err := utils.Json(w, http.StatusOK, map[string]string{"token": token}); err != nil {
		log.Error("error encoding response", sl.Err(err))
	}
}

func (h *AuthHandler) respondError(log *slog.Logger, err error, w http.ResponseWriter, status int) {
	log.Error("handler error", sl.Err(err))
	if httpErr := utils.Err(w, status, err); httpErr != nil {
		log.Error("error sending http response", sl.Err(httpErr))
	}
}
