package handlers

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"nwaevents/internal/utils"
	"nwaevents/internal/utils/logger/sl"
)

type SubscribeHandler struct {
	log        *slog.Logger
	repository SubscriberRepository
}

func NewSubscribeHandler(log *slog.Logger, repo SubscriberRepository) *SubscribeHandler {
	return &SubscribeHandler{
		log:        log,
		repository: repo,
	}
}

type subscribeRequest struct {
	Email string `json:"email"`
}

// Subscribe handles POST /api/v1/subscribe. Double signups come back 200
// "Already subscribed" rather than erroring.
func (h *SubscribeHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	op := "httpServer.handlers.SubscribeHandler.Subscribe()"
	log := h.log.With(slog.String("op", op))

	var req subscribeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(log, fmt.Errorf("cannot decode json: %w", err), w, http.StatusBadRequest)
		return
	}

	if req.Email == "" || !strings.Contains(req.Email, "@") {
		h.respondError(log, fmt.Errorf("valid email is required"), w, http.StatusBadRequest)
		return
	}

	created, err := h.repository.CreateSubscriber(r.Context(), req.Email)
	if err != nil {
		h.respondError(log, fmt.Errorf("failed to subscribe: %w", err), w, http.StatusInternalServerError)
		return
	}

	if !created {
		if err := utils.Json(w, http.StatusOK, map[string]string{"message": "Already subscribed"}); err != nil {
			log.Error("error encoding response", sl.Err(err))
		}
		return
	}

	if err := utils.Json(w, http.StatusCreated, map[string]string{"message": "Subscribed"}); err != nil {
		log.Error("error encoding response", sl.Err(err))
	}
}

func (h *SubscribeHandler) respondError(log *slog.Logger, err error, w http.ResponseWriter, status int) {
	log.Error("handler error", sl.Err(err))
	if httpErr := utils.Err(w, status, err); httpErr != nil {
		log.Error("error sending http response", sl.Err(httpErr))
	}
}
