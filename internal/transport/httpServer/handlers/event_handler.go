package handlers

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"nwaevents/internal/models/domain"
	"nwaevents/internal/repositories"
	"nwaevents/internal/transport/httpServer/handlers/dto"
	myMiddleware "nwaevents/internal/transport/httpServer/middleware"
	"nwaevents/internal/utils"
	"nwaevents/internal/utils/logger/sl"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type EventHandler struct {
	log        *slog.Logger
	repository EventRepository
	notifier   Notifier
	jwtSecret  string
}

func NewEventHandler(log *slog.Logger, repo EventRepository, notifier Notifier, jwtSecret string) *EventHandler {
	return &EventHandler{
		log:        log,
		repository: repo,
		notifier:   notifier,
		jwtSecret:  jwtSecret,
	}
}

// GetEvents handles GET /api/v1/events?status=...
// Without a status filter the public feed is served: approved, upcoming,
// start ascending. Any other status requires an admin session.
func (h *EventHandler) GetEvents(w http.ResponseWriter, r *http.Request) {
	op := "httpServer.handlers.EventHandler.GetEvents()"
	log := h.log.With(slog.String("op", op))

	status := r.URL.Query().Get("status")
	if status == "" {
		status = string(domain.EventStatusApproved)
	}

	if !domain.ValidStatus(status) {
		h.respondError(log, fmt.Errorf("invalid status filter: %s", status), w, http.StatusBadRequest)
		return
	}

	if status != string(domain.EventStatusApproved) && !myMiddleware.IsAdmin(r, h.jwtSecret) {
		h.respondError(log, domain.ErrUnauthorized, w, http.StatusUnauthorized)
		return
	}

	query := repositories.EventQuery{
		Status: domain.EventStatus(status),
		// Past events drop out of the public feed; moderators see everything.
		UpcomingOnly: status == string(domain.EventStatusApproved),
	}

	events, err := h.repository.ListEvents(r.Context(), query)
	if err != nil {
		h.respondError(log, fmt.Errorf("failed to get events: %w", err), w, http.StatusInternalServerError)
		return
	}

	response := map[string]interface{}{
		"events": dto.MapDomainToEventResponseList(events),
	}

	if err := utils.Json(w, http.StatusOK, response); err != nil {
		log.Error("error encoding response", sl.Err(err))
	}
}

// CreateEvent handles POST /api/v1/events: manual submissions and the
// explicit create that follows a URL import. Defaults to pending so every
// submission passes moderation.
func (h *EventHandler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	op := "httpServer.handlers.EventHandler.CreateEvent()"
	log := h.log.With(slog.String("op", op))

	var req dto.CreateEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(log, fmt.Errorf("cannot decode json: %w", err), w, http.StatusBadRequest)
		return
	}

	if req.Title == "" {
		h.respondError(log, fmt.Errorf("title is required"), w, http.StatusBadRequest)
		return
	}
	if req.StartDate.IsZero() {
		h.respondError(log, fmt.Errorf("start_date is required"), w, http.StatusBadRequest)
		return
	}

	if req.Status == "" {
		req.Status = string(domain.EventStatusPending)
	}
	if !domain.ValidStatus(req.Status) {
		h.respondError(log, fmt.Errorf("invalid status: %s", req.Status), w, http.StatusBadRequest)
		return
	}
	// Only moderators may create pre-approved records.
	if req.Status != string(domain.EventStatusPending) && !myMiddleware.IsAdmin(r, h.jwtSecret) {
		h.respondError(log, domain.ErrUnauthorized, w, http.StatusUnauthorized)
		return
	}

	if req.SourcePlatform == "" {
		req.SourcePlatform = domain.PlatformManual
	}

	event := dto.MapEventRequestToDomain(req, uuid.New())

	created, err := h.repository.CreateEvent(r.Context(), event)
	if err != nil {
		h.respondError(log, fmt.Errorf("failed to create event: %w", err), w, http.StatusInternalServerError)
		return
	}

	if created.Status == domain.EventStatusPending {
		// Delivery is best-effort; a slow messenger must not hold up the
		// submitter's response.
		go h.notifier.PendingEvent(created)
	}

	log.Info("event created", slog.String("eventID", created.ID.String()))

	response := map[string]interface{}{
		"event": dto.MapDomainToEventResponse(created),
	}

	if err := utils.Json(w, http.StatusCreated, response); err != nil {
		log.Error("error encoding response", sl.Err(err))
	}
}

// ChangeEvent handles PUT /api/v1/events/{eventId}, a full replacement.
func (h *EventHandler) ChangeEvent(w http.ResponseWriter, r *http.Request) {
	op := "httpServer.handlers.EventHandler.ChangeEvent()"
	log := h.log.With(slog.String("op", op))

	parsedID, ok := h.eventID(log, w, r)
	if !ok {
		return
	}

	var req dto.ChangeEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(log, fmt.Errorf("cannot decode json: %w", err), w, http.StatusBadRequest)
		return
	}

	// Full replacement writes every column, so the body must carry one of the
	// three statuses; an absent status would blank the row out of every listing.
	if !domain.ValidStatus(req.Status) {
		h.respondError(log, fmt.Errorf("invalid status: %q", req.Status), w, http.StatusBadRequest)
		return
	}

	event := dto.MapEventRequestToDomain(req, parsedID)

	log.Info("changing event", slog.String("eventID", parsedID.String()))

	updated, err := h.repository.UpdateEvent(r.Context(), event)
	if err != nil {
		h.respondError(log, fmt.Errorf("failed to update event: %w", err), w, http.StatusInternalServerError)
		return
	}

	response := map[string]interface{}{
		"event": dto.MapDomainToEventResponse(updated),
	}

	if err := utils.Json(w, http.StatusOK, response); err != nil {
		log.Error("error encoding response", sl.Err(err))
	}
}

// UpdateStatus handles PATCH /api/v1/events/{eventId}/status, the
// moderation action. Transitions are unrestricted within the tri-state set.
func (h *EventHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	op := "httpServer.handlers.EventHandler.UpdateStatus()"
	log := h.log.With(slog.String("op", op))

	parsedID, ok := h.eventID(log, w, r)
	if !ok {
		return
	}

	var req dto.UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(log, fmt.Errorf("cannot decode json: %w", err), w, http.StatusBadRequest)
		return
	}

	if !domain.ValidStatus(req.Status) {
		h.respondError(log, fmt.Errorf("invalid status: %s", req.Status), w, http.StatusBadRequest)
		return
	}

	log.Info("updating event status",
		slog.String("eventID", parsedID.String()),
		slog.String("status", req.Status),
	)

	if err := h.repository.UpdateEventStatus(r.Context(), parsedID, req.Status); err != nil {
		h.respondError(log, fmt.Errorf("failed to update event status: %w", err), w, http.StatusInternalServerError)
		return
	}

	if err := utils.Json(w, http.StatusOK, map[string]string{"status": "ok"}); err != nil {
		log.Error("error encoding response", sl.Err(err))
	}
}

// DeleteEvent handles DELETE /api/v1/events/{eventId}.
func (h *EventHandler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	op := "httpServer.handlers.EventHandler.DeleteEvent()"
	log := h.log.With(slog.String("op", op))

	parsedID, ok := h.eventID(log, w, r)
	if !ok {
		return
	}

	log.Info("deleting event", slog.String("eventID", parsedID.String()))

	if err := h.repository.DeleteEvent(r.Context(), parsedID); err != nil {
		h.respondError(log, fmt.Errorf("failed to delete event: %w", err), w, http.StatusInternalServerError)
		return
	}

	if err := utils.Json(w, http.StatusOK, map[string]string{"status": "ok"}); err != nil {
		log.Error("error encoding response", sl.Err(err))
	}
}

func (h *EventHandler) eventID(log *slog.Logger, w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	eventID := chi.URLParam(r, "eventId")
	if eventID == "" {
		h.respondError(log, fmt.Errorf("empty eventId"), w, http.StatusBadRequest)
		return uuid.Nil, false
	}

	parsedID, err := uuid.Parse(eventID)
	if err != nil {
		h.respondError(log, fmt.Errorf("invalid eventId: %w", err), w, http.StatusBadRequest)
		return uuid.Nil, false
	}

	return parsedID, true
}

func (h *EventHandler) respondError(log *slog.Logger, err error, w http.ResponseWriter, status int) {
	log.Error("handler error", sl.Err(err))
	if httpErr := utils.Err(w, status, err); httpErr != nil {
		log.Error("error sending http response", sl.Err(httpErr))
	}
}
