package handlers

import (
	"fmt"
	"log/slog"
	"net/http"

	"nwaevents/internal/reconcile"
	"nwaevents/internal/utils"
	"nwaevents/internal/utils/logger/sl"

	"github.com/go-chi/chi/v5"
)

type SyncHandler struct {
	log    *slog.Logger
	syncer Syncer
}

func NewSyncHandler(log *slog.Logger, syncer Syncer) *SyncHandler {
	return &SyncHandler{
		log:    log,
		syncer: syncer,
	}
}

type syncResponse struct {
	Message string                `json:"message"`
	Synced  int                   `json:"synced"`
	Skipped int                   `json:"skipped"`
	Errors  []reconcile.ItemError `json:"errors,omitempty"`
}

// PostSync handles POST /api/v1/sync/{source}. The bearer secret was already
// checked by middleware. An adapter-level failure answers 500 with no partial
// counts; per-item failures are reported inside a 200 summary.
func (h *SyncHandler) PostSync(w http.ResponseWriter, r *http.Request) {
	op := "httpServer.handlers.SyncHandler.PostSync()"
	log := h.log.With(slog.String("op", op))

	sourceTag := chi.URLParam(r, "source")
	if sourceTag == "" {
		h.respondError(log, fmt.Errorf("empty source"), w, http.StatusBadRequest)
		return
	}

	log.Info("sync triggered", slog.String("source", sourceTag))

	result, err := h.syncer.Sync(r.Context(), sourceTag)
	if err != nil {
		h.respondError(log, err, w, http.StatusInternalServerError)
		return
	}

	response := syncResponse{
		Message: result.Message(),
		Synced:  result.Synced,
		Skipped: result.Skipped,
		Errors:  result.Errors,
	}

	if err := utils.Json(w, http.StatusOK, response); err != nil {
		log.Error("error encoding response", sl.Err(err))
	}
}

func (h *SyncHandler) respondError(log *slog.Logger, err error, w http.ResponseWriter, status int) {
	log.Error("handler error", sl.Err(err))
	if httpErr := utils.Err(w, status, err); httpErr != nil {
		log.Error("error sending http response", sl.Err(httpErr))
	}
}
