package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"nwaevents/internal/metrics"
	"nwaevents/internal/models/domain"
	"nwaevents/internal/utils"
	"nwaevents/internal/utils/logger/sl"
)

const (
	importUserAgent = "Mozilla/5.0 (compatible; NWAEvents/1.0; +https://nwa.events)"
	// maxImportBody bounds how much of a page is read; the prompt budget is
	// far smaller anyway.
	maxImportBody = 2 << 20
)

type ImportHandler struct {
	log       *slog.Logger
	extractor Extractor
	client    *http.Client
}

func NewImportHandler(log *slog.Logger, extractor Extractor, fetchTimeout time.Duration) *ImportHandler {
	return &ImportHandler{
		log:       log,
		extractor: extractor,
		client:    &http.Client{Timeout: fetchTimeout},
	}
}

type importRequest struct {
	URL string `json:"url"`
}

// ImportURL handles POST /api/v1/import-url. Fetches the submitted page and
// extracts a structured event from it. Never writes to the store; the
// client follows up with an explicit create, which lands in moderation.
//
// Upstream fetch failure (422) and extraction failure (500) are distinct
// outcomes so the submitter knows which side broke.
func (h *ImportHandler) ImportURL(w http.ResponseWriter, r *http.Request) {
	op := "httpServer.handlers.ImportHandler.ImportURL()"
	log := h.log.With(slog.String("op", op))

	var req importRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(log, fmt.Errorf("cannot decode json: %w", err), w, http.StatusBadRequest)
		return
	}

	if req.URL == "" {
		h.respondError(log, fmt.Errorf("URL is required"), w, http.StatusBadRequest)
		return
	}

	parsedURL, err := url.Parse(req.URL)
	if err != nil || parsedURL.Host == "" || (parsedURL.Scheme != "http" && parsedURL.Scheme != "https") {
		h.respondError(log, fmt.Errorf("invalid URL"), w, http.StatusBadRequest)
		return
	}

	log.Info("importing URL", slog.String("url", parsedURL.String()))

	html, err := h.fetchPage(r, parsedURL.String())
	if err != nil {
		h.respondError(log, err, w, http.StatusUnprocessableEntity)
		return
	}

	event, err := h.extractor.Extract(r.Context(), parsedURL.String(), html)
	if err != nil {
		metrics.ExtractionFailures.Inc()
		h.respondError(log, domain.ErrExtractionFailed, w, http.StatusInternalServerError)
		return
	}

	if err := utils.Json(w, http.StatusOK, map[string]interface{}{"event": event}); err != nil {
		log.Error("error encoding response", sl.Err(err))
	}
}

func (h *ImportHandler) fetchPage(r *http.Request, target string) (string, error) {
	req, err := http.NewRequestWithContext(r.Context(), http.MethodGet, target, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrUpstreamFetch, err)
	}
	req.Header.Set("User-Agent", importUserAgent)

	resp, err := h.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrUpstreamFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("%w: failed to fetch URL (%d)", domain.ErrUpstreamFetch, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxImportBody))
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrUpstreamFetch, err)
	}

	return string(body), nil
}

func (h *ImportHandler) respondError(log *slog.Logger, err error, w http.ResponseWriter, status int) {
	log.Error("handler error", sl.Err(err))
	if httpErr := utils.Err(w, status, err); httpErr != nil {
		log.Error("error sending http response", sl.Err(httpErr))
	}
}
