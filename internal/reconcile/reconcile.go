package reconcile

import (
	"context"
	"fmt"
	"log/slog"

	"nwaevents/internal/models/domain"
	"nwaevents/internal/utils/logger/sl"
)

// Store is the single capability reconciliation needs beyond plain CRUD:
// an atomic insert-or-update keyed on (source_platform, source_id) that
// preserves id, status and created_at of an existing row.
type Store interface {
	UpsertEvent(ctx context.Context, event domain.Event) error
}

// ItemError records one candidate that failed reconciliation.
type ItemError struct {
	Title    string `json:"event_title"`
	SourceID string `json:"source_id"`
	Detail   string `json:"error"`
}

// SyncResult aggregates one reconciliation run.
type SyncResult struct {
	Synced  int
	Skipped int
	Errors  []ItemError
}

func (r SyncResult) Message() string {
	return fmt.Sprintf("Synced %d events, skipped %d", r.Synced, r.Skipped)
}

// Engine applies a batch of normalized candidates to the store.
type Engine struct {
	logger *slog.Logger
	store  Store
}

func New(logger *slog.Logger, store Store) *Engine {
	return &Engine{
		logger: logger,
		store:  store,
	}
}

// Reconcile upserts every candidate independently: one failed item is
// recorded and does not stop the rest. Candidates without a valid source key
// cannot be reconciled and count as skipped. Re-running the same batch is
// idempotent: rows are updated in place, never duplicated, and a stored
// row's moderation status survives.
func (e *Engine) Reconcile(ctx context.Context, batch []domain.Event) SyncResult {
	op := "reconcile.Reconcile()"
	log := e.logger.With(slog.String("op", op))

	var result SyncResult

	for _, event := range dedupByKey(batch) {
		if !event.Key().Valid() {
			result.Skipped++
			result.Errors = append(result.Errors, ItemError{
				Title:    event.Title,
				SourceID: event.SourceID,
				Detail:   "candidate has no source key",
			})
			continue
		}

		if err := e.store.UpsertEvent(ctx, event); err != nil {
			log.Error("upsert failed",
				slog.String("key", event.Key().String()),
				sl.Err(err),
			)
			result.Skipped++
			result.Errors = append(result.Errors, ItemError{
				Title:    event.Title,
				SourceID: event.SourceID,
				Detail:   err.Error(),
			})
			continue
		}

		result.Synced++
	}

	log.Info("reconciliation completed",
		slog.Int("synced", result.Synced),
		slog.Int("skipped", result.Skipped),
	)

	return result
}

// dedupByKey keeps one candidate per valid source key (last wins, the
// later fetch result is the fresher one). Keyless candidates pass through
// untouched so they can be reported individually.
func dedupByKey(batch []domain.Event) []domain.Event {
	lastByKey := make(map[domain.SourceKey]int, len(batch))
	for i, event := range batch {
		if event.Key().Valid() {
			lastByKey[event.Key()] = i
		}
	}

	result := make([]domain.Event, 0, len(batch))
	for i, event := range batch {
		if event.Key().Valid() && lastByKey[event.Key()] != i {
			continue
		}
		result = append(result, event)
	}
	return result
}
