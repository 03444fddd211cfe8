package orchestrator

import (
	"context"
	"fmt"
	"log/slog"

	"nwaevents/internal/metrics"
	"nwaevents/internal/models/domain"
	"nwaevents/internal/reconcile"
	"nwaevents/internal/sources"
	"nwaevents/internal/utils/logger/sl"
)

// Engine reconciles a normalized batch against the store.
type Engine interface {
	Reconcile(ctx context.Context, batch []domain.Event) reconcile.SyncResult
}

// Orchestrator runs one sync invocation: resolve the adapter, fetch and
// normalize, reconcile, summarize. Authentication happens at the transport
// boundary before this code runs.
type Orchestrator struct {
	logger   *slog.Logger
	registry sources.Registry
	engine   Engine
}

func New(logger *slog.Logger, registry sources.Registry, engine Engine) *Orchestrator {
	op := "Orchestrator.New()"
	log := logger.With(slog.String("op", op))
	log.Info("creating orchestrator", slog.Int("sources", len(registry)))

	return &Orchestrator{
		logger:   logger,
		registry: registry,
		engine:   engine,
	}
}

// Sync runs the pipeline for one source tag. An adapter-level failure
// (unknown tag, missing credential) returns a wrapped domain.ErrSyncFailed
// with no partial counts; per-item failures land in the result instead.
func (o *Orchestrator) Sync(ctx context.Context, sourceTag string) (reconcile.SyncResult, error) {
	op := "Orchestrator.Sync()"
	log := o.logger.With(slog.String("op", op), slog.String("source", sourceTag))

	source, ok := o.registry.Get(sourceTag)
	if !ok {
		return reconcile.SyncResult{}, fmt.Errorf("%w: unknown source %q", domain.ErrSyncFailed, sourceTag)
	}

	batch, err := source.Fetch(ctx)
	if err != nil {
		log.Error("adapter fetch failed", sl.Err(err))
		metrics.SyncRuns.WithLabelValues(sourceTag, "failed").Inc()
		return reconcile.SyncResult{}, fmt.Errorf("%w: %w", domain.ErrSyncFailed, err)
	}

	result := o.engine.Reconcile(ctx, batch)

	metrics.SyncRuns.WithLabelValues(sourceTag, "ok").Inc()
	metrics.EventsSynced.WithLabelValues(sourceTag).Add(float64(result.Synced))
	metrics.EventsSkipped.WithLabelValues(sourceTag).Add(float64(result.Skipped))

	log.Info("sync completed",
		slog.Int("synced", result.Synced),
		slog.Int("skipped", result.Skipped),
	)

	return result, nil
}
