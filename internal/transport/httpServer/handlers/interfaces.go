package handlers

import (
	"context"

	"nwaevents/internal/models/domain"
	"nwaevents/internal/reconcile"
	"nwaevents/internal/repositories"

	"github.com/google/uuid"
)

// EventRepository is the store surface the event handlers need.
type EventRepository interface {
	CreateEvent(ctx context.Context, event domain.Event) (domain.Event, error)
	FindEventByID(ctx context.Context, id uuid.UUID) (domain.Event, error)
	UpdateEvent(ctx context.Context, event domain.Event) (domain.Event, error)
	UpdateEventStatus(ctx context.Context, id uuid.UUID, status string) error
	DeleteEvent(ctx context.Context, id uuid.UUID) error
	ListEvents(ctx context.Context, q repositories.EventQuery) ([]domain.Event, error)
}

// SubscriberRepository captures newsletter signups.
type SubscriberRepository interface {
	CreateSubscriber(ctx context.Context, email string) (bool, error)
}

// Syncer runs one source's fetch+reconcile pipeline.
type Syncer interface {
	Sync(ctx context.Context, sourceTag string) (reconcile.SyncResult, error)
}

// Extractor turns a fetched page into a best-effort structured event.
type Extractor interface {
	Extract(ctx context.Context, url string, html string) (domain.ParsedEvent, error)
}

// Notifier tells moderators about new pending events.
type Notifier interface {
	PendingEvent(event domain.Event)
}
