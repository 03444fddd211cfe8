package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"nwaevents/internal/models/domain"
	"nwaevents/internal/models/repositories"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

const eventColumns = `id, title, description, start_date, end_date, location_name, location_address,
	is_online, online_url, categories, image_url, source_url, source_platform, source_id,
	organizer_name, organizer_title, organizer_company, organizer_avatar_url, status,
	created_at, updated_at`

// ErrEventNotFound is returned by lookups that matched no row.
var ErrEventNotFound = errors.New("event not found")

func (r *Repository) CreateEvent(ctx context.Context, event domain.Event) (domain.Event, error) {
	op := "repository.CreateEvent()"

	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}

	repoEvent := mapToRepo(event)

	insertQuery := `INSERT INTO events (
		id, title, description, start_date, end_date, location_name, location_address,
		is_online, online_url, categories, image_url, source_url, source_platform, source_id,
		organizer_name, organizer_title, organizer_company, organizer_avatar_url, status,
		created_at, updated_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)`

	_, err := r.DB.ExecContext(ctx, insertQuery,
		repoEvent.ID,
		repoEvent.Title,
		repoEvent.Description,
		repoEvent.StartDate,
		repoEvent.EndDate,
		repoEvent.LocationName,
		repoEvent.LocationAddress,
		repoEvent.IsOnline,
		repoEvent.OnlineURL,
		repoEvent.Categories,
		repoEvent.ImageURL,
		repoEvent.SourceURL,
		repoEvent.SourcePlatform,
		repoEvent.SourceID,
		repoEvent.OrganizerName,
		repoEvent.OrganizerTitle,
		repoEvent.OrganizerCompany,
		repoEvent.OrganizerAvatarURL,
		repoEvent.Status,
	)
	if err != nil {
		return domain.Event{}, fmt.Errorf("%s: %w", op, err)
	}

	return event, nil
}

// UpsertEvent inserts the event or, when a row with the same
// (source_platform, source_id) already exists, overwrites its fields with the
// candidate's values. id, status and created_at of the existing row are kept
// so re-syncs never regress a moderation decision; updated_at is refreshed.
// The event must carry a valid source key.
func (r *Repository) UpsertEvent(ctx context.Context, event domain.Event) error {
	op := "repository.UpsertEvent()"

	if !event.Key().Valid() {
		return fmt.Errorf("%s: event has no source key", op)
	}

	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}

	repoEvent := mapToRepo(event)

	upsertQuery := `INSERT INTO events (
		id, title, description, start_date, end_date, location_name, location_address,
		is_online, online_url, categories, image_url, source_url, source_platform, source_id,
		organizer_name, organizer_title, organizer_company, organizer_avatar_url, status,
		created_at, updated_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
	ON CONFLICT (source_platform, source_id) WHERE source_platform <> '' AND source_id <> ''
	DO UPDATE SET
		title = EXCLUDED.title,
		description = EXCLUDED.description,
		start_date = EXCLUDED.start_date,
		end_date = EXCLUDED.end_date,
		location_name = EXCLUDED.location_name,
		location_address = EXCLUDED.location_address,
		is_online = EXCLUDED.is_online,
		online_url = EXCLUDED.online_url,
		categories = EXCLUDED.categories,
		image_url = EXCLUDED.image_url,
		source_url = EXCLUDED.source_url,
		organizer_name = EXCLUDED.organizer_name,
		organizer_title = EXCLUDED.organizer_title,
		organizer_company = EXCLUDED.organizer_company,
		organizer_avatar_url = EXCLUDED.organizer_avatar_url,
		updated_at = CURRENT_TIMESTAMP`

	_, err := r.DB.ExecContext(ctx, upsertQuery,
		repoEvent.ID,
		repoEvent.Title,
		repoEvent.Description,
		repoEvent.StartDate,
		repoEvent.EndDate,
		repoEvent.LocationName,
		repoEvent.LocationAddress,
		repoEvent.IsOnline,
		repoEvent.OnlineURL,
		repoEvent.Categories,
		repoEvent.ImageURL,
		repoEvent.SourceURL,
		repoEvent.SourcePlatform,
		repoEvent.SourceID,
		repoEvent.OrganizerName,
		repoEvent.OrganizerTitle,
		repoEvent.OrganizerCompany,
		repoEvent.OrganizerAvatarURL,
		repoEvent.Status,
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (r *Repository) FindEventByID(ctx context.Context, id uuid.UUID) (domain.Event, error) {
	var repoEvent repositories.Event
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1 LIMIT 1`

	err := r.DB.GetContext(ctx, &repoEvent, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Event{}, fmt.Errorf("%w: id %s", ErrEventNotFound, id)
		}
		return domain.Event{}, fmt.Errorf("error in FindEventByID(): %w", err)
	}

	return mapToDomain(repoEvent), nil
}

func (r *Repository) FindEventBySourceKey(ctx context.Context, key domain.SourceKey) (domain.Event, error) {
	var repoEvent repositories.Event
	query := `SELECT ` + eventColumns + ` FROM events WHERE source_platform = $1 AND source_id = $2 LIMIT 1`

	err := r.DB.GetContext(ctx, &repoEvent, query, key.Platform, key.ID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Event{}, fmt.Errorf("%w: key %s", ErrEventNotFound, key)
		}
		return domain.Event{}, fmt.Errorf("error in FindEventBySourceKey(): %w", err)
	}

	return mapToDomain(repoEvent), nil
}

func (r *Repository) UpdateEvent(ctx context.Context, event domain.Event) (domain.Event, error) {
	repoEvent := mapToRepo(event)

	updateQuery := `UPDATE events SET
		title = $1, description = $2, start_date = $3, end_date = $4,
		location_name = $5, location_address = $6, is_online = $7, online_url = $8,
		categories = $9, image_url = $10, source_url = $11,
		organizer_name = $12, organizer_title = $13, organizer_company = $14, organizer_avatar_url = $15,
		status = $16, updated_at = CURRENT_TIMESTAMP
		WHERE id = $17`

	result, err := r.DB.ExecContext(ctx, updateQuery,
		repoEvent.Title,
		repoEvent.Description,
		repoEvent.StartDate,
		repoEvent.EndDate,
		repoEvent.LocationName,
		repoEvent.LocationAddress,
		repoEvent.IsOnline,
		repoEvent.OnlineURL,
		repoEvent.Categories,
		repoEvent.ImageURL,
		repoEvent.SourceURL,
		repoEvent.OrganizerName,
		repoEvent.OrganizerTitle,
		repoEvent.OrganizerCompany,
		repoEvent.OrganizerAvatarURL,
		repoEvent.Status,
		repoEvent.ID,
	)
	if err != nil {
		return domain.Event{}, fmt.Errorf("error in UpdateEvent(): %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return domain.Event{}, fmt.Errorf("error checking rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return domain.Event{}, fmt.Errorf("%w: id %s", ErrEventNotFound, event.ID)
	}

	return event, nil
}

func (r *Repository) UpdateEventStatus(ctx context.Context, id uuid.UUID, status string) error {
	updateQuery := `UPDATE events SET status = $1, updated_at = CURRENT_TIMESTAMP WHERE id = $2`

	result, err := r.DB.ExecContext(ctx, updateQuery, status, id)
	if err != nil {
		return fmt.Errorf("error in UpdateEventStatus(): %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("error checking rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("%w: id %s", ErrEventNotFound, id)
	}

	return nil
}

func (r *Repository) DeleteEvent(ctx context.Context, id uuid.UUID) error {
	deleteQuery := `DELETE FROM events WHERE id = $1`

	result, err := r.DB.ExecContext(ctx, deleteQuery, id)
	if err != nil {
		return fmt.Errorf("error in DeleteEvent(): %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("error checking rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("%w: id %s", ErrEventNotFound, id)
	}

	return nil
}

// EventQuery filters ListEvents. An empty Status means any status;
// UpcomingOnly keeps events whose start date is in the future.
type EventQuery struct {
	Status       domain.EventStatus
	UpcomingOnly bool
}

// ListEvents returns events ordered by start date ascending.
func (r *Repository) ListEvents(ctx context.Context, q EventQuery) ([]domain.Event, error) {
	var repoEvents []repositories.Event

	query := `SELECT ` + eventColumns + ` FROM events WHERE 1=1`
	args := []interface{}{}

	if q.Status != "" {
		args = append(args, string(q.Status))
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if q.UpcomingOnly {
		query += " AND start_date >= CURRENT_TIMESTAMP"
	}
	query += " ORDER BY start_date ASC"

	err := r.DB.SelectContext(ctx, &repoEvents, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error in ListEvents(): %w", err)
	}

	result := make([]domain.Event, len(repoEvents))
	for i, e := range repoEvents {
		result[i] = mapToDomain(e)
	}

	return result, nil
}

func mapToRepo(e domain.Event) repositories.Event {
	categories := make(pq.StringArray, len(e.Categories))
	for i, c := range e.Categories {
		categories[i] = string(c)
	}

	return repositories.Event{
		BaseModel: repositories.BaseModel{
			ID: e.ID,
		},
		Title:              e.Title,
		Description:        e.Description,
		StartDate:          e.StartDate,
		EndDate:            e.EndDate,
		LocationName:       e.LocationName,
		LocationAddress:    e.LocationAddress,
		IsOnline:           e.IsOnline,
		OnlineURL:          e.OnlineURL,
		Categories:         categories,
		ImageURL:           e.ImageURL,
		SourceURL:          e.SourceURL,
		SourcePlatform:     e.SourcePlatform,
		SourceID:           e.SourceID,
		OrganizerName:      e.OrganizerName,
		OrganizerTitle:     e.OrganizerTitle,
		OrganizerCompany:   e.OrganizerCompany,
		OrganizerAvatarURL: e.OrganizerAvatarURL,
		Status:             string(e.Status),
	}
}

func mapToDomain(e repositories.Event) domain.Event {
	categories := make([]domain.Category, len(e.Categories))
	for i, c := range e.Categories {
		categories[i] = domain.Category(c)
	}

	return domain.Event{
		ID:                 e.ID,
		Title:              e.Title,
		Description:        e.Description,
		StartDate:          e.StartDate,
		EndDate:            e.EndDate,
		LocationName:       e.LocationName,
		LocationAddress:    e.LocationAddress,
		IsOnline:           e.IsOnline,
		OnlineURL:          e.OnlineURL,
		Categories:         categories,
		ImageURL:           e.ImageURL,
		SourceURL:          e.SourceURL,
		SourcePlatform:     e.SourcePlatform,
		SourceID:           e.SourceID,
		OrganizerName:      e.OrganizerName,
		OrganizerTitle:     e.OrganizerTitle,
		OrganizerCompany:   e.OrganizerCompany,
		OrganizerAvatarURL: e.OrganizerAvatarURL,
		Status:             domain.EventStatus(e.Status),
		CreatedAt:          e.CreatedAt,
		UpdatedAt:          e.UpdatedAt,
	}
}
