package dto

import (
	"time"

	"nwaevents/internal/models/domain"

	"github.com/google/uuid"
)

// EventResponse is the wire shape of one event.
type EventResponse struct {
	ID                 uuid.UUID  `json:"id"`
	Title              string     `json:"title"`
	Description        string     `json:"description"`
	StartDate          time.Time  `json:"start_date"`
	EndDate            *time.Time `json:"end_date"`
	LocationName       string     `json:"location_name"`
	LocationAddress    string     `json:"location_address"`
	IsOnline           bool       `json:"is_online"`
	OnlineURL          string     `json:"online_url"`
	Categories         []string   `json:"categories"`
	ImageURL           string     `json:"image_url"`
	SourceURL          string     `json:"source_url"`
	SourcePlatform     string     `json:"source_platform"`
	SourceID           string     `json:"source_id"`
	OrganizerName      string     `json:"organizer_name"`
	OrganizerTitle     string     `json:"organizer_title"`
	OrganizerCompany   string     `json:"organizer_company"`
	OrganizerAvatarURL string     `json:"organizer_avatar_url"`
	Status             string     `json:"status"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

// CreateEventRequest covers manual submissions and the explicit create call
// after a URL import. Status defaults to pending when absent.
type CreateEventRequest struct {
	Title              string     `json:"title"`
	Description        string     `json:"description"`
	StartDate          time.Time  `json:"start_date"`
	EndDate            *time.Time `json:"end_date"`
	LocationName       string     `json:"location_name"`
	LocationAddress    string     `json:"location_address"`
	IsOnline           bool       `json:"is_online"`
	OnlineURL          string     `json:"online_url"`
	Categories         []string   `json:"categories"`
	ImageURL           string     `json:"image_url"`
	SourceURL          string     `json:"source_url"`
	SourcePlatform     string     `json:"source_platform"`
	SourceID           string     `json:"source_id"`
	OrganizerName      string     `json:"organizer_name"`
	OrganizerTitle     string     `json:"organizer_title"`
	OrganizerCompany   string     `json:"organizer_company"`
	OrganizerAvatarURL string     `json:"organizer_avatar_url"`
	Status             string     `json:"status"`
}

// ChangeEventRequest fully replaces an event's fields.
type ChangeEventRequest = CreateEventRequest

// UpdateStatusRequest changes only the moderation status.
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

func MapDomainToEventResponse(e domain.Event) EventResponse {
	categories := make([]string, len(e.Categories))
	for i, c := range e.Categories {
		categories[i] = string(c)
	}

	return EventResponse{
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
		Status:             string(e.Status),
		CreatedAt:          e.CreatedAt,
		UpdatedAt:          e.UpdatedAt,
	}
}

func MapDomainToEventResponseList(events []domain.Event) []EventResponse {
	result := make([]EventResponse, len(events))
	for i, e := range events {
		result[i] = MapDomainToEventResponse(e)
	}
	return result
}

// MapEventRequestToDomain converts a request into the canonical model,
// enforcing the category closure, organizer fallback, description bound and
// the online/location invariant.
func MapEventRequestToDomain(req CreateEventRequest, id uuid.UUID) domain.Event {
	categories := make([]domain.Category, 0, len(req.Categories))
	for _, c := range req.Categories {
		categories = append(categories, domain.ParseCategory(c))
	}
	categories = domain.DedupCategories(categories)

	organizer := req.OrganizerName
	if organizer == "" {
		organizer = domain.OrganizerUnknown
	}

	event := domain.Event{
		ID:                 id,
		Title:              req.Title,
		Description:        domain.TruncateDescription(req.Description),
		StartDate:          req.StartDate,
		EndDate:            req.EndDate,
		IsOnline:           req.IsOnline,
		Categories:         categories,
		ImageURL:           req.ImageURL,
		SourceURL:          req.SourceURL,
		SourcePlatform:     req.SourcePlatform,
		SourceID:           req.SourceID,
		OrganizerName:      organizer,
		OrganizerTitle:     req.OrganizerTitle,
		OrganizerCompany:   req.OrganizerCompany,
		OrganizerAvatarURL: req.OrganizerAvatarURL,
		Status:             domain.EventStatus(req.Status),
	}

	if event.IsOnline {
		event.OnlineURL = req.OnlineURL
	} else {
		event.LocationName = req.LocationName
		event.LocationAddress = req.LocationAddress
	}

	return event
}
