package eventbrite

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"nwaevents/internal/config"
	"nwaevents/internal/models/domain"
	"nwaevents/internal/utils/logger/sl"
)

const defaultBaseURL = "https://www.eventbriteapi.com/v3"

// categoryMap translates Eventbrite category display names into the
// canonical set. Unmapped names are dropped; an empty result collapses
// to "other".
var categoryMap = map[string]domain.Category{
	"Business & Professional":   domain.CategoryNetworking,
	"Science & Technology":      domain.CategoryTech,
	"Community & Culture":       domain.CategoryCommunity,
	"Education":                 domain.CategoryEducation,
	"Career":                    domain.CategoryCareer,
	"Startups & Small Business": domain.CategoryStartup,
	"Food & Drink":              domain.CategoryCommunity,
	"Music":                     domain.CategoryCommunity,
	"Charity & Causes":          domain.CategoryCommunity,
}

// NativeEvent is Eventbrite's own representation of one listing, as returned
// by the destination search endpoint.
type NativeEvent struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Summary         string `json:"summary"`
	FullDescription string `json:"full_description"`
	StartDate       string `json:"start_date"`
	StartTime       string `json:"start_time"`
	EndDate         string `json:"end_date"`
	EndTime         string `json:"end_time"`
	Timezone        string `json:"timezone"`
	IsOnlineEvent   bool   `json:"is_online_event"`
	URL             string `json:"url"`
	Tags            []struct {
		Prefix      string `json:"prefix"`
		DisplayName string `json:"display_name"`
	} `json:"tags"`
	PrimaryVenue *struct {
		Name    string `json:"name"`
		Address *struct {
			LocalizedAddressDisplay string `json:"localized_address_display"`
		} `json:"address"`
	} `json:"primary_venue"`
	Image *struct {
		URL string `json:"url"`
	} `json:"image"`
	PrimaryOrganizer *struct {
		Name string `json:"name"`
	} `json:"primary_organizer"`
}

type searchResponse struct {
	Events struct {
		Results []NativeEvent `json:"results"`
	} `json:"events"`
}

// Eventbrite polls the destination search API for every configured
// geographic query.
type Eventbrite struct {
	logger  *slog.Logger
	cfg     config.SourceConfig
	client  *http.Client
	baseURL string
}

func New(logger *slog.Logger, cfg config.SourceConfig) *Eventbrite {
	return &Eventbrite{
		logger:  logger,
		cfg:     cfg,
		client:  &http.Client{Timeout: time.Duration(cfg.Timeout) * time.Second},
		baseURL: defaultBaseURL,
	}
}

func (s *Eventbrite) Name() string {
	return domain.PlatformEventbrite
}

// Fetch runs one destination search per configured query target, dedupes
// native ids across overlapping queries, and normalizes the union.
// A failed query is logged and skipped; a missing API token is fatal.
func (s *Eventbrite) Fetch(ctx context.Context) ([]domain.Event, error) {
	op := "eventbrite.Fetch()"
	log := s.logger.With(slog.String("op", op))

	if s.cfg.APIToken == "" {
		return nil, fmt.Errorf("%s: EVENTBRITE_API_KEY not configured: %w", op, domain.ErrSyncFailed)
	}

	seen := make(map[string]bool)
	var events []domain.Event

	for _, query := range s.cfg.Targets {
		natives, err := s.search(ctx, query)
		if err != nil {
			log.Error("search failed, skipping query",
				slog.String("query", query),
				sl.Err(err),
			)
			continue
		}

		for _, native := range natives {
			if seen[native.ID] {
				continue
			}
			seen[native.ID] = true
			events = append(events, s.Normalize(native))
		}
	}

	log.Info("eventbrite fetch completed",
		slog.Int("queries", len(s.cfg.Targets)),
		slog.Int("events", len(events)),
	)

	return events, nil
}

func (s *Eventbrite) search(ctx context.Context, query string) ([]NativeEvent, error) {
	body := map[string]interface{}{
		"event_search": map[string]interface{}{
			"dates":     "current_future",
			"dedup":     true,
			"q":         query,
			"page":      1,
			"page_size": 20,
		},
		"expand.destination_event": []string{
			"primary_venue",
			"image",
			"primary_organizer",
		},
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal search payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/destination/search/", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.cfg.APIToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrUpstreamFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: status %d", domain.ErrUpstreamFetch, resp.StatusCode)
	}

	var parsed searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrMalformedPayload, err)
	}

	return parsed.Events.Results, nil
}

// Normalize maps one native listing into a canonical event. Total over any
// well-formed NativeEvent: every required canonical field gets a default.
func (s *Eventbrite) Normalize(native NativeEvent) domain.Event {
	description := native.Summary
	if description == "" {
		description = native.FullDescription
	}

	event := domain.Event{
		Title:          native.Name,
		Description:    domain.TruncateDescription(description),
		StartDate:      toInstant(native.StartDate, native.StartTime, native.Timezone),
		Categories:     mapCategories(native),
		SourceURL:      native.URL,
		SourcePlatform: domain.PlatformEventbrite,
		SourceID:       native.ID,
		OrganizerName:  domain.OrganizerUnknown,
		IsOnline:       native.IsOnlineEvent,
		Status:         domain.EventStatus(s.cfg.DefaultStatus),
	}

	if native.EndDate != "" && native.EndTime != "" {
		end := toInstant(native.EndDate, native.EndTime, native.Timezone)
		event.EndDate = &end
	}

	if native.IsOnlineEvent {
		event.OnlineURL = native.URL
	} else if native.PrimaryVenue != nil {
		event.LocationName = native.PrimaryVenue.Name
		if native.PrimaryVenue.Address != nil {
			event.LocationAddress = native.PrimaryVenue.Address.LocalizedAddressDisplay
		}
	}

	if native.Image != nil {
		event.ImageURL = native.Image.URL
	}

	if native.PrimaryOrganizer != nil && native.PrimaryOrganizer.Name != "" {
		event.OrganizerName = native.PrimaryOrganizer.Name
	}

	return event
}

func mapCategories(native NativeEvent) []domain.Category {
	var cats []domain.Category
	for _, tag := range native.Tags {
		if tag.Prefix != "EventbriteCategory" || tag.DisplayName == "" {
			continue
		}
		if mapped, ok := categoryMap[tag.DisplayName]; ok {
			cats = append(cats, mapped)
		}
	}
	cats = domain.DedupCategories(cats)
	if len(cats) == 0 {
		cats = []domain.Category{domain.CategoryOther}
	}
	return cats
}

// toInstant combines Eventbrite's local date, local time and IANA timezone
// into a UTC instant. An unknown timezone falls back to UTC.
func toInstant(date, clock, timezone string) time.Time {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		loc = time.UTC
	}

	t, err := time.ParseInLocation("2006-01-02 15:04", date+" "+clock, loc)
	if err != nil {
		// Some listings carry seconds in the time part.
		t, err = time.ParseInLocation("2006-01-02 15:04:05", date+" "+clock, loc)
		if err != nil {
			return time.Time{}
		}
	}

	return t.UTC()
}
