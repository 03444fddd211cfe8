package dto

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"nwaevents/internal/models/domain"
)

// FlexibleStringSlice accepts both a string and an array of strings on
// decode. Models occasionally return a lone string for a one-element list.
type FlexibleStringSlice []string

func (f *FlexibleStringSlice) UnmarshalJSON(data []byte) error {
	var arr []string
	if err := json.Unmarshal(data, &arr); err == nil {
		*f = arr
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if s != "" {
			*f = []string{s}
		} else {
			*f = nil
		}
		return nil
	}

	return fmt.Errorf("categories: expected string or []string, got %s", string(data))
}

// ParsedEventSchema is the field set the extraction prompt asks the model
// for. All optional fields tolerate null.
type ParsedEventSchema struct {
	Title            string              `json:"title"`
	Description      string              `json:"description"`
	StartDate        string              `json:"start_date"`
	EndDate          string              `json:"end_date"`
	LocationName     string              `json:"location_name"`
	LocationAddress  string              `json:"location_address"`
	IsOnline         bool                `json:"is_online"`
	OnlineURL        string              `json:"online_url"`
	Categories       FlexibleStringSlice `json:"categories"`
	ImageURL         string              `json:"image_url"`
	OrganizerName    string              `json:"organizer_name"`
	OrganizerTitle   string              `json:"organizer_title"`
	OrganizerCompany string              `json:"organizer_company"`
}

// dateLayouts are tried in order when parsing model-reported datetimes.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

func parseDate(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			t = t.UTC()
			return &t
		}
	}
	return nil
}

// ToDomain converts the decoded schema into the canonical parsed shape,
// enforcing the category closure, the organizer fallback and the online/
// location invariant.
func (e ParsedEventSchema) ToDomain() domain.ParsedEvent {
	categories := make([]domain.Category, 0, len(e.Categories))
	for _, c := range e.Categories {
		categories = append(categories, domain.ParseCategory(c))
	}
	categories = domain.DedupCategories(categories)

	organizer := strings.TrimSpace(e.OrganizerName)
	if organizer == "" {
		organizer = domain.OrganizerUnknown
	}

	parsed := domain.ParsedEvent{
		Title:            strings.TrimSpace(e.Title),
		Description:      domain.TruncateDescription(e.Description),
		StartDate:        parseDate(e.StartDate),
		EndDate:          parseDate(e.EndDate),
		IsOnline:         e.IsOnline,
		Categories:       categories,
		ImageURL:         e.ImageURL,
		OrganizerName:    organizer,
		OrganizerTitle:   e.OrganizerTitle,
		OrganizerCompany: e.OrganizerCompany,
	}

	if e.IsOnline {
		parsed.OnlineURL = e.OnlineURL
	} else {
		parsed.LocationName = e.LocationName
		parsed.LocationAddress = e.LocationAddress
	}

	return parsed
}
