package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// EventStatus represents the moderation state of an event.
type EventStatus string

const (
	// EventStatusPending: waiting for moderation, not publicly visible
	EventStatusPending EventStatus = "pending"
	// EventStatusApproved: published to the public feed
	EventStatusApproved EventStatus = "approved"
	// EventStatusRejected: hidden, kept for the audit trail
	EventStatusRejected EventStatus = "rejected"
)

// ValidStatus reports whether s is one of the three moderation states.
func ValidStatus(s string) bool {
	switch EventStatus(s) {
	case EventStatusPending, EventStatusApproved, EventStatusRejected:
		return true
	default:
		return false
	}
}

// Category is a closed set of event tags. Unknown upstream values must go
// through ParseCategory and collapse to CategoryOther.
type Category string

const (
	CategoryNetworking Category = "networking"
	CategoryProduct    Category = "product"
	CategoryStartup    Category = "startup"
	CategoryTech       Category = "tech"
	CategoryCareer     Category = "career"
	CategoryCommunity  Category = "community"
	CategoryEducation  Category = "education"
	CategoryOther      Category = "other"
)

// Categories lists every member of the closed set.
func Categories() []Category {
	return []Category{
		CategoryNetworking,
		CategoryProduct,
		CategoryStartup,
		CategoryTech,
		CategoryCareer,
		CategoryCommunity,
		CategoryEducation,
		CategoryOther,
	}
}

// ParseCategory maps an arbitrary string onto the closed set.
// Anything unrecognized becomes CategoryOther.
func ParseCategory(s string) Category {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Categories() {
		if c == known {
			return known
		}
	}
	return CategoryOther
}

// DedupCategories removes repeats while keeping first-seen order.
func DedupCategories(cats []Category) []Category {
	seen := make(map[Category]bool, len(cats))
	result := make([]Category, 0, len(cats))
	for _, c := range cats {
		if !seen[c] {
			seen[c] = true
			result = append(result, c)
		}
	}
	return result
}

// Source platform tags.
const (
	PlatformEventbrite = "eventbrite"
	PlatformLuma       = "luma"
	PlatformURLImport  = "url_import"
	PlatformManual     = "manual"
)

// OrganizerUnknown is the required fallback when a source carries no host
// information. Adapters must never leave OrganizerName empty.
const OrganizerUnknown = "Unknown"

// MaxDescriptionLen bounds stored descriptions (and downstream prompt cost).
const MaxDescriptionLen = 2000

// TruncateDescription cuts s to MaxDescriptionLen runes.
func TruncateDescription(s string) string {
	runes := []rune(s)
	if len(runes) <= MaxDescriptionLen {
		return s
	}
	return string(runes[:MaxDescriptionLen])
}

// SourceKey is the composite natural key used for reconciliation.
// Two stored events may never share the same valid SourceKey.
type SourceKey struct {
	Platform string
	ID       string
}

// Valid reports whether both halves of the key are present.
func (k SourceKey) Valid() bool {
	return k.Platform != "" && k.ID != ""
}

func (k SourceKey) String() string {
	return k.Platform + "/" + k.ID
}

// Event - the canonical record every source normalizes into.
type Event struct {
	ID                 uuid.UUID
	Title              string
	Description        string
	StartDate          time.Time
	EndDate            *time.Time
	LocationName       string
	LocationAddress    string
	IsOnline           bool
	OnlineURL          string
	Categories         []Category
	ImageURL           string
	SourceURL          string
	SourcePlatform     string
	SourceID           string
	OrganizerName      string
	OrganizerTitle     string
	OrganizerCompany   string
	OrganizerAvatarURL string
	Status             EventStatus
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// Key returns the composite natural key of the event.
func (e Event) Key() SourceKey {
	return SourceKey{Platform: e.SourcePlatform, ID: e.SourceID}
}

// ParsedEvent is the extraction adapter's output: the canonical shape minus
// provenance and moderation fields, which the caller fills in.
type ParsedEvent struct {
	Title            string     `json:"title"`
	Description      string     `json:"description"`
	StartDate        *time.Time `json:"start_date"`
	EndDate          *time.Time `json:"end_date"`
	LocationName     string     `json:"location_name"`
	LocationAddress  string     `json:"location_address"`
	IsOnline         bool       `json:"is_online"`
	OnlineURL        string     `json:"online_url"`
	Categories       []Category `json:"categories"`
	ImageURL         string     `json:"image_url"`
	OrganizerName    string     `json:"organizer_name"`
	OrganizerTitle   string     `json:"organizer_title"`
	OrganizerCompany string     `json:"organizer_company"`
}
