package luma

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"sync"
	"time"

	"nwaevents/internal/config"
	"nwaevents/internal/models/domain"
	"nwaevents/internal/utils/logger/sl"

	"github.com/PuerkitoBio/goquery"
	"github.com/geziyor/geziyor"
	"github.com/geziyor/geziyor/client"
)

const (
	calendarBaseURL = "https://luma.com/"
	eventBaseURL    = "https://lu.ma/"

	userAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

// NativeEvent is Luma's own event shape, as embedded in a calendar page's
// __NEXT_DATA__ script.
type NativeEvent struct {
	APIID          string  `json:"api_id"`
	Name           string  `json:"name"`
	Description    string  `json:"description"`
	StartAt        string  `json:"start_at"`
	EndAt          string  `json:"end_at"`
	GeoAddressJSON *struct {
		City        string `json:"city"`
		FullAddress string `json:"full_address"`
	} `json:"geo_address_json"`
	URL          string `json:"url"`
	CoverURL     string `json:"cover_url"`
	Timezone     string `json:"timezone"`
	LocationType string `json:"location_type"`
	MeetingURL   string `json:"meeting_url"`
}

type NativeHost struct {
	Name      string `json:"name"`
	Bio       string `json:"bio"`
	AvatarURL string `json:"avatar_url"`
}

// NativeEntry pairs one event with its hosts, as listed in featured_items.
type NativeEntry struct {
	Event *NativeEvent `json:"event"`
	Hosts []NativeHost `json:"hosts"`
}

type nextData struct {
	Props struct {
		PageProps struct {
			InitialData struct {
				Data struct {
					FeaturedItems []NativeEntry `json:"featured_items"`
				} `json:"data"`
			} `json:"initialData"`
		} `json:"pageProps"`
	} `json:"props"`
}

// hostBioRe splits bios shaped like "Engineering Lead at Acme" into
// title and company.
var hostBioRe = regexp.MustCompile(`(?i)(.+?)\s+(?:at|@)\s+(.+)`)

// Luma scrapes public calendar pages for every configured calendar slug.
// Luma has no listing API; the page embeds its data in a JSON script tag.
type Luma struct {
	logger *slog.Logger
	cfg    config.SourceConfig
}

func New(logger *slog.Logger, cfg config.SourceConfig) *Luma {
	return &Luma{
		logger: logger,
		cfg:    cfg,
	}
}

func (s *Luma) Name() string {
	return domain.PlatformLuma
}

// Fetch crawls one calendar page per configured slug and normalizes every
// embedded event. A slug whose page fails to load or parse is logged and
// skipped; the remaining slugs still contribute.
func (s *Luma) Fetch(ctx context.Context) ([]domain.Event, error) {
	op := "luma.Fetch()"
	log := s.logger.With(slog.String("op", op))

	if len(s.cfg.Targets) == 0 {
		return nil, nil
	}

	startURLs := make([]string, 0, len(s.cfg.Targets))
	for _, slug := range s.cfg.Targets {
		startURLs = append(startURLs, calendarBaseURL+strings.TrimSpace(slug))
	}

	var mu sync.Mutex
	var entries []NativeEntry
	parsedURLs := make(map[string]bool)

	gez := geziyor.NewGeziyor(&geziyor.Options{
		StartURLs: startURLs,
		UserAgent: userAgent,
		Timeout:   time.Duration(s.cfg.Timeout) * time.Second,
		ParseFunc: func(g *geziyor.Geziyor, r *client.Response) {
			pageEntries, err := entriesFromDoc(r.HTMLDoc)
			mu.Lock()
			defer mu.Unlock()
			parsedURLs[r.Request.URL.String()] = true
			if err != nil {
				log.Error("cannot parse calendar page",
					slog.String("url", r.Request.URL.String()),
					sl.Err(err),
				)
				return
			}
			entries = append(entries, pageEntries...)
		},
	})
	gez.Start()

	mu.Lock()
	defer mu.Unlock()

	for _, u := range startURLs {
		if !parsedURLs[u] {
			log.Error("calendar page was not fetched, skipping", slog.String("url", u))
		}
	}

	// Overlapping calendars can list the same event.
	seen := make(map[string]bool)
	var events []domain.Event
	for _, entry := range entries {
		if entry.Event == nil || seen[entry.Event.APIID] {
			continue
		}
		seen[entry.Event.APIID] = true
		events = append(events, s.Normalize(entry))
	}

	log.Info("luma fetch completed",
		slog.Int("calendars", len(s.cfg.Targets)),
		slog.Int("events", len(events)),
	)

	return events, nil
}

// entriesFromDoc locates the __NEXT_DATA__ script in a calendar page and
// decodes its featured_items list.
func entriesFromDoc(doc *goquery.Document) ([]NativeEntry, error) {
	raw := doc.Find(`script#__NEXT_DATA__`).Text()
	if raw == "" {
		return nil, fmt.Errorf("%w: no __NEXT_DATA__ script in page", domain.ErrMalformedPayload)
	}

	var data nextData
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrMalformedPayload, err)
	}

	items := data.Props.PageProps.InitialData.Data.FeaturedItems
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: no featured_items in page data", domain.ErrMalformedPayload)
	}

	return items, nil
}

// Normalize maps one calendar entry into a canonical event.
func (s *Luma) Normalize(entry NativeEntry) domain.Event {
	native := entry.Event

	isOnline := native.LocationType == "online" || native.MeetingURL != ""

	event := domain.Event{
		Title:          native.Name,
		Description:    domain.TruncateDescription(native.Description),
		StartDate:      parseInstant(native.StartAt),
		IsOnline:       isOnline,
		Categories:     []domain.Category{},
		ImageURL:       native.CoverURL,
		SourceURL:      eventBaseURL + native.URL,
		SourcePlatform: domain.PlatformLuma,
		SourceID:       native.APIID,
		OrganizerName:  domain.OrganizerUnknown,
		Status:         domain.EventStatus(s.cfg.DefaultStatus),
	}

	if native.EndAt != "" {
		end := parseInstant(native.EndAt)
		event.EndDate = &end
	}

	if isOnline {
		event.OnlineURL = native.MeetingURL
	} else if native.GeoAddressJSON != nil {
		full := native.GeoAddressJSON.FullAddress
		event.LocationAddress = full
		if i := strings.Index(full, ","); i > 0 {
			event.LocationName = full[:i]
		} else {
			event.LocationName = full
		}
	}

	if len(entry.Hosts) > 0 {
		host := entry.Hosts[0]
		if host.Name != "" {
			event.OrganizerName = host.Name
		}
		event.OrganizerAvatarURL = host.AvatarURL
		event.OrganizerTitle, event.OrganizerCompany = parseHostBio(host.Bio)
	}

	return event
}

// parseHostBio splits a "Title at Company" bio. Both halves are empty when
// the bio does not match.
func parseHostBio(bio string) (title, company string) {
	if bio == "" {
		return "", ""
	}
	m := hostBioRe.FindStringSubmatch(bio)
	if m == nil {
		return "", ""
	}
	return strings.TrimSpace(m[1]), strings.TrimSpace(m[2])
}

// parseInstant decodes Luma's RFC3339 timestamps to UTC.
func parseInstant(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t.UTC()
}
