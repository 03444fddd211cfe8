package luma

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"nwaevents/internal/config"
	"nwaevents/internal/models/domain"

	"github.com/PuerkitoBio/goquery"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testSource() *Luma {
	return New(testLogger(), config.SourceConfig{
		Targets:       []string{"onwardfx"},
		DefaultStatus: "approved",
		Timeout:       5,
	})
}

const calendarJSON = `{
	"props": {"pageProps": {"initialData": {"data": {"featured_items": [
		{
			"event": {
				"api_id": "evt-1",
				"name": "Founders Coffee",
				"description": "Casual coffee for founders.",
				"start_at": "2026-03-05T14:00:00.000Z",
				"end_at": "2026-03-05T15:30:00.000Z",
				"geo_address_json": {"full_address": "Onyx Coffee Lab, 100 NW 2nd St, Bentonville, AR"},
				"url": "founders-coffee",
				"timezone": "America/Chicago"
			},
			"hosts": [{"name": "Jane Doe", "bio": "Community Lead at Onward", "avatar_url": "https://img.example/jane.png"}]
		},
		{
			"event": {
				"api_id": "evt-2",
				"name": "Remote Demo Day",
				"start_at": "2026-03-10T17:00:00.000Z",
				"url": "remote-demo",
				"location_type": "online",
				"meeting_url": "https://zoom.example/demo"
			},
			"hosts": []
		}
	]}}}}
}`

func docWith(t *testing.T, body string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		t.Fatalf("build document: %v", err)
	}
	return doc
}

func calendarPage(payload string) string {
	return fmt.Sprintf(`<html><body>
		<div id="app">calendar</div>
		<script id="__NEXT_DATA__" type="application/json">%s</script>
	</body></html>`, payload)
}

func TestEntriesFromDoc(t *testing.T) {
	entries, err := entriesFromDoc(docWith(t, calendarPage(calendarJSON)))
	if err != nil {
		t.Fatalf("entriesFromDoc: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	if entries[0].Event.APIID != "evt-1" || len(entries[0].Hosts) != 1 {
		t.Errorf("first entry = %+v", entries[0])
	}
}

func TestEntriesFromDocMissingScript(t *testing.T) {
	_, err := entriesFromDoc(docWith(t, "<html><body>plain page</body></html>"))
	if !errors.Is(err, domain.ErrMalformedPayload) {
		t.Fatalf("err = %v, want ErrMalformedPayload", err)
	}
}

func TestEntriesFromDocBadJSON(t *testing.T) {
	_, err := entriesFromDoc(docWith(t, calendarPage("{not json")))
	if !errors.Is(err, domain.ErrMalformedPayload) {
		t.Fatalf("err = %v, want ErrMalformedPayload", err)
	}
}

func TestEntriesFromDocNoItems(t *testing.T) {
	empty := `{"props": {"pageProps": {"initialData": {"data": {"featured_items": []}}}}}`
	_, err := entriesFromDoc(docWith(t, calendarPage(empty)))
	if !errors.Is(err, domain.ErrMalformedPayload) {
		t.Fatalf("err = %v, want ErrMalformedPayload", err)
	}
}

func TestNormalizeInPerson(t *testing.T) {
	entries, err := entriesFromDoc(docWith(t, calendarPage(calendarJSON)))
	if err != nil {
		t.Fatalf("entriesFromDoc: %v", err)
	}

	got := testSource().Normalize(entries[0])

	if got.SourcePlatform != domain.PlatformLuma || got.SourceID != "evt-1" {
		t.Errorf("source key = %s", got.Key())
	}
	if got.SourceURL != "https://lu.ma/founders-coffee" {
		t.Errorf("source_url = %q", got.SourceURL)
	}

	wantStart := time.Date(2026, 3, 5, 14, 0, 0, 0, time.UTC)
	if !got.StartDate.Equal(wantStart) {
		t.Errorf("start = %v, want %v", got.StartDate, wantStart)
	}
	if got.EndDate == nil {
		t.Fatal("end date lost")
	}

	if got.IsOnline || got.OnlineURL != "" {
		t.Error("in-person event must never set online_url")
	}
	if got.LocationName != "Onyx Coffee Lab" {
		t.Errorf("location_name = %q", got.LocationName)
	}
	if !strings.Contains(got.LocationAddress, "Bentonville") {
		t.Errorf("location_address = %q", got.LocationAddress)
	}

	if got.OrganizerName != "Jane Doe" {
		t.Errorf("organizer = %q", got.OrganizerName)
	}
	if got.OrganizerTitle != "Community Lead" || got.OrganizerCompany != "Onward" {
		t.Errorf("host bio split = %q / %q", got.OrganizerTitle, got.OrganizerCompany)
	}

	if len(got.Categories) != 0 {
		t.Errorf("luma carries no taxonomy; categories = %v", got.Categories)
	}
	if got.Status != domain.EventStatusApproved {
		t.Errorf("status = %q, want the configured default", got.Status)
	}
}

func TestNormalizeOnline(t *testing.T) {
	entries, err := entriesFromDoc(docWith(t, calendarPage(calendarJSON)))
	if err != nil {
		t.Fatalf("entriesFromDoc: %v", err)
	}

	got := testSource().Normalize(entries[1])

	if !got.IsOnline {
		t.Fatal("event with meeting_url must be online")
	}
	if got.OnlineURL != "https://zoom.example/demo" {
		t.Errorf("online_url = %q", got.OnlineURL)
	}
	if got.LocationName != "" || got.LocationAddress != "" {
		t.Error("online event must not carry location fields")
	}
	if got.OrganizerName != domain.OrganizerUnknown {
		t.Errorf("hostless event organizer = %q, want %q", got.OrganizerName, domain.OrganizerUnknown)
	}
	if got.EndDate != nil {
		t.Error("missing end_at must stay nil")
	}
}

func TestParseHostBio(t *testing.T) {
	cases := []struct {
		bio     string
		title   string
		company string
	}{
		{"Community Lead at Onward", "Community Lead", "Onward"},
		{"PM @ Walmart", "PM", "Walmart"},
		{"Just a person", "", ""},
		{"", "", ""},
	}

	for _, tc := range cases {
		title, company := parseHostBio(tc.bio)
		if title != tc.title || company != tc.company {
			t.Errorf("parseHostBio(%q) = %q/%q, want %q/%q", tc.bio, title, company, tc.title, tc.company)
		}
	}
}
