package eventbrite

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"nwaevents/internal/config"
	"nwaevents/internal/models/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testConfig(targets ...string) config.SourceConfig {
	return config.SourceConfig{
		APIToken:      "test-token",
		Targets:       targets,
		DefaultStatus: "approved",
		Timeout:       5,
	}
}

func nativeFixture(id, name string) NativeEvent {
	return NativeEvent{
		ID:        id,
		Name:      name,
		Summary:   "A talk about things",
		StartDate: "2026-03-01",
		StartTime: "18:00",
		Timezone:  "America/Chicago",
		URL:       "https://www.eventbrite.com/e/" + id,
	}
}

func searchServer(t *testing.T, perQuery func(query string) ([]NativeEvent, int)) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			EventSearch struct {
				Q string `json:"q"`
			} `json:"event_search"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode search body: %v", err)
		}

		natives, status := perQuery(body.EventSearch.Q)
		if status != http.StatusOK {
			w.WriteHeader(status)
			return
		}

		resp := searchResponse{}
		resp.Events.Results = natives
		_ = json.NewEncoder(w).Encode(resp)
	}))
}

func TestFetchPartialFailure(t *testing.T) {
	srv := searchServer(t, func(query string) ([]NativeEvent, int) {
		switch query {
		case "Bentonville Arkansas":
			return []NativeEvent{nativeFixture("E1", "Talk")}, http.StatusOK
		case "Rogers Arkansas":
			return nil, http.StatusInternalServerError
		default:
			return []NativeEvent{nativeFixture("E2", "Workshop")}, http.StatusOK
		}
	})
	defer srv.Close()

	s := New(testLogger(), testConfig("Bentonville Arkansas", "Rogers Arkansas", "Fayetteville Arkansas"))
	s.baseURL = srv.URL

	events, err := s.Fetch(context.Background())
	if err != nil {
		t.Fatalf("a failed query must not fail the fetch: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("got %d events, want the union of the surviving queries (2)", len(events))
	}
}

func TestFetchDedupsAcrossQueries(t *testing.T) {
	srv := searchServer(t, func(string) ([]NativeEvent, int) {
		return []NativeEvent{nativeFixture("E1", "Talk")}, http.StatusOK
	})
	defer srv.Close()

	s := New(testLogger(), testConfig("Bentonville Arkansas", "Rogers Arkansas"))
	s.baseURL = srv.URL

	events, err := s.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1 after cross-query dedup", len(events))
	}
}

func TestFetchNoTargets(t *testing.T) {
	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer srv.Close()

	s := New(testLogger(), testConfig())
	s.baseURL = srv.URL

	events, err := s.Fetch(context.Background())
	if err != nil {
		t.Fatalf("zero targets must be valid: %v", err)
	}
	if len(events) != 0 || calls.Load() != 0 {
		t.Error("zero targets must yield an empty result without requests")
	}
}

func TestFetchMissingCredential(t *testing.T) {
	cfg := testConfig("Bentonville Arkansas")
	cfg.APIToken = ""

	s := New(testLogger(), cfg)

	_, err := s.Fetch(context.Background())
	if !errors.Is(err, domain.ErrSyncFailed) {
		t.Fatalf("err = %v, want ErrSyncFailed", err)
	}
}

func TestFetchMalformedPayload(t *testing.T) {
	bad := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>not json</html>"))
	}))
	defer bad.Close()

	s := New(testLogger(), testConfig("Bentonville Arkansas"))
	s.baseURL = bad.URL

	events, err := s.Fetch(context.Background())
	if err != nil {
		t.Fatalf("malformed payload must be skipped, not fatal: %v", err)
	}
	if len(events) != 0 {
		t.Errorf("got %d events from garbage, want 0", len(events))
	}
}

func TestNormalizeTimezone(t *testing.T) {
	s := New(testLogger(), testConfig())

	event := s.Normalize(nativeFixture("E1", "Talk"))

	// 18:00 in Chicago (CST, UTC-6) on 2026-03-01.
	want := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	if !event.StartDate.Equal(want) {
		t.Errorf("start = %v, want %v", event.StartDate, want)
	}
	if event.EndDate != nil {
		t.Error("missing end date/time must stay nil, not zero duration")
	}
}

func TestNormalizeOnlineInvariant(t *testing.T) {
	s := New(testLogger(), testConfig())

	online := nativeFixture("E1", "Webinar")
	online.IsOnlineEvent = true
	got := s.Normalize(online)

	if !got.IsOnline || got.OnlineURL != online.URL {
		t.Errorf("online event: is_online=%v online_url=%q", got.IsOnline, got.OnlineURL)
	}
	if got.LocationName != "" || got.LocationAddress != "" {
		t.Error("online event must not carry location fields")
	}

	inPerson := nativeFixture("E2", "Meetup")
	inPerson.PrimaryVenue = &struct {
		Name    string `json:"name"`
		Address *struct {
			LocalizedAddressDisplay string `json:"localized_address_display"`
		} `json:"address"`
	}{Name: "Record"}
	got = s.Normalize(inPerson)

	if got.IsOnline || got.OnlineURL != "" {
		t.Error("in-person event must never set online_url")
	}
	if got.LocationName != "Record" {
		t.Errorf("location = %q", got.LocationName)
	}
}

func TestNormalizeOrganizerFallback(t *testing.T) {
	s := New(testLogger(), testConfig())

	got := s.Normalize(nativeFixture("E1", "Talk"))
	if got.OrganizerName != domain.OrganizerUnknown {
		t.Errorf("organizer = %q, want %q", got.OrganizerName, domain.OrganizerUnknown)
	}
}

func TestNormalizeCategories(t *testing.T) {
	s := New(testLogger(), testConfig())

	native := nativeFixture("E1", "Talk")
	native.Tags = []struct {
		Prefix      string `json:"prefix"`
		DisplayName string `json:"display_name"`
	}{
		{Prefix: "EventbriteCategory", DisplayName: "Science & Technology"},
		{Prefix: "EventbriteCategory", DisplayName: "Music"},
		{Prefix: "EventbriteCategory", DisplayName: "Food & Drink"}, // maps to community too
		{Prefix: "EventbriteFormat", DisplayName: "Science & Technology"},
		{Prefix: "EventbriteCategory", DisplayName: "Something Unmapped"},
	}

	got := s.Normalize(native)

	if len(got.Categories) != 2 {
		t.Fatalf("categories = %v, want deduplicated [tech community]", got.Categories)
	}
	for _, c := range got.Categories {
		valid := false
		for _, known := range domain.Categories() {
			if c == known {
				valid = true
			}
		}
		if !valid {
			t.Errorf("category %q escaped the closed set", c)
		}
	}

	bare := nativeFixture("E2", "Untagged")
	if got := s.Normalize(bare); len(got.Categories) != 1 || got.Categories[0] != domain.CategoryOther {
		t.Errorf("untagged event categories = %v, want [other]", got.Categories)
	}
}

func TestNormalizeDescriptionTruncated(t *testing.T) {
	s := New(testLogger(), testConfig())

	native := nativeFixture("E1", "Talk")
	native.Summary = ""
	for range 300 {
		native.FullDescription += "0123456789"
	}

	got := s.Normalize(native)
	if n := len([]rune(got.Description)); n != domain.MaxDescriptionLen {
		t.Errorf("description length = %d, want %d", n, domain.MaxDescriptionLen)
	}
}
