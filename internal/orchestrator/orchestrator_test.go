package orchestrator

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"nwaevents/internal/models/domain"
	"nwaevents/internal/reconcile"
	"nwaevents/internal/sources"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeSource struct {
	name  string
	batch []domain.Event
	err   error
}

func (s *fakeSource) Name() string { return s.name }

func (s *fakeSource) Fetch(context.Context) ([]domain.Event, error) {
	return s.batch, s.err
}

type fakeEngine struct {
	got    []domain.Event
	result reconcile.SyncResult
}

func (e *fakeEngine) Reconcile(_ context.Context, batch []domain.Event) reconcile.SyncResult {
	e.got = batch
	return e.result
}

func TestSyncUnknownSource(t *testing.T) {
	o := New(testLogger(), sources.NewRegistry(), &fakeEngine{})

	_, err := o.Sync(context.Background(), "nope")
	if !errors.Is(err, domain.ErrSyncFailed) {
		t.Fatalf("err = %v, want ErrSyncFailed", err)
	}
}

func TestSyncAdapterFailure(t *testing.T) {
	src := &fakeSource{name: "eventbrite", err: errors.New("EVENTBRITE_API_KEY not configured")}
	engine := &fakeEngine{}
	o := New(testLogger(), sources.NewRegistry(src), engine)

	_, err := o.Sync(context.Background(), "eventbrite")
	if !errors.Is(err, domain.ErrSyncFailed) {
		t.Fatalf("err = %v, want ErrSyncFailed", err)
	}
	if engine.got != nil {
		t.Error("adapter failure must not reach reconciliation")
	}
}

func TestSyncSuccess(t *testing.T) {
	batch := []domain.Event{
		{Title: "Talk", SourcePlatform: "eventbrite", SourceID: "E1", OrganizerName: "Jane"},
	}
	src := &fakeSource{name: "eventbrite", batch: batch}
	engine := &fakeEngine{result: reconcile.SyncResult{Synced: 1}}

	o := New(testLogger(), sources.NewRegistry(src), engine)

	result, err := o.Sync(context.Background(), "eventbrite")
	if err != nil {
		t.Fatalf("Sync: %v", err)
	}
	if result.Synced != 1 || result.Skipped != 0 {
		t.Errorf("result = %+v", result)
	}
	if len(engine.got) != 1 || engine.got[0].Title != "Talk" {
		t.Errorf("engine received %v", engine.got)
	}
}
