package main

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/wono/hostpanel/pkg/config"
	"github.com/wono/hostpanel/pkg/events"
	"github.com/wono/hostpanel/pkg/logger"
	websiteEvents "github.com/wono/hostpanel/services/website/domain/events"
)

type stubWarmer struct {
	keys []string
	err  error
}

func (w *stubWarmer) Warm(_ context.Context, key string) error {
	w.keys = append(w.keys, key)
	return w.err
}

type stubDeleter struct {
	deleted []string
	fail    map[string]bool
}

func (d *stubDeleter) DeleteByURL(_ context.Context, url string) error {
	if d.fail[url] {
		return errors.New("unavailable")
	}
	d.deleted = append(d.deleted, url)
	return nil
}

func testLogger() logger.Logger {
	return logger.New(&config.Config{LogLevel: "error"})
}

func TestHandleTemplateChanged(t *testing.T) {
	w := &stubWarmer{}
	h := handleTemplateChanged(w, testLogger())

	msg, err := events.NewEventMessage(websiteEvents.TemplateUpdatedEvent{
		EventID: uuid.New(), Version: 1, SearchKey: "acme", Revision: 3, OccurredAt: time.Now(),
	}, 1)
	if err != nil {
		t.Fatalf("message: %v", err)
	}
	if err := h(context.Background(), msg); err != nil {
		t.Fatalf("handler: %v", err)
	}
	if len(w.keys) != 1 || w.keys[0] != "acme" {
		t.Fatalf("warmed %v", w.keys)
	}

	// warm failures are swallowed
	w.err = errors.New("redis down")
	if err := h(context.Background(), msg); err != nil {
		t.Fatalf("handler should not fail on warm error: %v", err)
	}
}

func TestHandleAssetsOrphaned_Direct(t *testing.T) {
	store := &stubDeleter{fail: map[string]bool{"http://assets.test/b": true}}
	h := handleAssetsOrphaned(directSweeper{store: store}, testLogger())

	msg, err := events.NewEventMessage(websiteEvents.AssetsOrphanedEvent{
		OperationID: uuid.New(),
		SearchKey:   "acme",
		URLs:        []string{"http://assets.test/a", "http://assets.test/b"},
	}, 1)
	if err != nil {
		t.Fatalf("message: %v", err)
	}

	if err := h(context.Background(), msg); err == nil {
		t.Fatal("expected error so the bus retries")
	}
	if len(store.deleted) != 1 {
		t.Fatalf("deleted %v", store.deleted)
	}

	store.fail = nil
	if err := h(context.Background(), msg); err != nil {
		t.Fatalf("retry: %v", err)
	}
}
