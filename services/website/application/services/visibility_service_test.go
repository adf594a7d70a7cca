package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/wono/hostpanel/pkg/cache"
	"github.com/wono/hostpanel/services/website/domain"
	"github.com/wono/hostpanel/services/website/domain/models"
	"github.com/wono/hostpanel/services/website/domain/repositories"
)

func seedRepo(t *testing.T, repo *memRepo, key string, active bool) {
	t.Helper()
	tpl := models.NewTemplate(key, key)
	tpl.Title, tpl.SubTitle = "T", "S"
	tpl.Email, tpl.Phone = "a@b.test", "1"
	tpl.About = []string{"about"}
	tpl.IsActive = active
	if err := repo.Create(context.Background(), tpl); err != nil {
		t.Fatalf("seed: %v", err)
	}
}

func TestActivate_UnknownKeySucceeds(t *testing.T) {
	svc := NewVisibilityService(newMemRepo(), nil, testLogger())
	if err := svc.Activate(context.Background(), "doesnotexist"); err != nil {
		t.Fatalf("expected success for unknown key, got %v", err)
	}
}

func TestActivate_IdempotentAndRefreshesCache(t *testing.T) {
	repo := newMemRepo()
	seedRepo(t, repo, "acme", false)
	c := newMemCache()
	svc := NewVisibilityService(repo, c, testLogger())

	for range 2 {
		if err := svc.Activate(context.Background(), "acme"); err != nil {
			t.Fatalf("activate: %v", err)
		}
	}
	stored := repo.get("acme")
	if !stored.IsActive || stored.Revision != 2 {
		t.Fatalf("stored = active %v rev %d", stored.IsActive, stored.Revision)
	}
	entry, err := c.Get(context.Background(), "acme")
	if err != nil || !entry.IsActive || entry.Revision != 2 {
		t.Fatalf("entry = %+v, err %v", entry, err)
	}
	if len(c.deletes) != 0 {
		t.Fatalf("cache deletes = %v", c.deletes)
	}
}

// gatedCache parks the first Set until release is closed.
type gatedCache struct {
	*memCache
	once    sync.Once
	entered chan struct{}
	release chan struct{}
	done    chan struct{}
}

func (c *gatedCache) Set(ctx context.Context, t *cache.CachedTemplate) error {
	first := false
	c.once.Do(func() { first = true })
	if first {
		close(c.entered)
		<-c.release
		defer close(c.done)
	}
	return c.memCache.Set(ctx, t)
}

func TestGet_WarmFinishingAfterActivateKeepsActiveEntry(t *testing.T) {
	repo := newMemRepo()
	seedRepo(t, repo, "acme", false)
	c := &gatedCache{
		memCache: newMemCache(),
		entered:  make(chan struct{}),
		release:  make(chan struct{}),
		done:     make(chan struct{}),
	}
	svc := NewVisibilityService(repo, c, testLogger())
	ctx := context.Background()

	// miss: the background warm now holds the inactive revision 1 document
	if _, err := svc.Get(ctx, "acme", repositories.AnyVisibility); err != nil {
		t.Fatalf("get: %v", err)
	}
	select {
	case <-c.entered:
	case <-time.After(2 * time.Second):
		t.Fatal("warm never reached the cache")
	}

	if err := svc.Activate(ctx, "acme"); err != nil {
		t.Fatalf("activate: %v", err)
	}
	close(c.release)
	<-c.done

	got, err := svc.Get(ctx, "acme", repositories.ActiveOnly)
	if err != nil {
		t.Fatalf("active lookup after activation: %v", err)
	}
	if !got.IsActive {
		t.Fatal("served inactive template after activation")
	}
	if _, err := svc.Get(ctx, "acme", repositories.InactiveOnly); !errors.Is(err, domain.ErrTemplateNotFound) {
		t.Fatalf("inactive lookup after activation: %v", err)
	}
}

func TestGet_Visibility(t *testing.T) {
	repo := newMemRepo()
	seedRepo(t, repo, "acme", true)
	seedRepo(t, repo, "globex", false)
	svc := NewVisibilityService(repo, nil, testLogger())

	tests := []struct {
		name    string
		input   string
		v       repositories.Visibility
		wantKey string
	}{
		{"active by company name suffix", "Acme-Coworking", repositories.ActiveOnly, "acme"},
		{"any", "globex", repositories.AnyVisibility, "globex"},
		{"inactive", "Globex", repositories.InactiveOnly, "globex"},
		{"active filter hides inactive", "globex", repositories.ActiveOnly, ""},
		{"inactive filter hides active", "acme", repositories.InactiveOnly, ""},
		{"unknown", "initech", repositories.AnyVisibility, ""},
		{"placeholder", "null", repositories.AnyVisibility, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.Get(context.Background(), tt.input, tt.v)
			if tt.wantKey == "" {
				if !errors.Is(err, domain.ErrTemplateNotFound) {
					t.Fatalf("expected ErrTemplateNotFound, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.SearchKey != tt.wantKey {
				t.Fatalf("searchKey = %q, want %q", got.SearchKey, tt.wantKey)
			}
		})
	}
}

func TestGet_ReadThroughCache(t *testing.T) {
	repo := newMemRepo()
	seedRepo(t, repo, "acme", true)
	c := newMemCache()
	svc := NewVisibilityService(repo, c, testLogger())

	if _, err := svc.Get(context.Background(), "acme", repositories.ActiveOnly); err != nil {
		t.Fatalf("get: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for {
		if _, err := c.Get(context.Background(), "acme"); err == nil {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("cache was not warmed")
		}
		time.Sleep(10 * time.Millisecond)
	}

	// served from cache even after the row disappears
	repo.mu.Lock()
	delete(repo.templates, "acme")
	repo.mu.Unlock()

	got, err := svc.Get(context.Background(), "acme", repositories.ActiveOnly)
	if err != nil {
		t.Fatalf("cached get: %v", err)
	}
	if got.SearchKey != "acme" {
		t.Fatalf("searchKey = %q", got.SearchKey)
	}
	if _, err := svc.Get(context.Background(), "acme", repositories.InactiveOnly); !errors.Is(err, domain.ErrTemplateNotFound) {
		t.Fatalf("cached entry must respect the filter, got %v", err)
	}
}

func TestList(t *testing.T) {
	repo := newMemRepo()
	svc := NewVisibilityService(repo, nil, testLogger())

	active, err := svc.ListActive(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if active == nil || len(active) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", active)
	}

	seedRepo(t, repo, "acme", true)
	seedRepo(t, repo, "globex", false)
	seedRepo(t, repo, "initech", false)

	active, _ = svc.ListActive(context.Background())
	inactive, _ := svc.ListInactive(context.Background())
	if len(active) != 1 || len(inactive) != 2 {
		t.Fatalf("active=%d inactive=%d", len(active), len(inactive))
	}
}

func TestWarm(t *testing.T) {
	repo := newMemRepo()
	seedRepo(t, repo, "acme", false)
	c := newMemCache()
	svc := NewVisibilityService(repo, c, testLogger())

	if err := svc.Warm(context.Background(), "acme"); err != nil {
		t.Fatalf("warm: %v", err)
	}
	entry, err := c.Get(context.Background(), "acme")
	if err != nil || entry.IsActive || entry.Revision != 1 {
		t.Fatalf("entry = %+v, err %v", entry, err)
	}

	if err := svc.Warm(context.Background(), "missing"); err != nil {
		t.Fatalf("warm missing: %v", err)
	}
}
