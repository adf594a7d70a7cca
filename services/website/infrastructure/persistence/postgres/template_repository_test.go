package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/wono/hostpanel/pkg/config"
	"github.com/wono/hostpanel/pkg/database"
	"github.com/wono/hostpanel/pkg/logger"
	"github.com/wono/hostpanel/services/website/domain"
	"github.com/wono/hostpanel/services/website/domain/models"
	"github.com/wono/hostpanel/services/website/domain/repositories"
)

type fakeRow struct {
	vals []any
	err  error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	for i, d := range dest {
		switch p := d.(type) {
		case *string:
			*p = r.vals[i].(string)
		case *sql.NullString:
			*p = r.vals[i].(sql.NullString)
		case *bool:
			*p = r.vals[i].(bool)
		case *int64:
			*p = r.vals[i].(int64)
		case *[]byte:
			*p = r.vals[i].([]byte)
		case *time.Time:
			*p = r.vals[i].(time.Time)
		}
	}
	return nil
}

func TestScanTemplate_ColumnsOverrideDocument(t *testing.T) {
	doc := models.NewTemplate("stale", "Acme-Coworking")
	doc.IsActive = false
	doc.Revision = 1
	doc.Title = "Acme"
	raw, err := json.Marshal(doc)
	if err != nil {
		t.Fatal(err)
	}

	created := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	row := fakeRow{vals: []any{
		"acme", sql.NullString{String: "c-1", Valid: true}, true, int64(7), raw, created, created,
	}}

	got, err := scanTemplate(row)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.SearchKey != "acme" || !got.IsActive || got.Revision != 7 || got.CompanyID != "c-1" {
		t.Fatalf("columns not applied: %+v", got)
	}
	if got.Title != "Acme" {
		t.Fatalf("document not decoded: title %q", got.Title)
	}
	if !got.CreatedAt.Equal(created) {
		t.Fatalf("created_at = %v", got.CreatedAt)
	}
}

func TestScanTemplate_Errors(t *testing.T) {
	if _, err := scanTemplate(fakeRow{err: sql.ErrNoRows}); !errors.Is(err, sql.ErrNoRows) {
		t.Fatalf("expected sql.ErrNoRows, got %v", err)
	}

	row := fakeRow{vals: []any{
		"acme", sql.NullString{}, false, int64(1), []byte("{"), time.Now(), time.Now(),
	}}
	if _, err := scanTemplate(row); err == nil {
		t.Fatal("expected decode error for malformed document")
	}
}

func TestVisibilityArg(t *testing.T) {
	tests := []struct {
		v    repositories.Visibility
		want sql.NullBool
	}{
		{repositories.AnyVisibility, sql.NullBool{}},
		{repositories.ActiveOnly, sql.NullBool{Bool: true, Valid: true}},
		{repositories.InactiveOnly, sql.NullBool{Bool: false, Valid: true}},
	}
	for _, tt := range tests {
		if got := visibilityArg(tt.v); got != tt.want {
			t.Errorf("visibilityArg(%d) = %+v, want %+v", tt.v, got, tt.want)
		}
	}
}

// TestTemplateRepository_Integration runs against a migrated database.
// Set WEBSITE_TEST_DATABASE_URL to enable.
func TestTemplateRepository_Integration(t *testing.T) {
	dsn := os.Getenv("WEBSITE_TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("WEBSITE_TEST_DATABASE_URL not set")
	}
	ctx := context.Background()

	pool, err := database.NewPool(ctx, dsn, logger.New(&config.Config{LogLevel: "error"}))
	if err != nil {
		t.Fatalf("NewPool: %v", err)
	}
	t.Cleanup(pool.Close)
	db := pool.DB()
	repo := NewTemplateRepository(pool, nil)

	key := "it" + uuid.NewString()[:8]
	tpl := models.NewTemplate(key, key)
	tpl.Title, tpl.SubTitle = "Title", "Sub"
	tpl.Email, tpl.Phone = "host@example.com", "123"
	tpl.About = []string{"About us"}
	t.Cleanup(func() { _, _ = db.Exec(`DELETE FROM website_templates WHERE search_key = $1`, key) })

	if err := repo.Create(ctx, tpl); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := repo.Create(ctx, tpl); !errors.Is(err, domain.ErrTemplateAlreadyExists) {
		t.Fatalf("duplicate create: expected ErrTemplateAlreadyExists, got %v", err)
	}

	if _, err := repo.GetBySearchKey(ctx, key, repositories.ActiveOnly); !errors.Is(err, domain.ErrTemplateNotFound) {
		t.Fatalf("inactive template must not be visible as active, got %v", err)
	}

	updated, err := repo.Update(ctx, key, 1, func(_ context.Context, t *models.Template) error {
		t.Title = "New title"
		return nil
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Revision != 2 || updated.Title != "New title" {
		t.Fatalf("updated = rev %d title %q", updated.Revision, updated.Title)
	}

	if _, err := repo.Update(ctx, key, 1, func(context.Context, *models.Template) error { return nil }); !errors.Is(err, domain.ErrStaleRevision) {
		t.Fatalf("stale update: expected ErrStaleRevision, got %v", err)
	}

	_, err = repo.Update(ctx, key, 0, func(_ context.Context, t *models.Template) error {
		t.Email = ""
		return nil
	})
	if !errors.Is(err, domain.ErrInvalidTemplate) {
		t.Fatalf("invalid update: expected ErrInvalidTemplate, got %v", err)
	}

	changed, err := repo.SetActive(ctx, key, true)
	if err != nil || !changed {
		t.Fatalf("SetActive = %v, %v", changed, err)
	}
	if changed, _ := repo.SetActive(ctx, key, true); changed {
		t.Fatal("second activation should be a no-op")
	}
	if changed, err := repo.SetActive(ctx, "missing"+key, true); err != nil || changed {
		t.Fatalf("unknown key SetActive = %v, %v", changed, err)
	}

	got, err := repo.GetBySearchKey(ctx, key, repositories.ActiveOnly)
	if err != nil {
		t.Fatalf("get active: %v", err)
	}
	// activation bumps the revision so cached readers can order it after the edit
	if got.Revision != 3 || !got.IsActive {
		t.Fatalf("got rev %d active %v", got.Revision, got.IsActive)
	}
}
