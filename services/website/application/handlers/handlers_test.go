package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/wono/hostpanel/pkg/auth"
	"github.com/wono/hostpanel/pkg/config"
	"github.com/wono/hostpanel/pkg/errhttp"
	"github.com/wono/hostpanel/pkg/logger"
	"github.com/wono/hostpanel/pkg/objectstore"
	appsvcs "github.com/wono/hostpanel/services/website/application/services"
	"github.com/wono/hostpanel/services/website/domain"
	"github.com/wono/hostpanel/services/website/domain/models"
	"github.com/wono/hostpanel/services/website/domain/repositories"
)

type memRepo struct {
	mu        sync.Mutex
	templates map[string]*models.Template
}

func (r *memRepo) Exists(_ context.Context, key string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.templates[key]
	return ok, nil
}

func (r *memRepo) Create(_ context.Context, t *models.Template) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.templates[t.SearchKey]; ok {
		return domain.ErrTemplateAlreadyExists
	}
	r.templates[t.SearchKey] = t.Clone()
	return nil
}

func (r *memRepo) GetBySearchKey(_ context.Context, key string, v repositories.Visibility) (*models.Template, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.templates[key]
	if !ok || !v.Matches(t.IsActive) {
		return nil, domain.ErrTemplateNotFound
	}
	return t.Clone(), nil
}

func (r *memRepo) List(_ context.Context, v repositories.Visibility) ([]*models.Template, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*models.Template{}
	for _, t := range r.templates {
		if v.Matches(t.IsActive) {
			out = append(out, t.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SearchKey < out[j].SearchKey })
	return out, nil
}

func (r *memRepo) SetActive(_ context.Context, key string, active bool) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.templates[key]
	if !ok || t.IsActive == active {
		return false, nil
	}
	t.IsActive = active
	t.Revision++
	return true, nil
}

func (r *memRepo) Update(ctx context.Context, key string, expected int64, mutate repositories.MutateFunc) (*models.Template, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.templates[key]
	if !ok {
		return nil, domain.ErrTemplateNotFound
	}
	if expected > 0 && stored.Revision != expected {
		return nil, domain.ErrStaleRevision
	}
	t := stored.Clone()
	if err := mutate(ctx, t); err != nil {
		return nil, err
	}
	t.Revision++
	r.templates[key] = t.Clone()
	return t, nil
}

type memStore struct {
	mu      sync.Mutex
	deletes []string
}

func (s *memStore) Upload(_ context.Context, key string, _ []byte, _ string) (objectstore.Object, error) {
	return objectstore.Object{Key: key, URL: "http://assets.test/" + key}, nil
}

func (s *memStore) DeleteByURL(_ context.Context, url string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deletes = append(s.deletes, url)
	return nil
}

type passthrough struct{}

func (passthrough) Normalize(data []byte) ([]byte, error) { return data, nil }
func (passthrough) ContentType() string                   { return "image/jpeg" }
func (passthrough) Extension() string                     { return ".jpg" }

type failingLinks struct{}

func (failingLinks) RegisterTemplateLink(context.Context, string, string) error {
	return errors.New("directory unavailable")
}

type fixture struct {
	router http.Handler
	repo   *memRepo
	store  *memStore
}

func newFixture(t *testing.T, links appsvcs.LinkPublisher) *fixture {
	t.Helper()
	log := logger.New(&config.Config{LogLevel: "error"})
	f := &fixture{repo: &memRepo{templates: map[string]*models.Template{}}, store: &memStore{}}
	svcs := &appsvcs.Services{
		Builder: appsvcs.NewTemplateBuilder(appsvcs.BuilderDeps{
			Repo:        f.repo,
			Store:       f.store,
			Transcoder:  passthrough{},
			Links:       links,
			Log:         log,
			Concurrency: 2,
		}),
		Visibility: appsvcs.NewVisibilityService(f.repo, nil, log),
	}
	errs := errhttp.Writer{Log: log}
	get := NewGetWebsiteHandler(svcs, errs)

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := auth.WithPrincipal(r.Context(), auth.Principal{UserID: uuid.New(), Role: auth.RoleHost})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	})
	r.Post("/create-website", NewCreateWebsiteHandler(svcs, errs, 1<<20).Execute)
	r.Patch("/edit-website", NewEditWebsiteHandler(svcs, errs, 1<<20).Execute)
	r.Patch("/activate-website", NewActivateWebsiteHandler(svcs, errs).Execute)
	r.Get("/get-website/{companyName}", get.ByCompany)
	r.Get("/get-websites", get.Active)
	r.Get("/get-inactive-website", get.InactiveByCompany)
	r.Get("/get-inactive-website/{company}", get.InactiveByCompany)
	r.Get("/get-inactive-websites", get.Inactive)
	f.router = r
	return f
}

type part struct {
	field string
	name  string // file name; empty for plain fields
	value string
}

func multipartRequest(t *testing.T, method, path string, parts []part) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for _, p := range parts {
		if p.name == "" {
			if err := mw.WriteField(p.field, p.value); err != nil {
				t.Fatalf("write field: %v", err)
			}
			continue
		}
		fw, err := mw.CreateFormFile(p.field, p.name)
		if err != nil {
			t.Fatalf("create file: %v", err)
		}
		if _, err := fw.Write([]byte(p.value)); err != nil {
			t.Fatalf("write file: %v", err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func baseParts() []part {
	return []part{
		{field: "companyName", value: "Acme-Coworking"},
		{field: "title", value: "Acme"},
		{field: "subTitle", value: "Work better"},
		{field: "websiteEmail", value: "hello@acme.test"},
		{field: "phone", value: "+91 99999 00000"},
		{field: "about", value: `["We host teams."]`},
	}
}

func (f *fixture) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func decodeTemplate(t *testing.T, rec *httptest.ResponseRecorder) TemplateResponse {
	t.Helper()
	var resp TemplateResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode %s: %v", rec.Body, err)
	}
	return resp
}

func TestCreateEditActivateFlow(t *testing.T) {
	f := newFixture(t, nil)

	parts := append(baseParts(),
		part{field: "heroImages", name: "one.png", value: "img1"},
		part{field: "heroImages", name: "two.png", value: "img2"},
	)
	rec := f.do(multipartRequest(t, http.MethodPost, "/create-website", parts))
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body %s", rec.Code, rec.Body)
	}
	created := decodeTemplate(t, rec)
	if created.Template.SearchKey != "acme" || created.Template.IsActive || len(created.Template.HeroImages) != 2 {
		t.Fatalf("unexpected template %+v", created.Template)
	}
	if created.Template.Email != "hello@acme.test" {
		t.Fatalf("email = %q", created.Template.Email)
	}

	rec = f.do(multipartRequest(t, http.MethodPost, "/create-website", baseParts()))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("duplicate create status = %d", rec.Code)
	}

	first := created.Template.HeroImages[0]
	second := created.Template.HeroImages[1]
	keep, _ := json.Marshal([]string{first.ID})
	rec = f.do(multipartRequest(t, http.MethodPatch, "/edit-website", []part{
		{field: "companyName", value: "Acme-Coworking"},
		{field: "heroImageIds", value: string(keep)},
		{field: "title", value: "Acme Spaces"},
	}))
	if rec.Code != http.StatusOK {
		t.Fatalf("edit status = %d, body %s", rec.Code, rec.Body)
	}
	edited := decodeTemplate(t, rec)
	if len(edited.Template.HeroImages) != 1 || edited.Template.HeroImages[0].ID != first.ID {
		t.Fatalf("hero images = %+v", edited.Template.HeroImages)
	}
	if edited.Template.Title != "Acme Spaces" || edited.Template.SubTitle != "Work better" {
		t.Fatalf("scalars = %q / %q", edited.Template.Title, edited.Template.SubTitle)
	}
	if len(f.store.deletes) != 1 || f.store.deletes[0] != second.URL {
		t.Fatalf("deletes = %v", f.store.deletes)
	}

	rec = f.do(httptest.NewRequest(http.MethodGet, "/get-inactive-website?company=acme", nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"searchKey":"acme"`) {
		t.Fatalf("inactive lookup = %d %s", rec.Code, rec.Body)
	}

	rec = f.do(httptest.NewRequest(http.MethodPatch, "/activate-website?searchKey=acme", nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "Website activated successfully") {
		t.Fatalf("activate = %d %s", rec.Code, rec.Body)
	}

	rec = f.do(httptest.NewRequest(http.MethodGet, "/get-website/Acme-Coworking", nil))
	if !strings.Contains(rec.Body.String(), `"isActive":true`) {
		t.Fatalf("get-website body %s", rec.Body)
	}
	rec = f.do(httptest.NewRequest(http.MethodGet, "/get-inactive-website/acme", nil))
	if strings.TrimSpace(rec.Body.String()) != "[]" {
		t.Fatalf("inactive lookup after activation = %s", rec.Body)
	}

	rec = f.do(httptest.NewRequest(http.MethodGet, "/get-websites", nil))
	var list []models.Template
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil || len(list) != 1 {
		t.Fatalf("get-websites = %s (%v)", rec.Body, err)
	}
	rec = f.do(httptest.NewRequest(http.MethodGet, "/get-inactive-websites", nil))
	if strings.TrimSpace(rec.Body.String()) != "[]" {
		t.Fatalf("get-inactive-websites = %s", rec.Body)
	}
}

func TestCreate_LinkFailureIsMultiStatus(t *testing.T) {
	f := newFixture(t, failingLinks{})

	rec := f.do(multipartRequest(t, http.MethodPost, "/create-website", baseParts()))
	if rec.Code != http.StatusMultiStatus {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}
	resp := decodeTemplate(t, rec)
	if resp.Warning != appsvcs.LinkWarning || resp.Template == nil {
		t.Fatalf("unexpected response %+v", resp)
	}
}

func TestCreate_Errors(t *testing.T) {
	tests := []struct {
		name  string
		parts []part
		want  int
	}{
		{"empty company name", []part{{field: "companyName", value: "  "}}, http.StatusBadRequest},
		// repeated fields resolve to the first value
		{"bad about json", append([]part{{field: "about", value: "not json"}}, baseParts()...), http.StatusBadRequest},
		{"too many logos", append(baseParts(),
			part{field: "companyLogo", name: "a.png", value: "a"},
			part{field: "companyLogo", name: "b.png", value: "b"}), http.StatusBadRequest},
		{"bad file index", append(baseParts(), part{field: "productImages_x", name: "a.png", value: "a"}), http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, nil)
			rec := f.do(multipartRequest(t, http.MethodPost, "/create-website", tt.parts))
			if rec.Code != tt.want {
				t.Fatalf("status = %d, want %d, body %s", rec.Code, tt.want, rec.Body)
			}
		})
	}
}

func TestEdit_Errors(t *testing.T) {
	f := newFixture(t, nil)
	if rec := f.do(multipartRequest(t, http.MethodPost, "/create-website", baseParts())); rec.Code != http.StatusCreated {
		t.Fatalf("seed status = %d", rec.Code)
	}

	tests := []struct {
		name  string
		parts []part
		want  int
	}{
		{"unknown template", []part{{field: "companyName", value: "Globex"}}, http.StatusNotFound},
		{"stale revision", []part{{field: "companyName", value: "acme"}, {field: "revision", value: "7"}}, http.StatusConflict},
		{"bad revision", []part{{field: "companyName", value: "acme"}, {field: "revision", value: "x"}}, http.StatusBadRequest},
		{"bad keep list", []part{{field: "companyName", value: "acme"}, {field: "galleryImageIds", value: "{"}}, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := f.do(multipartRequest(t, http.MethodPatch, "/edit-website", tt.parts))
			if rec.Code != tt.want {
				t.Fatalf("status = %d, want %d, body %s", rec.Code, tt.want, rec.Body)
			}
		})
	}
}

func TestGetWebsite_NotFoundIsEmptyArray(t *testing.T) {
	f := newFixture(t, nil)
	for _, path := range []string{"/get-website/nobody", "/get-inactive-website", "/get-inactive-website?company=nobody"} {
		rec := f.do(httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusOK || strings.TrimSpace(rec.Body.String()) != "[]" {
			t.Fatalf("%s = %d %s", path, rec.Code, rec.Body)
		}
	}
}

func TestActivate_UnknownKeySucceeds(t *testing.T) {
	f := newFixture(t, nil)
	rec := f.do(httptest.NewRequest(http.MethodPatch, "/activate-website?searchKey=ghost", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
}
