package services

import (
	"bytes"
	"context"
	"errors"
	"sort"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/wono/hostpanel/pkg/auth"
	"github.com/wono/hostpanel/pkg/cache"
	"github.com/wono/hostpanel/pkg/config"
	"github.com/wono/hostpanel/pkg/logger"
	"github.com/wono/hostpanel/pkg/objectstore"
	"github.com/wono/hostpanel/services/website/domain"
	"github.com/wono/hostpanel/services/website/domain/events"
	"github.com/wono/hostpanel/services/website/domain/models"
	"github.com/wono/hostpanel/services/website/domain/repositories"
	domainsvcs "github.com/wono/hostpanel/services/website/domain/services"
)

// memRepo is an in-memory TemplateRepository with the same revision and
// validation rules as the Postgres one.
type memRepo struct {
	mu        sync.Mutex
	templates map[string]*models.Template
	createErr error
	updateErr error
	// beforeUpdate runs ahead of Update taking the lock, standing in for a
	// concurrent writer.
	beforeUpdate func()
}

func newMemRepo() *memRepo {
	return &memRepo{templates: map[string]*models.Template{}}
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
	if r.createErr != nil {
		return r.createErr
	}
	if err := domainsvcs.ValidateTemplate(t); err != nil {
		return err
	}
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
	var out []*models.Template
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
	if r.beforeUpdate != nil {
		r.beforeUpdate()
	}
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
	if r.updateErr != nil {
		return nil, r.updateErr
	}
	if err := domainsvcs.ValidateTemplate(t); err != nil {
		return nil, err
	}
	t.Revision++
	r.templates[key] = t.Clone()
	return t, nil
}

func (r *memRepo) get(key string) *models.Template {
	r.mu.Lock()
	defer r.mu.Unlock()
	if t, ok := r.templates[key]; ok {
		return t.Clone()
	}
	return nil
}

// fakeStore records object-store traffic.
type fakeStore struct {
	mu        sync.Mutex
	uploads   []string
	deletes   []string
	failAfter int // fail the upload after this many successes; 0 disables
	deleteErr error
}

func (s *fakeStore) Upload(_ context.Context, key string, _ []byte, _ string) (objectstore.Object, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failAfter > 0 && len(s.uploads) >= s.failAfter {
		return objectstore.Object{}, errors.New("object store unavailable")
	}
	s.uploads = append(s.uploads, key)
	return objectstore.Object{Key: key, URL: "http://assets.test/" + key}, nil
}

func (s *fakeStore) DeleteByURL(_ context.Context, url string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.deleteErr != nil {
		return s.deleteErr
	}
	s.deletes = append(s.deletes, url)
	return nil
}

func (s *fakeStore) uploadCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.uploads)
}

func (s *fakeStore) deleted() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := append([]string{}, s.deletes...)
	sort.Strings(out)
	return out
}

// fakeTranscoder passes data through and rejects anything starting with "bad".
type fakeTranscoder struct{}

func (fakeTranscoder) Normalize(data []byte) ([]byte, error) {
	if bytes.HasPrefix(data, []byte("bad")) {
		return nil, errors.New("unsupported image")
	}
	return data, nil
}
func (fakeTranscoder) ContentType() string { return "image/jpeg" }
func (fakeTranscoder) Extension() string   { return ".jpg" }

type fakeRegistry struct {
	companies map[string]string // name -> id
	flagged   []string
	flagErr   error
}

func (r *fakeRegistry) FindByName(_ context.Context, name string) (*models.CompanyRef, error) {
	id, ok := r.companies[name]
	if !ok {
		return nil, nil
	}
	return &models.CompanyRef{ID: id, Name: name}, nil
}

func (r *fakeRegistry) SetHasTemplate(_ context.Context, name string) error {
	r.flagged = append(r.flagged, name)
	return r.flagErr
}

type fakeLinks struct {
	links map[string]string
	err   error
}

func (l *fakeLinks) RegisterTemplateLink(_ context.Context, company, link string) error {
	if l.links == nil {
		l.links = map[string]string{}
	}
	l.links[company] = link
	return l.err
}

type fakeOrphans struct {
	mu     sync.Mutex
	events []events.AssetsOrphanedEvent
}

func (o *fakeOrphans) ReportOrphans(_ context.Context, ev events.AssetsOrphanedEvent) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.events = append(o.events, ev)
	return nil
}

func (o *fakeOrphans) urls() []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	var out []string
	for _, ev := range o.events {
		out = append(out, ev.URLs...)
	}
	sort.Strings(out)
	return out
}

// memCache is an in-memory TemplateCache.
type memCache struct {
	mu      sync.Mutex
	entries map[string]*cache.CachedTemplate
	deletes []string
}

func newMemCache() *memCache {
	return &memCache{entries: map[string]*cache.CachedTemplate{}}
}

func (c *memCache) Get(_ context.Context, key string) (*cache.CachedTemplate, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		return nil, redis.Nil
	}
	return e, nil
}

func (c *memCache) Set(_ context.Context, t *cache.CachedTemplate) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if cur, ok := c.entries[t.SearchKey]; ok && cur.Revision > t.Revision {
		return nil
	}
	c.entries[t.SearchKey] = t
	return nil
}

func (c *memCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
	c.deletes = append(c.deletes, key)
	return nil
}

type harness struct {
	repo     *memRepo
	store    *fakeStore
	registry *fakeRegistry
	links    *fakeLinks
	orphans  *fakeOrphans
	builder  *TemplateBuilder
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		repo:     newMemRepo(),
		store:    &fakeStore{},
		registry: &fakeRegistry{companies: map[string]string{"Acme-Coworking": "c-acme"}},
		links:    &fakeLinks{},
		orphans:  &fakeOrphans{},
	}
	h.builder = NewTemplateBuilder(BuilderDeps{
		Repo:        h.repo,
		Store:       h.store,
		Transcoder:  fakeTranscoder{},
		Registry:    h.registry,
		Links:       h.links,
		Orphans:     h.orphans,
		Log:         testLogger(),
		LinkFor:     (&config.Config{PublicSiteDomain: "wono.co"}).TemplateLink,
		Concurrency: 2,
	})
	return h
}

func testLogger() logger.Logger {
	return logger.New(&config.Config{LogLevel: "error"})
}

func hostCtx() context.Context {
	return auth.WithPrincipal(context.Background(), auth.Principal{UserID: uuid.New(), Role: auth.RoleHost})
}

func trustedCtx() context.Context {
	return auth.WithPrincipal(context.Background(), auth.Principal{UserID: uuid.New(), Role: auth.RoleDirectorySync})
}

func files(prefix string, n int) []FileUpload {
	out := make([]FileUpload, n)
	for i := range out {
		out[i] = FileUpload{Name: prefix + ".png", Data: []byte("img"), ContentType: "image/png"}
	}
	return out
}

func strp(s string) *string { return &s }

func validCreateInput() CreateTemplateInput {
	return CreateTemplateInput{
		CompanyName: "Acme-Coworking",
		Title:       "Acme",
		SubTitle:    "Work better",
		About:       []string{"We host teams."},
		Email:       "hello@acme.test",
		Phone:       "+91 99999 00000",
	}
}

func imageIDs(images []models.ImageHandle) []string {
	out := make([]string, len(images))
	for i, img := range images {
		out[i] = img.ID
	}
	return out
}
