package services

import (
	"context"
	"fmt"
	"path"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/wono/hostpanel/pkg/logger"
	"github.com/wono/hostpanel/services/website/domain"
	"github.com/wono/hostpanel/services/website/domain/models"
)

const keyRoot = "hosts/template"

// uploadJob is one file destined for a template section. sub is an optional
// key segment below the section (a product id, a testimonial index).
type uploadJob struct {
	section string
	sub     string
	file    FileUpload
}

// removal is a stored image scheduled for deletion, grouped by section.
type removal struct {
	section string
	image   models.ImageHandle
}

// assetOps runs the object-store side effects of one builder operation.
type assetOps struct {
	store       AssetStore
	transcoder  Transcoder
	concurrency int
	metrics     *builderMetrics
	now         func() time.Time
}

// upload transcodes and stores every job with bounded concurrency. The result is
// aligned with jobs. On error the returned slice still holds the handles that were
// stored, so the caller can report them as orphans.
func (a *assetOps) upload(ctx context.Context, log logger.Logger, searchKey string, jobs []uploadJob) ([]models.ImageHandle, error) {
	out := make([]models.ImageHandle, len(jobs))
	if len(jobs) == 0 {
		return out, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(a.concurrency, 1))
	stamp := a.now().UnixNano()

	for i, job := range jobs {
		g.Go(func() error {
			data, err := a.transcoder.Normalize(job.file.Data)
			if err != nil {
				return fmt.Errorf("%w: %s: %w", domain.ErrInvalidPayload, job.file.Name, err)
			}
			key := objectKey(searchKey, job.section, job.sub, fmt.Sprintf("%d-%d", stamp, i), job.file.Name, a.transcoder.Extension())
			obj, err := a.store.Upload(gctx, key, data, a.transcoder.ContentType())
			if err != nil {
				return fmt.Errorf("upload %s: %w", job.section, err)
			}
			out[i] = models.ImageHandle{ID: obj.Key, URL: obj.URL}
			a.metrics.uploaded(ctx, job.section)
			log.InfoContext(ctx, "asset uploaded", "section", job.section, "key", obj.Key, "url", obj.URL)
			return nil
		})
	}
	return out, g.Wait()
}

// remove deletes every image, one goroutine per section. Failures are logged and
// skipped; the returned URLs are the ones actually deleted.
func (a *assetOps) remove(ctx context.Context, log logger.Logger, removals []removal) []string {
	if len(removals) == 0 {
		return nil
	}
	bySection := make(map[string][]models.ImageHandle)
	var order []string
	for _, r := range removals {
		if _, ok := bySection[r.section]; !ok {
			order = append(order, r.section)
		}
		bySection[r.section] = append(bySection[r.section], r.image)
	}

	var (
		mu      sync.Mutex
		deleted []string
		g       errgroup.Group
	)
	for _, section := range order {
		images := bySection[section]
		g.Go(func() error {
			for _, img := range images {
				if img.URL == "" {
					continue
				}
				if err := a.store.DeleteByURL(ctx, img.URL); err != nil {
					log.ErrorContext(ctx, "asset delete failed", "section", section, "url", img.URL, "error", err)
					continue
				}
				a.metrics.deleted(ctx, section)
				log.InfoContext(ctx, "asset deleted", "section", section, "key", img.ID, "url", img.URL)
				mu.Lock()
				deleted = append(deleted, img.URL)
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()
	return deleted
}

// objectKey builds hosts/template/{searchKey}/{section}[/{sub}]/{stamp}_{name}{ext}.
func objectKey(searchKey, section, sub, stamp, fileName, ext string) string {
	base := path.Base(strings.ReplaceAll(fileName, "\\", "/"))
	base = strings.TrimSuffix(base, path.Ext(base))
	base = strings.Join(strings.Fields(base), "_")
	if base == "" || base == "." || base == "/" {
		base = "image"
	}

	parts := []string{keyRoot, searchKey, section}
	if sub != "" {
		parts = append(parts, sub)
	}
	return path.Join(parts...) + "/" + stamp + "_" + base + ext
}

func urlsOf(images []models.ImageHandle) []string {
	var out []string
	for _, img := range images {
		if img.URL != "" {
			out = append(out, img.URL)
		}
	}
	return out
}
