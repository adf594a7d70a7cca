package services

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/wono/hostpanel/services/website/domain"
	"github.com/wono/hostpanel/services/website/domain/models"
	domainsvcs "github.com/wono/hostpanel/services/website/domain/services"
)

const pendingPrefix = "pending:"

// mutationPlan is the side-effect free outcome of validating a create or edit
// request: the next document with placeholder handles for files not yet stored,
// the files to store, and the stored images to delete.
type mutationPlan struct {
	next     *models.Template
	jobs     []uploadJob
	removals []removal
}

// stage queues f for upload and returns a placeholder handle resolved by resolve.
func (p *mutationPlan) stage(section, sub string, f FileUpload) models.ImageHandle {
	p.jobs = append(p.jobs, uploadJob{section: section, sub: sub, file: f})
	return models.ImageHandle{ID: pendingPrefix + strconv.Itoa(len(p.jobs)-1)}
}

func (p *mutationPlan) stageAll(section, sub string, files []FileUpload) []models.ImageHandle {
	out := make([]models.ImageHandle, 0, len(files))
	for _, f := range files {
		out = append(out, p.stage(section, sub, f))
	}
	return out
}

func (p *mutationPlan) drop(section string, images ...models.ImageHandle) {
	for _, img := range images {
		p.removals = append(p.removals, removal{section: section, image: img})
	}
}

// resolve swaps placeholders in next for the stored handles, aligned with jobs.
func (p *mutationPlan) resolve(stored []models.ImageHandle) {
	swap := func(h models.ImageHandle) models.ImageHandle {
		idx, ok := strings.CutPrefix(h.ID, pendingPrefix)
		if !ok {
			return h
		}
		i, err := strconv.Atoi(idx)
		if err != nil || i < 0 || i >= len(stored) {
			return h
		}
		return stored[i]
	}

	t := p.next
	if t.CompanyLogo != nil {
		logo := swap(*t.CompanyLogo)
		t.CompanyLogo = &logo
	}
	for i := range t.HeroImages {
		t.HeroImages[i] = swap(t.HeroImages[i])
	}
	for i := range t.Gallery {
		t.Gallery[i] = swap(t.Gallery[i])
	}
	for i := range t.Products {
		for j := range t.Products[i].Images {
			t.Products[i].Images[j] = swap(t.Products[i].Images[j])
		}
	}
	for i := range t.Testimonials {
		if t.Testimonials[i].Image != nil {
			img := swap(*t.Testimonials[i].Image)
			t.Testimonials[i].Image = &img
		}
	}
}

// planCreate builds the new template and checks every limit before anything is stored.
func planCreate(searchKey string, in CreateTemplateInput) (*mutationPlan, error) {
	if err := domainsvcs.CheckLogo(len(in.Logo)); err != nil {
		return nil, err
	}
	if err := domainsvcs.CheckHero(len(in.Hero)); err != nil {
		return nil, err
	}
	if err := domainsvcs.CheckGallery(len(in.Gallery)); err != nil {
		return nil, err
	}
	for i, p := range in.Products {
		if err := domainsvcs.CheckProductImages(deref(p.Name), len(in.ProductFiles[i])); err != nil {
			return nil, err
		}
	}
	if len(in.FlatTestimonialFiles) > len(in.Testimonials) {
		return nil, &domain.LimitError{
			Section:  domainsvcs.SectionTestimonial,
			Limit:    len(in.Testimonials),
			Received: len(in.FlatTestimonialFiles),
			Message:  "Only 1 image allowed per testimonial.",
		}
	}
	for i := range in.Testimonials {
		if err := domainsvcs.CheckTestimonialImages(len(in.TestimonialFiles[i])); err != nil {
			return nil, err
		}
	}

	t := models.NewTemplate(searchKey, in.CompanyName)
	t.CompanyID = in.CompanyID
	t.Title = in.Title
	t.SubTitle = in.SubTitle
	t.CTAButtonText = in.CTAButtonText
	t.About = append(t.About, in.About...)
	t.ProductTitle = in.ProductTitle
	t.GalleryTitle = in.GalleryTitle
	t.TestimonialTitle = in.TestimonialTitle
	t.ContactTitle = in.ContactTitle
	t.MapURL = in.MapURL
	t.Email = in.Email
	t.Phone = in.Phone
	t.Address = in.Address
	t.RegisteredCompanyName = in.RegisteredCompanyName
	t.CopyrightText = in.CopyrightText

	p := &mutationPlan{next: t}

	if len(in.Logo) > 0 {
		logo := p.stage(domainsvcs.SectionLogo, "", in.Logo[0])
		t.CompanyLogo = &logo
	}
	t.HeroImages = p.stageAll(domainsvcs.SectionHero, "", in.Hero)
	t.Gallery = p.stageAll(domainsvcs.SectionGallery, "", in.Gallery)

	for i, pi := range in.Products {
		t.Products = append(t.Products, models.Product{
			ID:          uuid.New(),
			Type:        deref(pi.Type),
			Name:        deref(pi.Name),
			Cost:        deref(pi.Cost),
			Description: deref(pi.Description),
			Images:      p.stageAll(domainsvcs.SectionProduct, strconv.Itoa(i), in.ProductFiles[i]),
		})
	}

	for i, ti := range in.Testimonials {
		tm := models.Testimonial{
			ID:          uuid.New(),
			Name:        deref(ti.Name),
			JobPosition: deref(ti.JobPosition),
			Testimony:   deref(ti.Testimony),
			Rating:      deref(ti.Rating),
		}
		var file *FileUpload
		switch {
		case len(in.FlatTestimonialFiles) > 0:
			if i < len(in.FlatTestimonialFiles) {
				file = &in.FlatTestimonialFiles[i]
			}
		case len(in.TestimonialFiles[i]) > 0:
			file = &in.TestimonialFiles[i][0]
		}
		if file != nil {
			sub := strconv.Itoa(i)
			if len(in.FlatTestimonialFiles) > 0 {
				sub = ""
			}
			img := p.stage(domainsvcs.SectionTestimonial, sub, *file)
			tm.Image = &img
		}
		t.Testimonials = append(t.Testimonials, tm)
	}

	return p, nil
}

// planEdit merges in into a copy of current. Every cardinality rule is checked
// against kept plus new images, so a rejected plan has touched nothing.
//
// Product and testimonial files are keyed by the item's position in the stored
// list; new items continue the numbering after the stored ones.
func planEdit(current *models.Template, in EditTemplateInput) (*mutationPlan, error) {
	next := current.Clone()
	p := &mutationPlan{next: next}

	mergeString(&next.Title, in.Title)
	mergeString(&next.SubTitle, in.SubTitle)
	mergeString(&next.CTAButtonText, in.CTAButtonText)
	mergeString(&next.ProductTitle, in.ProductTitle)
	mergeString(&next.GalleryTitle, in.GalleryTitle)
	mergeString(&next.TestimonialTitle, in.TestimonialTitle)
	mergeString(&next.ContactTitle, in.ContactTitle)
	mergeString(&next.MapURL, in.MapURL)
	mergeString(&next.Email, in.Email)
	mergeString(&next.Phone, in.Phone)
	mergeString(&next.Address, in.Address)
	mergeString(&next.RegisteredCompanyName, in.RegisteredCompanyName)
	mergeString(&next.CopyrightText, in.CopyrightText)
	if in.About != nil {
		next.About = append([]string{}, (*in.About)...)
	}

	if err := planLogo(p, current, in); err != nil {
		return nil, err
	}

	hero, err := planSection(p, domainsvcs.SectionHero, current.HeroImages, in.HeroIDs, in.Hero, domainsvcs.CheckHero)
	if err != nil {
		return nil, err
	}
	next.HeroImages = hero

	gallery, err := planSection(p, domainsvcs.SectionGallery, current.Gallery, in.GalleryIDs, in.Gallery, domainsvcs.CheckGallery)
	if err != nil {
		return nil, err
	}
	next.Gallery = gallery

	if in.Products != nil {
		products, err := planProducts(p, current, *in.Products, in.ProductFiles)
		if err != nil {
			return nil, err
		}
		next.Products = products
	}
	if in.Testimonials != nil {
		testimonials, err := planTestimonials(p, current, *in.Testimonials, in.TestimonialFiles)
		if err != nil {
			return nil, err
		}
		next.Testimonials = testimonials
	}

	return p, nil
}

func planLogo(p *mutationPlan, current *models.Template, in EditTemplateInput) error {
	var kept *models.ImageHandle
	if current.CompanyLogo != nil {
		logo := *current.CompanyLogo
		kept = &logo
	}
	if in.LogoIDs != nil && kept != nil {
		keptList, removed := domainsvcs.PartitionImages([]models.ImageHandle{*kept}, *in.LogoIDs)
		p.drop(domainsvcs.SectionLogo, removed...)
		kept = nil
		if len(keptList) > 0 {
			kept = &keptList[0]
		}
	}

	if len(in.Logo) == 0 {
		p.next.CompanyLogo = kept
		return nil
	}
	// A new file without a keep-list replaces the stored logo.
	if in.LogoIDs == nil && kept != nil {
		p.drop(domainsvcs.SectionLogo, *kept)
		kept = nil
	}
	total := len(in.Logo)
	if kept != nil {
		total++
	}
	if err := domainsvcs.CheckLogo(total); err != nil {
		return err
	}
	logo := p.stage(domainsvcs.SectionLogo, "", in.Logo[0])
	p.next.CompanyLogo = &logo
	return nil
}

// planSection applies the keep-list rule to one image collection: with no
// keep-list the stored images stay, otherwise everything not kept is dropped.
func planSection(p *mutationPlan, section string, stored []models.ImageHandle, keep *[]string, files []FileUpload, check func(int) error) ([]models.ImageHandle, error) {
	kept := append([]models.ImageHandle{}, stored...)
	var removed []models.ImageHandle
	if keep != nil {
		kept, removed = domainsvcs.PartitionImages(stored, *keep)
	}
	if err := check(len(kept) + len(files)); err != nil {
		return nil, err
	}
	p.drop(section, removed...)
	return append(kept, p.stageAll(section, "", files)...), nil
}

func planProducts(p *mutationPlan, current *models.Template, incoming []ProductInput, files map[int][]FileUpload) ([]models.Product, error) {
	seen := make(map[uuid.UUID]bool, len(incoming))
	out := make([]models.Product, 0, len(incoming))
	newCount := 0
	var pendingDrops []models.ImageHandle

	for _, in := range incoming {
		idx := -1
		if in.ID != nil {
			idx = current.ProductIndex(*in.ID)
		}

		var prod models.Product
		var fileIdx int
		if idx >= 0 {
			if seen[*in.ID] {
				return nil, fmt.Errorf("%w: duplicate product _id %s", domain.ErrInvalidPayload, *in.ID)
			}
			seen[*in.ID] = true
			prod = current.Products[idx]
			prod.Images = append([]models.ImageHandle{}, prod.Images...)
			fileIdx = idx
		} else {
			prod = models.Product{ID: uuid.New(), Images: []models.ImageHandle{}}
			fileIdx = len(current.Products) + newCount
			newCount++
		}

		mergeString(&prod.Type, in.Type)
		mergeString(&prod.Name, in.Name)
		mergeString(&prod.Cost, in.Cost)
		mergeString(&prod.Description, in.Description)

		kept := prod.Images
		if idx >= 0 && in.ImageIDs != nil {
			var removed []models.ImageHandle
			kept, removed = domainsvcs.PartitionImages(prod.Images, *in.ImageIDs)
			pendingDrops = append(pendingDrops, removed...)
		}
		newFiles := files[fileIdx]
		if err := domainsvcs.CheckProductImages(prod.Name, len(kept)+len(newFiles)); err != nil {
			return nil, err
		}
		prod.Images = append(kept, p.stageAll(domainsvcs.SectionProduct, prod.ID.String(), newFiles)...)
		out = append(out, prod)
	}

	for _, stored := range current.Products {
		if !seen[stored.ID] {
			pendingDrops = append(pendingDrops, stored.Images...)
		}
	}
	p.drop(domainsvcs.SectionProduct, pendingDrops...)
	return out, nil
}

func planTestimonials(p *mutationPlan, current *models.Template, incoming []TestimonialInput, files map[int][]FileUpload) ([]models.Testimonial, error) {
	seen := make(map[uuid.UUID]bool, len(incoming))
	out := make([]models.Testimonial, 0, len(incoming))
	newCount := 0
	var pendingDrops []models.ImageHandle

	for _, in := range incoming {
		idx := -1
		if in.ID != nil {
			idx = current.TestimonialIndex(*in.ID)
		}

		var tm models.Testimonial
		var fileIdx int
		if idx >= 0 {
			if seen[*in.ID] {
				return nil, fmt.Errorf("%w: duplicate testimonial _id %s", domain.ErrInvalidPayload, *in.ID)
			}
			seen[*in.ID] = true
			tm = current.Testimonials[idx]
			if tm.Image != nil {
				img := *tm.Image
				tm.Image = &img
			}
			fileIdx = idx
		} else {
			tm = models.Testimonial{ID: uuid.New()}
			fileIdx = len(current.Testimonials) + newCount
			newCount++
		}

		mergeString(&tm.Name, in.Name)
		mergeString(&tm.JobPosition, in.JobPosition)
		mergeString(&tm.Testimony, in.Testimony)
		if in.Rating != nil {
			tm.Rating = *in.Rating
		}

		newFiles := files[fileIdx]
		if err := domainsvcs.CheckTestimonialImages(len(newFiles)); err != nil {
			return nil, err
		}
		switch {
		case len(newFiles) > 0:
			if tm.Image != nil {
				pendingDrops = append(pendingDrops, *tm.Image)
			}
			img := p.stage(domainsvcs.SectionTestimonial, strconv.Itoa(fileIdx), newFiles[0])
			tm.Image = &img
		case in.ClearImage && tm.Image != nil:
			pendingDrops = append(pendingDrops, *tm.Image)
			tm.Image = nil
		}
		out = append(out, tm)
	}

	for _, stored := range current.Testimonials {
		if !seen[stored.ID] && stored.Image != nil {
			pendingDrops = append(pendingDrops, *stored.Image)
		}
	}
	p.drop(domainsvcs.SectionTestimonial, pendingDrops...)
	return out, nil
}
