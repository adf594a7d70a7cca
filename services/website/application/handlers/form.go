package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/google/uuid"

	pkgvalidator "github.com/wono/hostpanel/pkg/validator"
	appsvcs "github.com/wono/hostpanel/services/website/application/services"
	"github.com/wono/hostpanel/services/website/domain"
)

// Multipart field names shared by create and edit.
const (
	fieldLogo              = "companyLogo"
	fieldHero              = "heroImages"
	fieldGallery           = "gallery"
	fieldProductPrefix     = "productImages_"
	fieldTestimonialPrefix = "testimonialImages_"
	fieldTestimonialFlat   = "testimonialImages"
)

// templateForm is a parsed create or edit request. Plain urlencoded bodies are
// accepted too and simply carry no files.
type templateForm struct {
	values map[string][]string
	files  map[string][]*multipart.FileHeader
}

func parseTemplateForm(r *http.Request, maxMemory int64) (*templateForm, error) {
	err := r.ParseMultipartForm(maxMemory)
	switch {
	case errors.Is(err, http.ErrNotMultipart):
		if err := r.ParseForm(); err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrInvalidPayload, err)
		}
		return &templateForm{values: r.PostForm}, nil
	case err != nil:
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidPayload, err)
	}
	return &templateForm{values: r.MultipartForm.Value, files: r.MultipartForm.File}, nil
}

func (f *templateForm) has(key string) bool {
	_, ok := f.values[key]
	return ok
}

func (f *templateForm) str(key string) string {
	if v := f.values[key]; len(v) > 0 {
		return v[0]
	}
	return ""
}

// optStr is nil when key is absent from the form.
func (f *templateForm) optStr(key string) *string {
	if !f.has(key) {
		return nil
	}
	s := f.str(key)
	return &s
}

// firstStr returns the first present key.
func (f *templateForm) firstStr(keys ...string) *string {
	for _, k := range keys {
		if s := f.optStr(k); s != nil {
			return s
		}
	}
	return nil
}

// decodeJSON decodes a JSON-encoded form field into dst. It reports false when
// the field is absent or blank.
func (f *templateForm) decodeJSON(key string, dst any) (bool, error) {
	raw := strings.TrimSpace(f.str(key))
	if raw == "" {
		return false, nil
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		return false, fmt.Errorf("%w: %s must be valid JSON", domain.ErrInvalidPayload, key)
	}
	return true, nil
}

func (f *templateForm) fileList(key string) ([]appsvcs.FileUpload, error) {
	return readFiles(f.files[key])
}

// indexedFiles collects fields named prefix{i}.
func (f *templateForm) indexedFiles(prefix string) (map[int][]appsvcs.FileUpload, error) {
	out := map[int][]appsvcs.FileUpload{}
	keys := make([]string, 0, len(f.files))
	for k := range f.files {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		suffix, ok := strings.CutPrefix(k, prefix)
		if !ok {
			continue
		}
		i, err := strconv.Atoi(suffix)
		if err != nil || i < 0 {
			return nil, fmt.Errorf("%w: unexpected file field %q", domain.ErrInvalidPayload, k)
		}
		files, err := readFiles(f.files[k])
		if err != nil {
			return nil, err
		}
		out[i] = files
	}
	return out, nil
}

func readFiles(headers []*multipart.FileHeader) ([]appsvcs.FileUpload, error) {
	if len(headers) == 0 {
		return nil, nil
	}
	out := make([]appsvcs.FileUpload, 0, len(headers))
	for _, fh := range headers {
		data, err := readFile(fh)
		if err != nil {
			return nil, fmt.Errorf("%w: read %s: %w", domain.ErrInvalidPayload, fh.Filename, err)
		}
		out = append(out, appsvcs.FileUpload{
			Name:        fh.Filename,
			Data:        data,
			ContentType: fh.Header.Get("Content-Type"),
		})
	}
	return out, nil
}

func readFile(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close() //nolint:errcheck
	return io.ReadAll(f)
}

// flexString accepts a JSON string or number.
type flexString string

func (s *flexString) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var v string
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		*s = flexString(v)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*s = flexString(n.String())
	return nil
}

// flexFloat accepts a JSON number or a numeric string.
type flexFloat float64

func (f *flexFloat) UnmarshalJSON(b []byte) error {
	var n json.Number
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		n = json.Number(strings.TrimSpace(s))
	} else if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	v, err := n.Float64()
	if err != nil {
		return err
	}
	*f = flexFloat(v)
	return nil
}

// nullableString distinguishes an absent key, an explicit null and a value.
type nullableString struct {
	Set   bool
	Null  bool
	Value string
}

func (n *nullableString) UnmarshalJSON(b []byte) error {
	n.Set = true
	if string(b) == "null" {
		n.Null = true
		return nil
	}
	return json.Unmarshal(b, &n.Value)
}

// productPayload is one entry of the products JSON field.
type productPayload struct {
	ID          string      `json:"_id"`
	Type        *string     `json:"type"        validate:"omitempty,max=80"`
	Name        *string     `json:"name"        validate:"omitempty,max=120"`
	Cost        *flexString `json:"cost"        validate:"omitempty,max=40"`
	Description *string     `json:"description" validate:"omitempty,max=2000"`
	ImageIDs    *[]string   `json:"imageIds"`
}

func (p productPayload) input() appsvcs.ProductInput {
	in := appsvcs.ProductInput{
		ID:          parseID(p.ID),
		Type:        p.Type,
		Name:        p.Name,
		Description: p.Description,
		ImageIDs:    p.ImageIDs,
	}
	if p.Cost != nil {
		cost := string(*p.Cost)
		in.Cost = &cost
	}
	return in
}

// testimonialPayload is one entry of the testimonials JSON field.
// "imageId": null clears the stored image.
type testimonialPayload struct {
	ID          string         `json:"_id"`
	Name        *string        `json:"name"        validate:"omitempty,max=120"`
	JobPosition *string        `json:"jobPosition" validate:"omitempty,max=120"`
	Testimony   *string        `json:"testimony"   validate:"omitempty,max=2000"`
	Rating      *flexFloat     `json:"rating"      validate:"omitempty,gte=0,lte=5"`
	ImageID     nullableString `json:"imageId"`
}

func (t testimonialPayload) input() appsvcs.TestimonialInput {
	in := appsvcs.TestimonialInput{
		ID:          parseID(t.ID),
		Name:        t.Name,
		JobPosition: t.JobPosition,
		Testimony:   t.Testimony,
		ClearImage:  t.ImageID.Set && t.ImageID.Null,
	}
	if t.Rating != nil {
		r := float64(*t.Rating)
		in.Rating = &r
	}
	return in
}

// contactFields are the scalar fields that carry a format rule. Blank values
// are left to the template validator.
type contactFields struct {
	Email  string `json:"email"  validate:"omitempty,email"`
	Phone  string `json:"phone"  validate:"omitempty,phone"`
	MapURL string `json:"mapUrl" validate:"omitempty,url"`
}

func (c contactFields) validate() error {
	c.Email = strings.TrimSpace(c.Email)
	c.Phone = strings.TrimSpace(c.Phone)
	c.MapURL = strings.TrimSpace(c.MapURL)
	return validatePayload("", &c)
}

// validatePayload runs the struct rules on v and reports every failing field
// as ErrInvalidPayload, prefixed with prefix.
func validatePayload(prefix string, v any) error {
	err := pkgvalidator.Validate(v)
	if err == nil {
		return nil
	}
	fields := pkgvalidator.FormatValidationErrors(err)
	if len(fields) == 0 {
		return fmt.Errorf("%w: %w", domain.ErrInvalidPayload, err)
	}
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)
	msgs := make([]string, len(names))
	for i, name := range names {
		msgs[i] = prefix + name + ": " + fields[name]
	}
	return fmt.Errorf("%w: %s", domain.ErrInvalidPayload, strings.Join(msgs, "; "))
}

// parseID treats a missing or malformed id as a new entity.
func parseID(s string) *uuid.UUID {
	id, err := uuid.Parse(s)
	if err != nil {
		return nil
	}
	return &id
}

func (f *templateForm) products() (*[]appsvcs.ProductInput, error) {
	var raw []productPayload
	ok, err := f.decodeJSON("products", &raw)
	if err != nil || !ok {
		return nil, err
	}
	out := make([]appsvcs.ProductInput, len(raw))
	for i, p := range raw {
		if err := validatePayload(fmt.Sprintf("products[%d].", i), &p); err != nil {
			return nil, err
		}
		out[i] = p.input()
	}
	return &out, nil
}

func (f *templateForm) testimonials() (*[]appsvcs.TestimonialInput, error) {
	var raw []testimonialPayload
	ok, err := f.decodeJSON("testimonials", &raw)
	if err != nil || !ok {
		return nil, err
	}
	out := make([]appsvcs.TestimonialInput, len(raw))
	for i, t := range raw {
		if err := validatePayload(fmt.Sprintf("testimonials[%d].", i), &t); err != nil {
			return nil, err
		}
		out[i] = t.input()
	}
	return &out, nil
}

func (f *templateForm) about() (*[]string, error) {
	var about []string
	ok, err := f.decodeJSON("about", &about)
	if err != nil || !ok {
		return nil, err
	}
	if about == nil {
		about = []string{}
	}
	return &about, nil
}

// keepList decodes a JSON array of image ids. Absent means "leave unchanged".
func (f *templateForm) keepList(key string) (*[]string, error) {
	if !f.has(key) {
		return nil, nil
	}
	ids := []string{}
	if _, err := f.decodeJSON(key, &ids); err != nil {
		return nil, err
	}
	return &ids, nil
}

// logoKeep maps companyLogoId onto a keep-list: "" or "null" clears the logo.
func (f *templateForm) logoKeep() *[]string {
	if !f.has("companyLogoId") {
		return nil
	}
	id := strings.TrimSpace(f.str("companyLogoId"))
	if id == "" || id == "null" {
		return &[]string{}
	}
	return &[]string{id}
}

func (f *templateForm) revision() (*int64, error) {
	raw := strings.TrimSpace(f.str("revision"))
	if raw == "" {
		return nil, nil
	}
	rev, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || rev < 1 {
		return nil, fmt.Errorf("%w: revision must be a positive integer", domain.ErrInvalidPayload)
	}
	return &rev, nil
}

// createInput builds the create request. Missing JSON collections are empty.
func (f *templateForm) createInput() (appsvcs.CreateTemplateInput, error) {
	in := appsvcs.CreateTemplateInput{
		CompanyID:             f.str("companyId"),
		CompanyName:           f.str("companyName"),
		Title:                 f.str("title"),
		SubTitle:              f.str("subTitle"),
		CTAButtonText:         f.str("CTAButtonText"),
		ProductTitle:          f.str("productTitle"),
		GalleryTitle:          f.str("galleryTitle"),
		TestimonialTitle:      f.str("testimonialTitle"),
		ContactTitle:          f.str("contactTitle"),
		MapURL:                f.str("mapUrl"),
		Email:                 deref(f.firstStr("websiteEmail", "email")),
		Phone:                 f.str("phone"),
		Address:               f.str("address"),
		RegisteredCompanyName: f.str("registeredCompanyName"),
		CopyrightText:         f.str("copyrightText"),
	}
	contact := contactFields{Email: in.Email, Phone: in.Phone, MapURL: in.MapURL}
	if err := contact.validate(); err != nil {
		return in, err
	}

	about, err := f.about()
	if err != nil {
		return in, err
	}
	in.About = deref(about)

	products, err := f.products()
	if err != nil {
		return in, err
	}
	in.Products = deref(products)

	testimonials, err := f.testimonials()
	if err != nil {
		return in, err
	}
	in.Testimonials = deref(testimonials)

	if in.Logo, err = f.fileList(fieldLogo); err != nil {
		return in, err
	}
	if in.Hero, err = f.fileList(fieldHero); err != nil {
		return in, err
	}
	if in.Gallery, err = f.fileList(fieldGallery); err != nil {
		return in, err
	}
	if in.ProductFiles, err = f.indexedFiles(fieldProductPrefix); err != nil {
		return in, err
	}
	if in.TestimonialFiles, err = f.indexedFiles(fieldTestimonialPrefix); err != nil {
		return in, err
	}
	if in.FlatTestimonialFiles, err = f.fileList(fieldTestimonialFlat); err != nil {
		return in, err
	}
	return in, nil
}

// editInput builds the edit request. Absent fields stay nil.
func (f *templateForm) editInput() (appsvcs.EditTemplateInput, error) {
	in := appsvcs.EditTemplateInput{
		CompanyName:           f.str("companyName"),
		SearchKey:             f.str("searchKey"),
		Title:                 f.optStr("title"),
		SubTitle:              f.optStr("subTitle"),
		CTAButtonText:         f.optStr("CTAButtonText"),
		ProductTitle:          f.optStr("productTitle"),
		GalleryTitle:          f.optStr("galleryTitle"),
		TestimonialTitle:      f.optStr("testimonialTitle"),
		ContactTitle:          f.optStr("contactTitle"),
		MapURL:                f.optStr("mapUrl"),
		Email:                 f.firstStr("email", "websiteEmail"),
		Phone:                 f.optStr("phone"),
		Address:               f.optStr("address"),
		RegisteredCompanyName: f.optStr("registeredCompanyName"),
		CopyrightText:         f.optStr("copyrightText"),
		LogoIDs:               f.logoKeep(),
	}
	contact := contactFields{Email: deref(in.Email), Phone: deref(in.Phone), MapURL: deref(in.MapURL)}
	if err := contact.validate(); err != nil {
		return in, err
	}

	var err error
	if in.About, err = f.about(); err != nil {
		return in, err
	}
	if in.Products, err = f.products(); err != nil {
		return in, err
	}
	if in.Testimonials, err = f.testimonials(); err != nil {
		return in, err
	}
	if in.HeroIDs, err = f.keepList("heroImageIds"); err != nil {
		return in, err
	}
	if in.GalleryIDs, err = f.keepList("galleryImageIds"); err != nil {
		return in, err
	}
	if in.ExpectedRevision, err = f.revision(); err != nil {
		return in, err
	}

	if in.Logo, err = f.fileList(fieldLogo); err != nil {
		return in, err
	}
	if in.Hero, err = f.fileList(fieldHero); err != nil {
		return in, err
	}
	if in.Gallery, err = f.fileList(fieldGallery); err != nil {
		return in, err
	}
	if in.ProductFiles, err = f.indexedFiles(fieldProductPrefix); err != nil {
		return in, err
	}
	if in.TestimonialFiles, err = f.indexedFiles(fieldTestimonialPrefix); err != nil {
		return in, err
	}
	return in, nil
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}
