package services

import "github.com/google/uuid"

// FileUpload is one multipart file part, fully read.
type FileUpload struct {
	Name        string
	Data        []byte
	ContentType string
}

// ProductInput describes one product in a create or edit request.
// On edit, nil scalars keep the stored value and a nil ImageIDs leaves stored
// images untouched.
type ProductInput struct {
	ID          *uuid.UUID
	Type        *string
	Name        *string
	Cost        *string
	Description *string
	ImageIDs    *[]string
}

// TestimonialInput describes one testimonial in a create or edit request.
// ClearImage is the explicit "remove the stored image" signal.
type TestimonialInput struct {
	ID          *uuid.UUID
	Name        *string
	JobPosition *string
	Testimony   *string
	Rating      *float64
	ClearImage  bool
}

// CreateTemplateInput is the parsed create-website request.
type CreateTemplateInput struct {
	CompanyID             string
	CompanyName           string
	Title                 string
	SubTitle              string
	CTAButtonText         string
	About                 []string
	ProductTitle          string
	Products              []ProductInput
	GalleryTitle          string
	TestimonialTitle      string
	Testimonials          []TestimonialInput
	ContactTitle          string
	MapURL                string
	Email                 string
	Phone                 string
	Address               string
	RegisteredCompanyName string
	CopyrightText         string

	Logo             []FileUpload
	Hero             []FileUpload
	Gallery          []FileUpload
	ProductFiles     map[int][]FileUpload
	TestimonialFiles map[int][]FileUpload
	// FlatTestimonialFiles are zipped with Testimonials by position and take
	// precedence over TestimonialFiles.
	FlatTestimonialFiles []FileUpload
}

// EditTemplateInput is the parsed edit-website request. Nil fields are absent
// from the request and leave the stored value unchanged.
type EditTemplateInput struct {
	CompanyName string
	SearchKey   string

	Title                 *string
	SubTitle              *string
	CTAButtonText         *string
	About                 *[]string
	ProductTitle          *string
	GalleryTitle          *string
	TestimonialTitle      *string
	ContactTitle          *string
	MapURL                *string
	Email                 *string
	Phone                 *string
	Address               *string
	RegisteredCompanyName *string
	CopyrightText         *string

	Products     *[]ProductInput
	Testimonials *[]TestimonialInput

	// Keep-lists. A non-nil empty list removes every stored image of the section.
	LogoIDs    *[]string
	HeroIDs    *[]string
	GalleryIDs *[]string

	Logo             []FileUpload
	Hero             []FileUpload
	Gallery          []FileUpload
	ProductFiles     map[int][]FileUpload
	TestimonialFiles map[int][]FileUpload

	ExpectedRevision *int64
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}

func mergeString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}
