package models

import (
	"time"

	"github.com/google/uuid"
)

// ImageHandle references a stored asset. ID is the object-store key.
type ImageHandle struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// Product is owned by a Template and matched by ID on edit.
type Product struct {
	ID          uuid.UUID     `json:"_id"`
	Type        string        `json:"type"`
	Name        string        `json:"name"`
	Cost        string        `json:"cost"`
	Description string        `json:"description"`
	Images      []ImageHandle `json:"images"`
}

// Testimonial is owned by a Template and matched by ID on edit.
type Testimonial struct {
	ID          uuid.UUID    `json:"_id"`
	Name        string       `json:"name"`
	JobPosition string       `json:"jobPosition"`
	Testimony   string       `json:"testimony"`
	Rating      float64      `json:"rating"`
	Image       *ImageHandle `json:"image"`
}

// Template is the per-company website aggregate, keyed by SearchKey.
// Products and Testimonials are owned children; they are never stored on their own.
type Template struct {
	SearchKey   string `json:"searchKey"`
	IsActive    bool   `json:"isActive"`
	Revision    int64  `json:"revision"`
	CompanyID   string `json:"companyId,omitempty"`
	CompanyName string `json:"companyName"`

	CompanyLogo   *ImageHandle  `json:"companyLogo"`
	Title         string        `json:"title"`
	SubTitle      string        `json:"subTitle"`
	CTAButtonText string        `json:"CTAButtonText"`
	HeroImages    []ImageHandle `json:"heroImages"`
	About         []string      `json:"about"`

	ProductTitle string    `json:"productTitle"`
	Products     []Product `json:"products"`

	GalleryTitle string        `json:"galleryTitle"`
	Gallery      []ImageHandle `json:"gallery"`

	TestimonialTitle string        `json:"testimonialTitle"`
	Testimonials     []Testimonial `json:"testimonials"`

	ContactTitle          string `json:"contactTitle"`
	MapURL                string `json:"mapUrl"`
	Email                 string `json:"email"`
	Phone                 string `json:"phone"`
	Address               string `json:"address"`
	RegisteredCompanyName string `json:"registeredCompanyName"`
	CopyrightText         string `json:"copyrightText"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NewTemplate returns an inactive template at revision 1 with empty collections.
func NewTemplate(searchKey, companyName string) *Template {
	now := time.Now().UTC()
	return &Template{
		SearchKey:    searchKey,
		IsActive:     false,
		Revision:     1,
		CompanyName:  companyName,
		HeroImages:   []ImageHandle{},
		About:        []string{},
		Products:     []Product{},
		Gallery:      []ImageHandle{},
		Testimonials: []Testimonial{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// Images returns every handle owned by the template and its children.
func (t *Template) Images() []ImageHandle {
	var out []ImageHandle
	if t.CompanyLogo != nil {
		out = append(out, *t.CompanyLogo)
	}
	out = append(out, t.HeroImages...)
	out = append(out, t.Gallery...)
	for _, p := range t.Products {
		out = append(out, p.Images...)
	}
	for _, tm := range t.Testimonials {
		if tm.Image != nil {
			out = append(out, *tm.Image)
		}
	}
	return out
}

// ProductIndex returns the position of the product with id, or -1.
func (t *Template) ProductIndex(id uuid.UUID) int {
	for i, p := range t.Products {
		if p.ID == id {
			return i
		}
	}
	return -1
}

// TestimonialIndex returns the position of the testimonial with id, or -1.
func (t *Template) TestimonialIndex(id uuid.UUID) int {
	for i, tm := range t.Testimonials {
		if tm.ID == id {
			return i
		}
	}
	return -1
}

// Clone returns a deep copy so callers can merge into it without touching the original.
func (t *Template) Clone() *Template {
	c := *t
	if t.CompanyLogo != nil {
		logo := *t.CompanyLogo
		c.CompanyLogo = &logo
	}
	c.HeroImages = append([]ImageHandle{}, t.HeroImages...)
	c.About = append([]string{}, t.About...)
	c.Gallery = append([]ImageHandle{}, t.Gallery...)
	c.Products = make([]Product, len(t.Products))
	for i, p := range t.Products {
		p.Images = append([]ImageHandle{}, p.Images...)
		c.Products[i] = p
	}
	c.Testimonials = make([]Testimonial, len(t.Testimonials))
	for i, tm := range t.Testimonials {
		if tm.Image != nil {
			img := *tm.Image
			tm.Image = &img
		}
		c.Testimonials[i] = tm
	}
	return &c
}
