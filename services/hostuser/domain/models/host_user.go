package models

import (
	"time"

	"github.com/google/uuid"
)

// HostUser is a company member who signs in to the panel.
type HostUser struct {
	ID              uuid.UUID `json:"_id"`
	CompanyID       string    `json:"companyId"`
	Name            string    `json:"name"`
	Email           string    `json:"email"`
	Phone           string    `json:"phone"`
	Designation     string    `json:"designation"`
	LinkedInProfile string    `json:"linkedInProfile"`
	Languages       []string  `json:"languages"`
	Address         string    `json:"address"`
	ProfileImage    string    `json:"profileImage"`
	IsActive        bool      `json:"isActive"`
	PasswordHash    string    `json:"-"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// ProfileUpdate is a partial profile edit. Nil and empty values are ignored,
// except IsActive which applies whenever it is set.
type ProfileUpdate struct {
	Name            *string
	Designation     *string
	Phone           *string
	LinkedInProfile *string
	Languages       []string
	Address         *string
	ProfileImage    *string
	IsActive        *bool
}

// Empty reports whether u would change nothing.
func (u ProfileUpdate) Empty() bool {
	for _, s := range []*string{u.Name, u.Designation, u.Phone, u.LinkedInProfile, u.Address, u.ProfileImage} {
		if s != nil && *s != "" {
			return false
		}
	}
	return len(u.Languages) == 0 && u.IsActive == nil
}

// Apply copies the set fields of u onto the user.
func (h *HostUser) Apply(u ProfileUpdate) {
	set := func(dst *string, src *string) {
		if src != nil && *src != "" {
			*dst = *src
		}
	}
	set(&h.Name, u.Name)
	set(&h.Designation, u.Designation)
	set(&h.Phone, u.Phone)
	set(&h.LinkedInProfile, u.LinkedInProfile)
	set(&h.Address, u.Address)
	set(&h.ProfileImage, u.ProfileImage)
	if len(u.Languages) > 0 {
		h.Languages = append([]string{}, u.Languages...)
	}
	if u.IsActive != nil {
		h.IsActive = *u.IsActive
	}
}
