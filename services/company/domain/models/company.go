package models

import (
	"strings"
	"time"
)

// Company is a host company registered with the panel.
type Company struct {
	CompanyID          string    `json:"companyId"`
	CompanyName        string    `json:"companyName"`
	Industry           string    `json:"industry"`
	CompanySize        string    `json:"companySize"`
	City               string    `json:"city"`
	State              string    `json:"state"`
	Country            string    `json:"country"`
	WebsiteURL         string    `json:"websiteURL"`
	LinkedinURL        string    `json:"linkedinURL"`
	IsRegistered       bool      `json:"isRegistered"`
	HasWebsiteTemplate bool      `json:"isWebsiteTemplate"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

// NormalizeName trims surrounding whitespace. Company names are matched exactly
// otherwise, because the signup form cannot send a company id.
func NormalizeName(name string) string {
	return strings.TrimSpace(name)
}
