package models

// CompanyRef is the part of a registered host company the website context needs.
type CompanyRef struct {
	ID   string
	Name string
}
