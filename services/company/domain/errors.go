package domain

import "errors"

// ErrCompanyNotFound indicates no host company matches the lookup.
var ErrCompanyNotFound = errors.New("Company not found")
