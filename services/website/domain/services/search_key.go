package services

import (
	"strings"
	"unicode"
)

// placeholderNames are company names that carry no identity.
var placeholderNames = map[string]struct{}{
	"n/a":       {},
	"na":        {},
	"none":      {},
	"undefined": {},
	"null":      {},
	"-":         {},
}

// SearchKey derives the template identity from a company name: lowercased,
// cut at the first '-', with all whitespace removed. Placeholder names yield "".
//
// SearchKey(SearchKey(s)) == SearchKey(s) for every s.
func SearchKey(companyName string) string {
	s := strings.ToLower(strings.TrimSpace(companyName))
	if i := strings.IndexByte(s, '-'); i >= 0 {
		s = s[:i]
	}
	s = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
	if _, ok := placeholderNames[s]; ok {
		return ""
	}
	return s
}
