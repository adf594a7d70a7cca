// Package website embeds the goose migrations for website templates.
package website

import "embed"

//go:embed *.sql
var FS embed.FS
