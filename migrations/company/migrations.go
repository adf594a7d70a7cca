// Package company embeds the goose migrations for the host company registry.
package company

import "embed"

//go:embed *.sql
var FS embed.FS
