// Package hostuser embeds the goose migrations for host user profiles.
package hostuser

import "embed"

//go:embed *.sql
var FS embed.FS
