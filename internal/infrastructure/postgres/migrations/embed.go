// Package migrations embeds the goose SQL migrations that define the
// credential store schema.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
