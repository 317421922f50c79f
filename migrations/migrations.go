// Package migrations embeds the system-of-record schema files.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
