// Package migrations embeds the schema files for the local habitlog database.
package migrations

import "embed"

//go:embed sqlite/*.sql
var FS embed.FS
