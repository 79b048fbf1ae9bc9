// Package migrations holds the SQL schema, applied with goose at boot and by cmd/migrate.
package migrations

import "embed"

// FS contains every migration file at its root
//
//go:embed *.sql
var FS embed.FS
