// Package migrations embeds the SQL migration files for the PostgreSQL
// store backend.
package migrations

import "embed"

//go:embed *.sql
var MigrationsFS embed.FS
