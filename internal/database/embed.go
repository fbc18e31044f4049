package database

import "embed"

// Migrations holds the schema, applied in order by [Migrate].
//
//go:embed migrations/*.sql
var Migrations embed.FS
