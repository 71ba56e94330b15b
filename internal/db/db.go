// Package db holds the embedded goose migrations.
package db

import "embed"

// MigrationsDir is the directory of Migrations that goose reads.
const MigrationsDir = "migrations"

//go:embed migrations/*.sql
var Migrations embed.FS
