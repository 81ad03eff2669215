package repository

import "embed"

// Migrations holds the engine's schema migrations, applied at startup by
// pkg/database.Migrator.
//
//go:embed migrations/*.sql
var Migrations embed.FS
