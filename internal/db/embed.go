package db

import (
	"embed"
	"io/fs"
)

// embeddedMigrations carries the schema migration files in the binary so a
// deployed CLI or server never depends on a source checkout.
//
//go:embed migrations/*.sql
var embeddedMigrations embed.FS

// getMigrationsFS returns the filesystem containing the migrations directory.
func getMigrationsFS() (fs.FS, error) {
	return embeddedMigrations, nil
}
