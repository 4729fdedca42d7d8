package db

import (
	"embed"
	"io/fs"
	"os"
)

//go:embed migrations
var migrationsFS embed.FS

// DevMode serves migrations from the local source tree instead of the
// embedded copy, so schema edits do not require a rebuild.
var DevMode = false

// getMigrationsFS returns the migrations filesystem rooted at the directory
// containing the .sql files.
func getMigrationsFS() (fs.FS, error) {
	if DevMode {
		return os.DirFS("internal/db/migrations"), nil
	}
	return fs.Sub(migrationsFS, "migrations")
}

// MigrationsFS exposes the active migrations filesystem for callers outside
// the package (the server runs MigrateUp at startup).
func MigrationsFS() (fs.FS, error) {
	return getMigrationsFS()
}
