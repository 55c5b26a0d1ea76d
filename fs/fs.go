// Package appfs embeds the static files shipped with the binaries.
package appfs

import "embed"

//go:embed migrations/*.sql fixtures/*.json
var FS embed.FS

const (
	MigrationsDir = "migrations"
	FixturesDir   = "fixtures"
)
