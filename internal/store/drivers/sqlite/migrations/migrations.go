// Package migrations embeds the SQL migration files so binaries can
// bootstrap their own schema without shipping loose files.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
