// Package migrations contiene el esquema SQL versionado (golang-migrate) embebido en el binario.
package migrations

import "embed"

// FS migraciones {version}_{nombre}.{up|down}.sql.
//
//go:embed *.sql
var FS embed.FS
