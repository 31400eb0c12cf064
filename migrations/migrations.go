// Package migrations embarque les fichiers SQL versionnés du schéma.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
