// Package migrations holds the goose SQL migrations shipped inside the binary.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
