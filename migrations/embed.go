// Package migrations embeds the versioned SQL schema so binaries can migrate
// without a checked-out tree.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
