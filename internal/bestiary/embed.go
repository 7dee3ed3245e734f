// Package bestiary provides embedded enemy presets used to prefill the add form.
package bestiary

import "embed"

// dataFS embeds all JSON files from this directory at build time.
//
//go:embed *.json
var dataFS embed.FS
