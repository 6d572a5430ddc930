package localization

import "embed"

// defaultPacks carries the shipped message files so hosts that do not ship
// their own translations still get translated prompt text.
//
//go:embed messages.*.toml
var defaultPacks embed.FS
