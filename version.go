package fixtures

import _ "embed"

// Version is the release of the fixtures module, read from the VERSION file.
//
//go:embed VERSION
var Version string
