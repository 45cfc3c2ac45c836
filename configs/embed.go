// Package configs provides the embedded configuration template written by
// 'scripturelens init'. Embedding keeps the template available in every
// distribution, source builds and binary releases alike.
package configs

import _ "embed"

// ConfigTemplate is the commented starting point for scripturelens.yaml.
// Its values match the hardcoded defaults in internal/config.
//
//go:embed scripturelens.example.yaml
var ConfigTemplate string
