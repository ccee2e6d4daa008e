// Package configs provides the embedded configuration template for subseq.
//
// The template is printed by `subseq config --example` and documents every
// key the loader understands. Configuration is applied in this order (see
// internal/config Load):
//  1. Hardcoded defaults (NewConfig)
//  2. User config ($XDG_CONFIG_HOME/subseq/config.yaml)
//  3. --config file
//  4. Environment variables (SUBSEQ_*)
//  5. Command-line flags
package configs

import _ "embed"

// ConfigTemplate is a commented example config with default values.
//
//go:embed config.example.yaml
var ConfigTemplate string
