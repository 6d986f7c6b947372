// Package config loads gg's optional <workspace>/.gg/config.json: a
// strict, allowed-field-only JSON document, parsed the same defensive
// way the teacher's internal/projectintegration/engine/config parses
// .scriptweaver/config.json — unknown fields are a hard error rather
// than silently ignored, so a typo in a config file fails loudly
// instead of silently falling back to defaults.
package config
