// Package config handles configuration loading and merging for dpcheck.
//
// # Configuration Precedence
//
// Configuration values are resolved in the following order (highest to lowest priority):
//
//  1. CLI flags (--format, --theme, --lang, --log-level, --no-color)
//  2. Environment variables (DPCHECK_FORMAT, DPCHECK_THEME, DPCHECK_LANG,
//     DPCHECK_LOG_LEVEL, DPCHECK_NO_COLOR, NO_COLOR)
//  3. YAML config file (.dpcheck.yaml in the working directory or
//     $XDG_CONFIG_HOME/dpcheck/.dpcheck.yaml)
//  4. Hardcoded defaults
//
// When a higher-priority source sets a value, it overrides any lower-priority values.
//
// # Keys
//
//   - format: auto, terminal, llm, json or sarif
//   - theme: default, pastel or mono
//   - lang: language of translated Detekt messages (pt or en)
//   - log_level: debug, info, warn or error
//   - no_color: disables colors in terminal output
package config
