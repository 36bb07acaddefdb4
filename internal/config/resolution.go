package config

import (
	"os"
	"slices"
	"strconv"

	"github.com/cockroachdb/errors"

	"github.com/dkoosis/dpcheck/pkg/render"
)

// Formats lists the accepted output formats.
var Formats = []string{"auto", "terminal", "llm", "json", "sarif"}

// Themes lists the accepted terminal themes.
var Themes = render.ThemeNames

// CliFlags holds the values of command-line flags. Empty strings mean the
// flag was not given.
type CliFlags struct {
	Format   string
	Theme    string
	Lang     string
	LogLevel string
	NoColor  bool

	NoColorSet bool
}

// ResolvedConfig holds the final configuration after applying all priority rules.
type ResolvedConfig struct {
	Format   string
	Theme    string
	Lang     string
	LogLevel string
	NoColor  bool

	// Resolution metadata: "cli", "env", "file" or "default".
	FormatSource   string
	LogLevelSource string
	NoColorSource  string

	// ConfigPath is the YAML file that was read, if any.
	ConfigPath string
}

// ResolveConfig resolves configuration from all sources, reading the YAML
// file relative to dir.
func ResolveConfig(dir string, flags CliFlags) (*ResolvedConfig, error) {
	appCfg, err := LoadConfig(dir)
	if err != nil {
		return nil, err
	}

	fileSource := "default"
	if appCfg.Path != "" {
		fileSource = "file"
	}

	resolved := &ResolvedConfig{ConfigPath: appCfg.Path}
	resolved.Format, resolved.FormatSource = resolveString(flags.Format, "DPCHECK_FORMAT", appCfg.Format, fileSource)
	resolved.Theme, _ = resolveString(flags.Theme, "DPCHECK_THEME", appCfg.Theme, fileSource)
	resolved.Lang, _ = resolveString(flags.Lang, "DPCHECK_LANG", appCfg.Lang, fileSource)
	resolved.LogLevel, resolved.LogLevelSource = resolveString(flags.LogLevel, "DPCHECK_LOG_LEVEL", appCfg.LogLevel, fileSource)

	resolved.NoColor, resolved.NoColorSource = appCfg.NoColor, fileSource
	if flags.NoColorSet {
		resolved.NoColor, resolved.NoColorSource = flags.NoColor, "cli"
	} else if env := getEnvBool("DPCHECK_NO_COLOR", "NO_COLOR"); env != nil {
		resolved.NoColor, resolved.NoColorSource = *env, "env"
	}

	if err := validateResolvedConfig(resolved); err != nil {
		return nil, errors.Wrap(err, "config validation failed")
	}
	return resolved, nil
}

func resolveString(flag, envKey, fromFile, fileSource string) (string, string) {
	if flag != "" {
		return flag, "cli"
	}
	if env := os.Getenv(envKey); env != "" {
		return env, "env"
	}
	return fromFile, fileSource
}

// getEnvBool reads a boolean from environment variables, trying multiple keys.
// NO_COLOR follows no-color.org: any non-empty value that is not a boolean
// counts as true.
func getEnvBool(keys ...string) *bool {
	for _, key := range keys {
		val := os.Getenv(key)
		if val == "" {
			continue
		}
		b, err := strconv.ParseBool(val)
		if err != nil {
			b = key == "NO_COLOR"
			if !b {
				continue
			}
		}
		return &b
	}
	return nil
}

func validateResolvedConfig(cfg *ResolvedConfig) error {
	if !slices.Contains(Formats, cfg.Format) {
		return errors.WithHintf(errors.Newf("invalid format %q", cfg.Format), "use one of %v", Formats)
	}
	if !slices.Contains(Themes, cfg.Theme) {
		return errors.WithHintf(errors.Newf("invalid theme %q", cfg.Theme), "use one of %v", Themes)
	}
	return nil
}
