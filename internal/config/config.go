package config

import (
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"
)

// FileName is the name of the YAML config file.
const FileName = ".dpcheck.yaml"

// Constants for default values.
const (
	DefaultFormat   = "auto"
	DefaultTheme    = "default"
	DefaultLang     = "pt"
	DefaultLogLevel = "warn"
)

// AppConfig represents the contents of .dpcheck.yaml.
type AppConfig struct {
	Format   string `yaml:"format"`
	Theme    string `yaml:"theme"`
	Lang     string `yaml:"lang"`
	LogLevel string `yaml:"log_level"`
	NoColor  bool   `yaml:"no_color"`

	// Path is the file the values were read from, empty for defaults.
	Path string `yaml:"-"`
}

func defaults() *AppConfig {
	return &AppConfig{
		Format:   DefaultFormat,
		Theme:    DefaultTheme,
		Lang:     DefaultLang,
		LogLevel: DefaultLogLevel,
	}
}

// LoadConfig reads the config file found from dir, merged over defaults.
// A missing file is not an error; a malformed one is.
func LoadConfig(dir string) (*AppConfig, error) {
	appCfg := defaults()

	configPath := getConfigPath(dir)
	if configPath == "" {
		return appCfg, nil
	}
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", configPath)
	}

	var fromFile AppConfig
	if err := yaml.Unmarshal(data, &fromFile); err != nil {
		return nil, errors.WithHint(
			errors.Wrapf(err, "parse %s", configPath),
			"keys are format, theme, lang, log_level and no_color",
		)
	}

	if fromFile.Format != "" {
		appCfg.Format = fromFile.Format
	}
	if fromFile.Theme != "" {
		appCfg.Theme = fromFile.Theme
	}
	if fromFile.Lang != "" {
		appCfg.Lang = fromFile.Lang
	}
	if fromFile.LogLevel != "" {
		appCfg.LogLevel = fromFile.LogLevel
	}
	appCfg.NoColor = fromFile.NoColor
	appCfg.Path = configPath
	return appCfg, nil
}

// getConfigPath finds the config file: dir first, then the user config
// directory. It returns "" when neither has one.
func getConfigPath(dir string) string {
	localPath := filepath.Join(dir, FileName)
	if _, err := os.Stat(localPath); err == nil {
		return localPath
	}

	configHome, err := os.UserConfigDir()
	if err != nil || configHome == "" || configHome == "/" {
		return ""
	}
	xdgPath := filepath.Join(configHome, "dpcheck", FileName)
	if _, err := os.Stat(xdgPath); err == nil {
		return xdgPath
	}
	return ""
}
