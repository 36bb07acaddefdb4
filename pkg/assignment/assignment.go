// Package assignment holds the per-assignment policy that drives report
// extraction and project validation.
package assignment

import (
	"os"
	"strings"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig marks assignment files that parse but carry unusable values.
var ErrInvalidConfig = errors.New("invalid assignment config")

// Engine is the build tool the submitted project is driven by.
type Engine string

const (
	EngineMaven   Engine = "maven"
	EngineGradle  Engine = "gradle"
	EngineAndroid Engine = "android"
)

// Language is the implementation language of the assignment.
type Language string

const (
	LanguageJava    Language = "java"
	LanguageKotlin  Language = "kotlin"
	LanguageAndroid Language = "android"
)

// Visibility controls how hidden-test results are shown to students.
// The zero value means the teacher never chose one.
type Visibility string

const (
	VisibilityUnset          Visibility = ""
	VisibilityHideEverything Visibility = "hide-everything"
	VisibilityShowOKNotOK    Visibility = "show-ok-nok"
	VisibilityShowProgress   Visibility = "show-progress"
)

// Default test file prefixes.
const (
	DefaultTestPrefix    = "Test"
	DefaultTeacherPrefix = "TestTeacher"
	DefaultHiddenPrefix  = "TestTeacherHidden"
)

// Naming holds the filename prefixes that classify test classes.
type Naming struct {
	Test    string `yaml:"test"`
	Teacher string `yaml:"teacher"`
	Hidden  string `yaml:"hidden"`
}

// Config is the assignment policy read once per run. It is never mutated by
// the extractors or validators.
type Config struct {
	ID                            string     `yaml:"id"`
	Engine                        Engine     `yaml:"engine"`
	Language                      Language   `yaml:"language"`
	PackageName                   string     `yaml:"package"`
	AcceptsStudentTests           bool       `yaml:"accepts_student_tests"`
	CalculateStudentTestsCoverage bool       `yaml:"calculate_student_tests_coverage"`
	HiddenTestsVisibility         Visibility `yaml:"hidden_tests_visibility"`
	MaxMemoryMB                   int        `yaml:"max_memory_mb"`
	Naming                        Naming     `yaml:"naming"`
}

// Default returns a Maven/Java assignment with the standard test prefixes.
func Default() Config {
	return Config{
		Engine:   EngineMaven,
		Language: LanguageJava,
		Naming: Naming{
			Test:    DefaultTestPrefix,
			Teacher: DefaultTeacherPrefix,
			Hidden:  DefaultHiddenPrefix,
		},
	}
}

// Load reads an assignment file from disk.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrapf(err, "reading assignment %s", path)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, errors.Wrapf(err, "assignment %s", path)
	}
	return cfg, nil
}

// Parse decodes YAML on top of Default and validates the result.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, errors.Wrap(err, "decoding assignment yaml")
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	c.Engine = Engine(strings.ToLower(string(c.Engine)))
	c.Language = Language(strings.ToLower(string(c.Language)))
	c.HiddenTestsVisibility = Visibility(strings.ToLower(string(c.HiddenTestsVisibility)))
	if c.Naming.Test == "" {
		c.Naming.Test = DefaultTestPrefix
	}
	if c.Naming.Teacher == "" {
		c.Naming.Teacher = DefaultTeacherPrefix
	}
	if c.Naming.Hidden == "" {
		c.Naming.Hidden = DefaultHiddenPrefix
	}
}

// Validate rejects values outside the closed enumerations.
func (c Config) Validate() error {
	switch c.Engine {
	case EngineMaven, EngineGradle, EngineAndroid:
	default:
		return errors.WithHint(
			errors.Wrapf(ErrInvalidConfig, "unknown engine %q", c.Engine),
			"engine must be one of maven, gradle, android")
	}
	switch c.Language {
	case LanguageJava, LanguageKotlin, LanguageAndroid:
	default:
		return errors.WithHint(
			errors.Wrapf(ErrInvalidConfig, "unknown language %q", c.Language),
			"language must be one of java, kotlin, android")
	}
	switch c.HiddenTestsVisibility {
	case VisibilityUnset, VisibilityHideEverything, VisibilityShowOKNotOK, VisibilityShowProgress:
	default:
		return errors.WithHint(
			errors.Wrapf(ErrInvalidConfig, "unknown hidden test visibility %q", c.HiddenTestsVisibility),
			"hidden_tests_visibility must be one of hide-everything, show-ok-nok, show-progress")
	}
	if c.MaxMemoryMB < 0 {
		return errors.Wrapf(ErrInvalidConfig, "max_memory_mb must not be negative, got %d", c.MaxMemoryMB)
	}
	return nil
}

// PackagePath turns the assignment package into a source path, e.g.
// "org.dropproject.samples" becomes "org/dropproject/samples".
func (c Config) PackagePath() string {
	return strings.ReplaceAll(c.PackageName, ".", "/")
}

// SourceFolder returns the language-specific folder name under src/main and src/test.
func (c Config) SourceFolder() string {
	if c.Language == LanguageJava {
		return "java"
	}
	return "kotlin"
}

// UsesGradle reports whether the project is built by a Gradle wrapper.
func (c Config) UsesGradle() bool {
	return c.Engine == EngineGradle || c.Engine == EngineAndroid
}
