package assignment_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkoosis/dpcheck/pkg/assignment"
)

func TestParse_AppliesDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := assignment.Parse([]byte("id: sample\npackage: org.dropproject.samples\n"))
	require.NoError(t, err)

	assert.Equal(t, "sample", cfg.ID)
	assert.Equal(t, assignment.EngineMaven, cfg.Engine)
	assert.Equal(t, assignment.LanguageJava, cfg.Language)
	assert.Equal(t, assignment.VisibilityUnset, cfg.HiddenTestsVisibility)
	assert.Equal(t, "TestTeacher", cfg.Naming.Teacher)
	assert.Equal(t, "TestTeacherHidden", cfg.Naming.Hidden)
	assert.Equal(t, "Test", cfg.Naming.Test)
}

func TestParse_FullDocument(t *testing.T) {
	t.Parallel()

	doc := `
id: kotlin-gradle
engine: Gradle
language: kotlin
package: pt.ulusofona
accepts_student_tests: true
calculate_student_tests_coverage: true
hidden_tests_visibility: show-progress
max_memory_mb: 512
naming:
  teacher: TestProf
`
	cfg, err := assignment.Parse([]byte(doc))
	require.NoError(t, err)

	assert.Equal(t, assignment.EngineGradle, cfg.Engine)
	assert.Equal(t, assignment.LanguageKotlin, cfg.Language)
	assert.True(t, cfg.AcceptsStudentTests)
	assert.True(t, cfg.CalculateStudentTestsCoverage)
	assert.Equal(t, assignment.VisibilityShowProgress, cfg.HiddenTestsVisibility)
	assert.Equal(t, 512, cfg.MaxMemoryMB)
	assert.Equal(t, "TestProf", cfg.Naming.Teacher)
	assert.Equal(t, "TestTeacherHidden", cfg.Naming.Hidden)
	assert.True(t, cfg.UsesGradle())
	assert.Equal(t, "kotlin", cfg.SourceFolder())
}

func TestParse_RejectsUnknownEnums(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"engine":     "engine: ant\n",
		"language":   "language: scala\n",
		"visibility": "hidden_tests_visibility: sometimes\n",
		"memory":     "max_memory_mb: -1\n",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			_, err := assignment.Parse([]byte(doc))
			require.Error(t, err)
			assert.True(t, errors.Is(err, assignment.ErrInvalidConfig), "got %v", err)
		})
	}
}

func TestParse_MalformedYAML(t *testing.T) {
	t.Parallel()

	_, err := assignment.Parse([]byte("engine: [maven"))
	require.Error(t, err)
	assert.False(t, errors.Is(err, assignment.ErrInvalidConfig))
}

func TestLoad_ReadsFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "assignment.yaml")
	require.NoError(t, os.WriteFile(path, []byte("id: a1\nlanguage: android\nengine: android\n"), 0o600))

	cfg, err := assignment.Load(path)
	require.NoError(t, err)
	assert.Equal(t, assignment.LanguageAndroid, cfg.Language)
	assert.Equal(t, "kotlin", cfg.SourceFolder())

	_, err = assignment.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestConfig_PackagePath(t *testing.T) {
	t.Parallel()

	cfg := assignment.Default()
	cfg.PackageName = "org.dropproject.samples"
	assert.Equal(t, "org/dropproject/samples", cfg.PackagePath())
	assert.False(t, cfg.UsesGradle())
	assert.Equal(t, "java", cfg.SourceFolder())
}
