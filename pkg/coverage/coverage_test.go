package coverage_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkoosis/dpcheck/pkg/assignment"
	"github.com/dkoosis/dpcheck/pkg/coverage"
	"github.com/dkoosis/dpcheck/pkg/descriptor"
	"github.com/dkoosis/dpcheck/pkg/diagnostic"
)

func pomWithJacoco(include string) *descriptor.Model {
	return &descriptor.Model{
		Kind: descriptor.KindPOM,
		Plugins: []descriptor.Plugin{{
			GroupID:    "org.jacoco",
			ArtifactID: "jacoco-maven-plugin",
			Version:    "0.8.2",
			Configuration: &descriptor.Node{Name: "configuration", Children: []*descriptor.Node{
				{Name: "includes", Children: []*descriptor.Node{{Name: "include", Text: include}}},
			}},
		}},
	}
}

func config(required bool) assignment.Config {
	cfg := assignment.Default()
	cfg.PackageName = "org.dropProject.samples.samplejavaassignment"
	cfg.CalculateStudentTestsCoverage = required
	return cfg
}

func run(m *descriptor.Model, cfg assignment.Config) []diagnostic.Record {
	r := diagnostic.NewReport()
	coverage.Validate(m, cfg, r, nil)
	return r.Records()
}

func TestValidate_Matrix(t *testing.T) {
	t.Parallel()

	const good = "org/dropProject/samples/samplejavaassignment/*"
	absent := &descriptor.Model{Kind: descriptor.KindPOM}

	tests := []struct {
		name     string
		model    *descriptor.Model
		required bool
		want     []diagnostic.Severity
		message  string
	}{
		{"absent and required", absent, true, []diagnostic.Severity{diagnostic.SeverityError}, "POM file is not prepared to calculate coverage"},
		{"absent and not required", absent, false, nil, ""},
		{"present and required", pomWithJacoco(good), true, []diagnostic.Severity{diagnostic.SeverityInfo}, "POM file is prepared to calculate coverage"},
		{"present, wrong include", pomWithJacoco("org/other/*"), true, []diagnostic.Severity{diagnostic.SeverityError}, "jacoco-maven-plugin (used for coverage) has a configuration problem"},
		{"present and not required", pomWithJacoco(good), false, []diagnostic.Severity{diagnostic.SeverityWarning}, "POM file includes a plugin to calculate coverage but the assignment has the flag 'Calculate coverage of student tests?' set to 'No'"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			recs := run(tc.model, config(tc.required))
			got := make([]diagnostic.Severity, 0, len(recs))
			for _, r := range recs {
				got = append(got, r.Severity)
			}
			if tc.want == nil {
				assert.Empty(t, recs)
				return
			}
			assert.Equal(t, tc.want, got)
			assert.Equal(t, tc.message, recs[0].Message)
		})
	}
}

func TestValidate_ManagedPluginCountsAsAbsent(t *testing.T) {
	t.Parallel()

	m, err := descriptor.ParsePOM([]byte(`<project><build><pluginManagement><plugins><plugin>
  <groupId>org.jacoco</groupId><artifactId>jacoco-maven-plugin</artifactId>
</plugin></plugins></pluginManagement></build></project>`))
	require.NoError(t, err)

	assert.Empty(t, run(m, config(false)))

	recs := run(m, config(true))
	require.Len(t, recs, 1)
	assert.Equal(t, "POM file is not prepared to calculate coverage", recs[0].Message)
}

func TestValidate_IncludePatternFlipsOnlySeverity(t *testing.T) {
	t.Parallel()

	ok := run(pomWithJacoco("org/dropProject/samples/samplejavaassignment/*"), config(true))
	bad := run(pomWithJacoco("org/dropProject/samples/*"), config(true))

	require.Len(t, ok, 1)
	require.Len(t, bad, 1)
	assert.Equal(t, diagnostic.SeverityInfo, ok[0].Severity)
	assert.Equal(t, diagnostic.SeverityError, bad[0].Severity)
	assert.Contains(t, bad[0].Snippet, "<include>org/dropProject/samples/samplejavaassignment/*</include>")
}

func TestValidate_MissingPluginSnippet(t *testing.T) {
	t.Parallel()

	recs := run(&descriptor.Model{Kind: descriptor.KindPOM}, config(true))
	require.Len(t, recs, 1)
	assert.Contains(t, recs[0].Detail, "Please add the following lines to your POM file")
	assert.Contains(t, recs[0].Snippet, "<artifactId>jacoco-maven-plugin</artifactId>")
	assert.Contains(t, recs[0].Snippet, "<phase>test</phase>")
}

func TestValidate_IncludeInExecution(t *testing.T) {
	t.Parallel()

	m := &descriptor.Model{
		Kind: descriptor.KindPOM,
		Plugins: []descriptor.Plugin{{
			ArtifactID: "jacoco-maven-plugin",
			Executions: []descriptor.Execution{{
				ID: "report",
				Configuration: &descriptor.Node{Name: "configuration", Children: []*descriptor.Node{
					{Name: "includes", Children: []*descriptor.Node{{Name: "include", Text: "org/dropProject/samples/samplejavaassignment/*"}}},
				}},
			}},
		}},
	}
	recs := run(m, config(true))
	require.Len(t, recs, 1)
	assert.Equal(t, diagnostic.SeverityInfo, recs[0].Severity)
}

func TestValidate_Gradle(t *testing.T) {
	t.Parallel()

	cfg := config(true)
	cfg.Engine = assignment.EngineGradle
	cfg.Language = assignment.LanguageKotlin

	m, err := descriptor.ParseGradle([]byte("plugins {\n    jacoco\n}\n"))
	require.NoError(t, err)
	recs := run(m, cfg)
	require.Len(t, recs, 1)
	assert.Equal(t, diagnostic.SeverityError, recs[0].Severity)
	assert.Equal(t, "jacoco plugin (used for coverage) has a configuration problem", recs[0].Message)
	assert.Contains(t, recs[0].Snippet, `include("org/dropProject/samples/samplejavaassignment/*")`)

	recs = run(&descriptor.Model{Kind: descriptor.KindGradle}, config(false))
	assert.Empty(t, recs)
}
