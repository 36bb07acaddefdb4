package structure_test

import (
	"strings"
	"sync"
	"testing"
	"testing/fstest"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/dkoosis/dpcheck/pkg/assignment"
	"github.com/dkoosis/dpcheck/pkg/diagnostic"
	"github.com/dkoosis/dpcheck/pkg/structure"
)

const minimalPOM = `<project>
  <groupId>org.dropProject.samples</groupId>
  <artifactId>sampleJavaProject</artifactId>
  <build><plugins>
    <plugin>
      <artifactId>maven-surefire-plugin</artifactId>
      <version>2.19.1</version>
      <configuration>
        <argLine>${dp.argLine}</argLine>
        <trimStackTrace>false</trimStackTrace>
      </configuration>
    </plugin>
  </plugins></build>
</project>`

const timeoutTests = `package org.dropProject.samples;
import org.junit.Test;
public class TestTeacherProject {
    @Test(timeout = 500)
    public void testOne() {}
    @Test
    public void testTwo() {}
    @Test
    public void testThree() {}
}
`

func gradleProject() fstest.MapFS {
	return fstest.MapFS{
		"build.gradle.kts":  {Data: []byte("plugins {\n    kotlin(\"jvm\") version \"1.9.0\"\n}\n")},
		"gradlew":           {Data: []byte("#!/bin/sh\n")},
		"gradlew.bat":       {Data: []byte("@echo off\n")},
		"gradle.properties": {Data: []byte("kotlin.code.style=official\n")},
		"src/test/kotlin/TestTeacherProject.kt": {Data: []byte("class TestTeacherProject")},
	}
}

func kotlinGradle() assignment.Config {
	cfg := assignment.Default()
	cfg.Engine = assignment.EngineGradle
	cfg.Language = assignment.LanguageKotlin
	return cfg
}

func mavenProject(tests string) fstest.MapFS {
	return fstest.MapFS{
		"pom.xml": {Data: []byte(minimalPOM)},
		"src/main/java/org/dropProject/samples/Main.java":            {Data: []byte("package org.dropProject.samples;\npublic class Main {}\n")},
		"src/test/java/org/dropProject/samples/TestTeacherProject.java": {Data: []byte(tests)},
	}
}

func severities(recs []diagnostic.Record, sev diagnostic.Severity) []diagnostic.Record {
	var out []diagnostic.Record
	for _, r := range recs {
		if r.Severity == sev {
			out = append(out, r)
		}
	}
	return out
}

func messages(recs []diagnostic.Record) []string {
	out := make([]string, 0, len(recs))
	for _, r := range recs {
		out = append(out, r.Message)
	}
	return out
}

func TestValidate_GradleHappyPath(t *testing.T) {
	t.Parallel()

	report := structure.New(kotlinGradle(), nil).Validate(gradleProject())

	assert.Equal(t, []string{
		"Assignment has a build.gradle",
		"Assignment has a gradle wrapper",
		"Assignment has a properties file",
		"Found 1 test classes",
	}, messages(report.Records()))
	assert.Empty(t, report.TestMethods())
}

func TestValidate_GradleGateOrder(t *testing.T) {
	t.Parallel()

	cases := map[string]struct {
		remove []string
		want   string
		infos  int
	}{
		"missing build script": {[]string{"build.gradle.kts"}, "Assignment must have a build.gradle file.", 0},
		"missing wrapper":      {[]string{"gradlew.bat"}, "Assignment must have a gradlew file.", 1},
		"missing properties":   {[]string{"gradle.properties"}, "Assignment must have a gradle.properties file.", 2},
		"missing everything":   {[]string{"build.gradle.kts", "gradlew", "gradlew.bat", "gradle.properties"}, "Assignment must have a build.gradle file.", 0},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			fsys := gradleProject()
			for _, f := range tc.remove {
				delete(fsys, f)
			}
			recs := structure.New(kotlinGradle(), nil).Validate(fsys).Records()

			errs := severities(recs, diagnostic.SeverityError)
			require.Len(t, errs, 1)
			assert.Equal(t, tc.want, errs[0].Message)
			assert.Contains(t, errs[0].Detail, "test-kotlin-gradle-assignment")
			assert.Len(t, recs, tc.infos+1, "no checks may run after a failed gate")
			assert.Equal(t, tc.want, recs[len(recs)-1].Message)
		})
	}
}

func TestValidate_GroovyBuildScriptAccepted(t *testing.T) {
	t.Parallel()

	fsys := gradleProject()
	delete(fsys, "build.gradle.kts")
	fsys["build.gradle"] = &fstest.MapFile{Data: []byte("plugins { id 'java' }\n")}

	report := structure.New(kotlinGradle(), nil).Validate(fsys)
	assert.False(t, report.HasErrors())
}

func TestValidate_OneLinePluginsBlockSeesCoverage(t *testing.T) {
	t.Parallel()

	for _, script := range []string{"plugins { jacoco }\n", "plugins { id(\"jacoco\") }\n"} {
		fsys := gradleProject()
		fsys["build.gradle.kts"] = &fstest.MapFile{Data: []byte(script)}

		warns := severities(structure.New(kotlinGradle(), nil).Validate(fsys).Records(), diagnostic.SeverityWarning)
		require.Len(t, warns, 1, script)
		assert.Contains(t, warns[0].Message, "includes a plugin to calculate coverage", script)
	}
}

func TestValidate_TimeoutCount(t *testing.T) {
	t.Parallel()

	report := structure.New(assignment.Default(), nil).Validate(mavenProject(timeoutTests))
	recs := report.Records()

	warnings := severities(recs, diagnostic.SeverityWarning)
	require.Len(t, warnings, 1)
	assert.Equal(t, "You haven't defined a timeout for 2 test methods.", warnings[0].Message)
	for _, m := range messages(recs) {
		assert.NotContains(t, m, "test methods with timeout")
	}
	assert.Equal(t, []string{
		"TestTeacherProject:testOne",
		"TestTeacherProject:testTwo",
		"TestTeacherProject:testThree",
	}, report.TestMethods())
}

func TestValidate_AllTimeoutsDefined(t *testing.T) {
	t.Parallel()

	src := `public class TestTeacherProject {
    @Test(timeout=500) public void a() {}
    @org.junit.Test(timeout=500) public void b() {}
    @Ignore @Test public void ignored() {}
    @org.junit.jupiter.api.Test @Timeout(1) void c() {}
}`
	recs := structure.New(assignment.Default(), nil).Validate(mavenProject(src)).Records()

	assert.Empty(t, severities(recs, diagnostic.SeverityWarning))
	assert.Contains(t, messages(recs), "You have defined 3 test methods with timeout.")
}

func TestValidate_NestedAndTextBlockTests(t *testing.T) {
	t.Parallel()

	src := `public class TestTeacherProject {
    private static final String EXPECTED = """
        {"total": 3}
        """;

    @Test(timeout=500) public void outer() {}

    @Nested
    class WhenEmpty {
        @Test(timeout=500) public void inner() {}
    }
}`
	report := structure.New(assignment.Default(), nil).Validate(mavenProject(src))

	assert.Empty(t, severities(report.Records(), diagnostic.SeverityWarning))
	assert.Contains(t, messages(report.Records()), "You have defined 2 test methods with timeout.")
	assert.Equal(t, []string{
		"TestTeacherProject:outer",
		"TestTeacherProject:inner",
	}, report.TestMethods())
}

func TestValidate_NoTestMethods(t *testing.T) {
	t.Parallel()

	recs := structure.New(assignment.Default(), nil).Validate(mavenProject("public class TestTeacherProject {}")).Records()
	warnings := severities(recs, diagnostic.SeverityWarning)
	require.Len(t, warnings, 1)
	assert.Equal(t, "You haven't defined any test methods.", warnings[0].Message)
}

func TestValidate_UnparseableTestSourceWarns(t *testing.T) {
	t.Parallel()

	recs := structure.New(assignment.Default(), nil).Validate(mavenProject("public class TestTeacherProject { void x() {")).Records()
	warnings := severities(recs, diagnostic.SeverityWarning)
	require.Len(t, warnings, 2)
	assert.True(t, strings.HasPrefix(warnings[0].Message, "Could not parse src/test/java/"))
	assert.Equal(t, "You haven't defined any test methods.", warnings[1].Message)
}

func TestValidate_NoTestClasses(t *testing.T) {
	t.Parallel()

	fsys := gradleProject()
	delete(fsys, "src/test/kotlin/TestTeacherProject.kt")
	fsys["src/test/kotlin/HelperTest.kt"] = &fstest.MapFile{Data: []byte("class HelperTest")}

	recs := structure.New(kotlinGradle(), nil).Validate(fsys).Records()
	warnings := severities(recs, diagnostic.SeverityWarning)
	require.Len(t, warnings, 1)
	assert.Equal(t, "You must have at least one test class on src/test/** whose name starts with Test", warnings[0].Message)
}

func TestValidate_KotlinSkipsIntrospection(t *testing.T) {
	t.Parallel()

	fsys := gradleProject()
	fsys["src/test/kotlin/TestTeacherOther.kt"] = &fstest.MapFile{Data: []byte("this is { not kotlin")}

	recs := structure.New(kotlinGradle(), nil).Validate(fsys).Records()
	assert.Empty(t, severities(recs, diagnostic.SeverityWarning))
	assert.Contains(t, messages(recs), "Found 2 test classes")
}

func TestValidate_StudentTestsPrefix(t *testing.T) {
	t.Parallel()

	cfg := kotlinGradle()
	cfg.AcceptsStudentTests = true

	recs := structure.New(cfg, nil).Validate(gradleProject()).Records()
	assert.Contains(t, messages(recs), "All test classes correctly prefixed")

	fsys := gradleProject()
	fsys["src/test/kotlin/TestCalculator.kt"] = &fstest.MapFile{Data: []byte("class TestCalculator")}
	recs = structure.New(cfg, nil).Validate(fsys).Records()

	warnings := severities(recs, diagnostic.SeverityWarning)
	require.Len(t, warnings, 1)
	assert.Equal(t, "src/test/kotlin/TestCalculator.kt is not valid for assignments which accept student tests.", warnings[0].Message)
	assert.Equal(t, "All teacher tests must be prefixed with TestTeacher (e.g., TestTeacherCalculator instead of TestCalculator)", warnings[0].Detail)
	assert.NotContains(t, messages(recs), "All test classes correctly prefixed")
}

func TestValidate_HiddenTests(t *testing.T) {
	t.Parallel()

	fsys := gradleProject()
	fsys["src/test/kotlin/TestTeacherHiddenProject.kt"] = &fstest.MapFile{Data: []byte("class TestTeacherHiddenProject")}

	recs := structure.New(kotlinGradle(), nil).Validate(fsys).Records()
	errs := severities(recs, diagnostic.SeverityError)
	require.Len(t, errs, 1)
	assert.Equal(t, "You have hidden tests but you didn't set their visibility to students.", errs[0].Message)

	variants := map[assignment.Visibility]string{
		assignment.VisibilityShowProgress:   "You have hidden tests. Students will only see the number of tests passed.",
		assignment.VisibilityShowOKNotOK:    "You have hidden tests. Students will only see if they pass all the hidden tests or not.",
		assignment.VisibilityHideEverything: "You have hidden tests. The results will be completely hidden from the students.",
	}
	for vis, want := range variants {
		cfg := kotlinGradle()
		cfg.HiddenTestsVisibility = vis
		recs := structure.New(cfg, nil).Validate(fsys).Records()
		assert.Empty(t, severities(recs, diagnostic.SeverityError))
		assert.Equal(t, want, recs[len(recs)-1].Message)
	}
}

func TestValidate_MavenMissingPOM(t *testing.T) {
	t.Parallel()

	fsys := mavenProject(timeoutTests)
	delete(fsys, "pom.xml")

	recs := structure.New(assignment.Default(), nil).Validate(fsys).Records()
	require.Len(t, recs, 1)
	assert.Equal(t, diagnostic.SeverityError, recs[0].Severity)
	assert.Equal(t, "Assignment must have a pom.xml file.", recs[0].Message)
}

func TestValidate_MavenBrokenPOM(t *testing.T) {
	t.Parallel()

	fsys := mavenProject(timeoutTests)
	fsys["pom.xml"] = &fstest.MapFile{Data: []byte("<project><build>")}

	recs := structure.New(assignment.Default(), nil).Validate(fsys).Records()
	require.Len(t, recs, 2)
	assert.Equal(t, "Error reading pom.xml", recs[1].Message)
}

func TestValidate_MavenSurefireChecks(t *testing.T) {
	t.Parallel()

	cfg := assignment.Default()
	cfg.MaxMemoryMB = 512

	bare := `<project><build><plugins>
  <plugin><artifactId>maven-surefire-plugin</artifactId><version>2.19.1</version></plugin>
</plugins></build></project>`
	fsys := mavenProject(timeoutTests)
	fsys["pom.xml"] = &fstest.MapFile{Data: []byte(bare)}
	fsys["src/main/java/org/dropProject/samples/Main.java"] = &fstest.MapFile{
		Data: []byte(`class Main { String id = System.getProperty("dropProject.currentUserId"); }`),
	}

	recs := structure.New(cfg, nil).Validate(fsys).Records()
	msgs := messages(severities(recs, diagnostic.SeverityWarning))
	assert.Contains(t, msgs, "POM file is not prepared to use the 'dropProject.currentUserId' system property")
	assert.Contains(t, msgs, "POM file is not configured to prevent stacktrace trimming on junit errors")
	assert.Contains(t, msgs, "POM file is not prepared to set the max memory available")

	recs = structure.New(cfg, nil).Validate(mavenProject(timeoutTests)).Records()
	all := messages(recs)
	assert.Contains(t, all, "Doesn't use the 'dropProject.currentUserId' system property")
	assert.Contains(t, all, "POM file is prepared to prevent stacktrace trimming on junit errors")
	assert.Contains(t, all, "POM file is prepared to define the max memory for each submission")
}

func TestValidate_MavenCoverage(t *testing.T) {
	t.Parallel()

	cfg := assignment.Default()
	cfg.PackageName = "org.dropProject.samples"
	cfg.CalculateStudentTestsCoverage = true

	recs := structure.New(cfg, nil).Validate(mavenProject(timeoutTests)).Records()
	errs := severities(recs, diagnostic.SeverityError)
	require.Len(t, errs, 1)
	assert.Equal(t, "POM file is not prepared to calculate coverage", errs[0].Message)
	assert.Contains(t, errs[0].Snippet, "<include>org/dropProject/samples/*</include>")
}

func TestValidate_UnknownEngineIsAssertionFailure(t *testing.T) {
	t.Parallel()

	cfg := assignment.Default()
	cfg.Engine = "ant"

	defer func() {
		r := recover()
		require.NotNil(t, r)
		err, ok := r.(error)
		require.True(t, ok)
		assert.True(t, errors.IsAssertionFailure(err))
	}()
	structure.New(cfg, nil).Validate(gradleProject())
}

func TestValidate_ConcurrentRunsAreIndependent(t *testing.T) {
	defer goleak.VerifyNone(t)

	v := structure.New(assignment.Default(), nil)
	fsys := mavenProject(timeoutTests)

	var wg sync.WaitGroup
	results := make([]*diagnostic.Report, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = v.Validate(fsys)
		}(i)
	}
	wg.Wait()

	want := results[0].Records()
	for _, r := range results[1:] {
		assert.Equal(t, want, r.Records())
		assert.Len(t, r.TestMethods(), 3)
	}
}
