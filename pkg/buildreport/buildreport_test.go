package buildreport_test

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkoosis/dpcheck/pkg/assignment"
	"github.com/dkoosis/dpcheck/pkg/buildreport"
	"github.com/dkoosis/dpcheck/pkg/junit"
)

const folder = "/tmp/dp/mavenized/projects/sample"

func cfgFor(lang assignment.Language) assignment.Config {
	cfg := assignment.Default()
	cfg.ID = "sample"
	cfg.Language = lang
	return cfg
}

func report(lang assignment.Language, lines ...string) *buildreport.BuildReport {
	return buildreport.New(lines, folder, cfgFor(lang), buildreport.Results{})
}

var javaCompileFailure = []string{
	"[INFO] --- maven-compiler-plugin:3.1:compile (default-compile) @ sampleJavaProject ---",
	"[INFO] Compiling 2 source files to " + folder + "/target/classes",
	"[INFO] -------------------------------------------------------------",
	"[ERROR] COMPILATION ERROR : ",
	"[INFO] -------------------------------------------------------------",
	"[ERROR] " + folder + "/src/main/java/org/dropProject/samples/Main.java:[3,8] class Main2 is public, should be declared in a file named Main2.java",
	"[ERROR] " + folder + "/src/test/java/org/dropProject/samples/TestTeacherProject.java:[11,9] cannot find symbol",
	"  symbol:   class Main",
	"  location: class org.dropProject.samples.TestTeacherProject",
	"[INFO] 2 errors ",
	"[INFO] -------------------------------------------------------------",
	"[INFO] BUILD FAILURE",
	"[ERROR] Failed to execute goal org.apache.maven.plugins:maven-compiler-plugin:3.1:compile (default-compile) on project sampleJavaProject: Compilation failure: Compilation failure:",
	"[ERROR] " + folder + "/src/main/java/org/dropProject/samples/Main.java:[3,8] class Main2 is public",
	"[ERROR] -> [Help 1]",
}

func TestCompilationErrors_Java(t *testing.T) {
	t.Parallel()

	r := report(assignment.LanguageJava, javaCompileFailure...)
	want := []string{
		"org/dropProject/samples/Main.java:[3,8] class Main2 is public, should be declared in a file named Main2.java",
		"[TEST] org/dropProject/samples/TestTeacherProject.java:[11,9] cannot find symbol",
		"  symbol:   class Main",
		"  location: class org.dropProject.samples.TestTeacherProject",
	}
	if diff := cmp.Diff(want, r.CompilationErrors()); diff != "" {
		t.Errorf("CompilationErrors() mismatch (-want +got):\n%s", diff)
	}
	assert.False(t, r.ExecutionFailed())
}

func TestCompilationErrors_KotlinMainAndTest(t *testing.T) {
	t.Parallel()

	r := report(assignment.LanguageKotlin,
		"[INFO] --- kotlin-maven-plugin:1.3.50:compile (compile) @ sampleKotlinAssignment ---",
		"[ERROR] "+folder+"/src/main/kotlin/org/dropProject/Main.kt: (3, 5) Unresolved reference: xpto",
		"[INFO] --- maven-resources-plugin:2.6:testResources (default-testResources) @ sampleKotlinAssignment ---",
		"[INFO] --- kotlin-maven-plugin:1.3.50:test-compile (test-compile) @ sampleKotlinAssignment ---",
		"[ERROR] "+folder+"/src/test/kotlin/TestTeacherProject.kt: (5, 9) Unresolved reference: foo",
		"[INFO] BUILD FAILURE",
		"[ERROR] Failed to execute goal org.jetbrains.kotlin:kotlin-maven-plugin:1.3.50:test-compile (test-compile) on project sampleKotlinAssignment: Compilation failure",
		"[ERROR] "+folder+"/src/test/kotlin/TestTeacherProject.kt: (5, 9) Unresolved reference: foo",
		"[ERROR] -> [Help 1]",
	)
	want := []string{
		"org/dropProject/Main.kt: (3, 5) Unresolved reference: xpto",
		"[TEST] TestTeacherProject.kt: (5, 9) Unresolved reference: foo",
	}
	if diff := cmp.Diff(want, r.CompilationErrors()); diff != "" {
		t.Errorf("CompilationErrors() mismatch (-want +got):\n%s", diff)
	}
	assert.False(t, r.ExecutionFailed())
}

func TestCompilationErrors_NoStartMarker(t *testing.T) {
	t.Parallel()

	r := report(assignment.LanguageJava,
		"[INFO] Scanning for projects...",
		"[ERROR] "+folder+"/src/main/java/Main.java:[1,1] looks like an error",
		"[INFO] BUILD SUCCESS",
	)
	assert.Empty(t, r.CompilationErrors())
	assert.Empty(t, r.CheckstyleErrors())
	assert.Empty(t, r.PMDErrors())
	assert.False(t, r.CheckstyleValidationActive())
}

func TestCompilationErrors_UnterminatedRunsToEnd(t *testing.T) {
	t.Parallel()

	r := report(assignment.LanguageJava,
		"[ERROR] COMPILATION ERROR : ",
		"[ERROR] "+folder+"/src/main/java/Main.java:[1,1] ';' expected",
	)
	assert.Equal(t, []string{"Main.java:[1,1] ';' expected"}, r.CompilationErrors())
}

func TestCompilationErrors_Idempotent(t *testing.T) {
	t.Parallel()

	lines := append([]string(nil), javaCompileFailure...)
	r := buildreport.New(lines, folder, cfgFor(assignment.LanguageJava), buildreport.Results{})
	first := r.CompilationErrors()

	lines[5] = "[ERROR] overwritten by the caller"
	second := r.CompilationErrors()

	assert.Equal(t, first, second)
	assert.Equal(t, javaCompileFailure, r.Lines())
}

func TestCompilationErrors_ForkedVM(t *testing.T) {
	t.Parallel()

	crash := "[ERROR] ExecutionException The forked VM terminated without properly saying goodbye. VM crash or System.exit called?"
	cases := []struct {
		lang assignment.Language
		want string
	}{
		{assignment.LanguageJava, "Invalid call to System.exit(). Please remove this instruction"},
		{assignment.LanguageKotlin, "Invalid call to System.exit() or exitProcess(). Please remove this instruction"},
		{assignment.LanguageAndroid, "Invalid call to System.exit() or exitProcess(). Please remove this instruction"},
	}
	for _, tc := range cases {
		t.Run(string(tc.lang), func(t *testing.T) {
			t.Parallel()
			r := report(tc.lang, "[INFO] Running TestTeacherProject", crash)
			assert.Equal(t, []string{tc.want}, r.CompilationErrors())
		})
	}
}

func TestExecutionFailed(t *testing.T) {
	t.Parallel()

	surefire := "[ERROR] Failed to execute goal org.apache.maven.plugins:maven-surefire-plugin:2.19.1:test (default-test) on project x: There are test failures."
	checkstyle := "[ERROR] Failed to execute goal org.apache.maven.plugins:maven-checkstyle-plugin:2.17:check (validate) on project x: Failed during checkstyle execution"
	kotlin := "[ERROR] Failed to execute goal org.jetbrains.kotlin:kotlin-maven-plugin:1.3.50:compile (compile) on project x: Compilation failure"

	cases := []struct {
		name  string
		lines []string
		want  bool
	}{
		{"no failed goal", []string{"[INFO] BUILD SUCCESS"}, false},
		{"surefire only", []string{surefire}, false},
		{"kotlin compiler only", []string{kotlin}, false},
		{"other plugin", []string{checkstyle}, true},
		{"benign and other plugin", []string{surefire, checkstyle}, false},
		{"other plugin before benign", []string{checkstyle, kotlin}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, report(assignment.LanguageJava, tc.lines...).ExecutionFailed())
		})
	}
}

func TestCheckstyleErrors_Java(t *testing.T) {
	t.Parallel()

	r := report(assignment.LanguageJava,
		"[INFO] --- maven-checkstyle-plugin:2.17:check (validate) @ sampleJavaProject ---",
		"[INFO] Starting audit...",
		"[WARN] "+folder+"/src/main/java/org/dropProject/Main.java:5:5: Missing a Javadoc comment. [JavadocMethod]",
		"[INFO] unrelated",
		"[WARN] "+folder+"/src/main/java/org/dropProject/Main.java:9: Line is longer than 120 characters. [LineLength]",
		"Audit done.",
		"[WARN] "+folder+"/src/main/java/org/dropProject/Other.java:1: after the audit",
	)
	assert.True(t, r.CheckstyleValidationActive())
	assert.Equal(t, []string{
		"org/dropProject/Main.java:5:5: Missing a Javadoc comment. [JavadocMethod]",
		"org/dropProject/Main.java:9: Line is longer than 120 characters. [LineLength]",
	}, r.CheckstyleErrors())
}

var detektOutput = []string{
	"[INFO] --- detekt-maven-plugin:1.0.0-RC12:check (default) @ sampleKotlinAssignment ---",
	"[INFO] Args: [--input, " + folder + "/src/main/kotlin]",
	"[INFO] Running detekt",
	"style - 10min debt",
	"\tVariableNaming - [Xpto] at " + folder + "/src/main/kotlin/org/dropProject/Main.kt:3:9",
	"\tMaxLineLength - [main] at " + folder + "/src/main/kotlin/org/dropProject/Main.kt:10:1",
	"\tVariableNaming - [Xpto] at " + folder + "/src/main/kotlin/org/dropProject/Main.kt:3:9",
	"\t- 15min debt",
	"\tSomeNewRule - [f] at " + folder + "/src/main/kotlin/org/dropProject/Main.kt:12:1",
	"detekt finished in 1234 ms",
	"\tLongMethod - [g] at " + folder + "/src/main/kotlin/org/dropProject/Main.kt:20:1",
}

func TestCheckstyleErrors_KotlinTranslatesAndDeduplicates(t *testing.T) {
	t.Parallel()

	for _, lang := range []assignment.Language{assignment.LanguageKotlin, assignment.LanguageAndroid} {
		r := report(lang, detektOutput...)
		assert.True(t, r.CheckstyleValidationActive())
		want := []string{
			"Nome da variável deve começar por letra minúscula. Caso o nome tenha mais do que uma palavra, " +
				"as palavras seguintes devem ser capitalizadas (iniciadas por uma maiúscula) - [Xpto] at org/dropProject/Main.kt:3:9",
			"Linha demasiado comprida - [main] at org/dropProject/Main.kt:10:1",
			"SomeNewRule - [f] at org/dropProject/Main.kt:12:1",
		}
		if diff := cmp.Diff(want, r.CheckstyleErrors()); diff != "" {
			t.Errorf("%s: CheckstyleErrors() mismatch (-want +got):\n%s", lang, diff)
		}
	}
}

func TestCheckstyleErrors_KotlinBannerIsNotEnd(t *testing.T) {
	t.Parallel()

	r := report(assignment.LanguageKotlin,
		"[INFO] --- detekt-maven-plugin:1.1.1:check (default) @ x ---",
		"[INFO] banner one",
		"[INFO] banner two",
		"\tComplexCondition - [main] at "+folder+"/src/main/kotlin/Main.kt:4:9",
		"[INFO] ------------------------------------------------------------------------",
		"\tLongMethod - [main] at "+folder+"/src/main/kotlin/Main.kt:1:1",
	)
	assert.Equal(t, []string{"Condição demasiado complexa - [main] at Main.kt:4:9"}, r.CheckstyleErrors())
}

func TestCheckstyleValidationActive_LanguageSpecific(t *testing.T) {
	t.Parallel()

	assert.False(t, report(assignment.LanguageJava, detektOutput...).CheckstyleValidationActive())
	assert.False(t, report(assignment.LanguageKotlin, "[INFO] Starting audit...").CheckstyleValidationActive())
}

func TestPMDErrors(t *testing.T) {
	t.Parallel()

	r := report(assignment.LanguageJava,
		"[INFO] --- maven-pmd-plugin:3.8:check (default) @ x ---",
		"[INFO] PMD Failure: org.dropProject.Main:12 Rule:UnusedLocalVariable Priority:3 Avoid unused local variables such as 'x'.",
		"[INFO] PMD Failure: org.dropProject.Main:20 Rule:EmptyCatchBlock Priority:3 Avoid empty catch blocks.",
		"[INFO] You have 2 PMD violations.",
	)
	assert.Equal(t, []string{
		"org.dropProject.Main:12 Rule:UnusedLocalVariable Priority:3 Avoid unused local variables such as 'x'.",
		"org.dropProject.Main:20 Rule:EmptyCatchBlock Priority:3 Avoid empty catch blocks.",
	}, r.PMDErrors())
}

func TestMissingTestMethods(t *testing.T) {
	t.Parallel()

	res := buildreport.Results{
		JUnit: []junit.Result{{
			Name:     "org.dropProject.TestTeacherProject",
			Tests:    2,
			Failures: 1,
			Cases: []junit.Case{
				{Name: "testOne", ClassName: "org.dropProject.TestTeacherProject", Status: junit.StatusPass},
				{Name: "testTwo", ClassName: "org.dropProject.TestTeacherProject", Status: junit.StatusFail},
			},
		}},
		TestMethods: []string{"TestTeacherProject:testOne", "TestTeacherProject:testThree", "TestTeacherProject:testTwo"},
	}
	r := buildreport.New(nil, folder, cfgFor(assignment.LanguageJava), res)
	assert.Equal(t, []string{"TestTeacherProject:testThree"}, r.MissingTestMethods())

	totals := r.TestTotals()
	assert.Equal(t, 2, totals.Tests)
	assert.Equal(t, 1, totals.Passed)
	assert.False(t, totals.OK())

	empty := buildreport.New(nil, folder, cfgFor(assignment.LanguageJava), buildreport.Results{TestMethods: res.TestMethods})
	assert.Empty(t, empty.MissingTestMethods())
}

func TestNew_UnknownLanguagePanics(t *testing.T) {
	t.Parallel()

	defer func() {
		r := recover()
		require.NotNil(t, r)
		err, ok := r.(error)
		require.True(t, ok)
		assert.True(t, errors.IsAssertionFailure(err))
	}()
	cfg := assignment.Default()
	cfg.Language = "cobol"
	buildreport.New(nil, folder, cfg, buildreport.Results{})
}
