package structure

import (
	"fmt"
	"path"
	"strings"

	"github.com/dkoosis/dpcheck/pkg/assignment"
	"github.com/dkoosis/dpcheck/pkg/javasrc"
)

// Annotation spellings recognised on test methods.
var (
	testAnnotations    = []string{"Test", "org.junit.Test", "org.junit.jupiter.api.Test"}
	ignoreAnnotations  = []string{"Ignore", "org.junit.Ignore", "Disabled", "org.junit.jupiter.api.Disabled"}
	timeoutAnnotations = []string{"Timeout", "org.junit.jupiter.api.Timeout"}
)

// introspector inspects test sources for per-method timeouts. Only Java has
// an implementation; the Kotlin family uses noIntrospection.
type introspector interface {
	inspect(r *validation, files []string)
}

type javaIntrospection struct{}

type noIntrospection struct{}

func introspectorFor(lang assignment.Language) introspector {
	switch lang {
	case assignment.LanguageJava:
		return javaIntrospection{}
	case assignment.LanguageKotlin, assignment.LanguageAndroid:
		return noIntrospection{}
	default:
		panic(unknown("language", lang))
	}
}

func (noIntrospection) inspect(*validation, []string) {}

func (javaIntrospection) inspect(r *validation, files []string) {
	valid, invalid := 0, 0
	for _, name := range files {
		if !strings.HasSuffix(name, ".java") {
			continue
		}
		f, err := javasrc.ParseFile(r.fsys, name)
		if err != nil {
			r.logger.Debug("test source not parsed", "file", name, "err", err)
			r.report.Warn(fmt.Sprintf("Could not parse %s", name), err.Error())
			continue
		}
		if len(f.Classes) == 0 {
			continue
		}
		// Ids name the file's first top-level class, even for nested
		// classes, to match the case ids in test reports.
		owner := f.Classes[0].Name
		for _, c := range f.AllClasses() {
			for _, m := range c.Methods {
				if m.HasAnnotation(ignoreAnnotations...) {
					continue
				}
				test, ok := m.Annotation(testAnnotations...)
				if !ok {
					continue
				}
				if _, hasTimeout := test.Param("timeout"); hasTimeout || m.HasAnnotation(timeoutAnnotations...) {
					valid++
				} else {
					invalid++
				}
				r.report.AddTestMethod(owner + ":" + m.Name)
			}
		}
	}

	if valid+invalid == 0 {
		r.report.Warn("You haven't defined any test methods.",
			"Use the @Test(timeout=xxx) annotation to mark test methods.")
	}
	if invalid > 0 {
		r.report.Warn(fmt.Sprintf("You haven't defined a timeout for %d test methods.", invalid),
			"If you don't define a timeout, students submitting projects with infinite loops or wait conditions "+
				"will degrade the server. Example: Use @Test(timeout=500) to set a timeout of 500 miliseconds.")
	} else if valid > 0 {
		r.report.Infof("You have defined %d test methods with timeout.", valid)
	}
}

func (r *validation) checkTestClasses() {
	naming := r.cfg.Naming
	files := r.testFiles(naming.Test)

	if len(files) == 0 {
		r.report.Warn(fmt.Sprintf("You must have at least one test class on %s/** whose name starts with %s",
			TestRoot, naming.Test), "")
	} else {
		r.report.Infof("Found %d test classes", len(files))
		introspectorFor(r.cfg.Language).inspect(r, files)
	}

	if !r.cfg.AcceptsStudentTests {
		return
	}
	correctlyPrefixed := true
	for _, name := range files {
		if strings.HasPrefix(path.Base(name), naming.Teacher) {
			continue
		}
		r.report.Warn(fmt.Sprintf("%s is not valid for assignments which accept student tests.", name),
			fmt.Sprintf("All teacher tests must be prefixed with %s (e.g., %sCalculator instead of %sCalculator)",
				naming.Teacher, naming.Teacher, naming.Test))
		correctlyPrefixed = false
	}
	if correctlyPrefixed {
		r.report.Info("All test classes correctly prefixed")
	}
}

func (r *validation) checkHiddenTests() {
	if len(r.testFiles(r.cfg.Naming.Hidden)) == 0 {
		return
	}
	var consequence string
	switch r.cfg.HiddenTestsVisibility {
	case assignment.VisibilityUnset:
		r.report.Error("You have hidden tests but you didn't set their visibility to students.",
			"Edit this assignment and select an option in the field 'Hidden tests' to define if the results should be "+
				"completely hidden from the students or if some information is shown.")
		return
	case assignment.VisibilityHideEverything:
		consequence = "The results will be completely hidden from the students."
	case assignment.VisibilityShowOKNotOK:
		consequence = "Students will only see if they pass all the hidden tests or not."
	case assignment.VisibilityShowProgress:
		consequence = "Students will only see the number of tests passed."
	default:
		panic(unknown("hidden test visibility", r.cfg.HiddenTestsVisibility))
	}
	r.report.Info("You have hidden tests. " + consequence)
}
