package diagnostic

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestReport_PreservesInsertionOrder(t *testing.T) {
	r := NewReport()
	r.Info("Assignment has a build.gradle").
		Warn("You haven't defined any test methods.", "Use the @Test(timeout=xxx) annotation to mark test methods.").
		Error("Assignment must have a gradlew file.", "")
	r.Infof("Found %d test classes", 3)

	want := []Record{
		{Severity: SeverityInfo, Message: "Assignment has a build.gradle"},
		{Severity: SeverityWarning, Message: "You haven't defined any test methods.", Detail: "Use the @Test(timeout=xxx) annotation to mark test methods."},
		{Severity: SeverityError, Message: "Assignment must have a gradlew file."},
		{Severity: SeverityInfo, Message: "Found 3 test classes"},
	}
	if diff := cmp.Diff(want, r.Records()); diff != "" {
		t.Errorf("records mismatch (-want +got):\n%s", diff)
	}
	if !r.HasErrors() {
		t.Error("expected HasErrors to be true")
	}
	if got := r.Count(SeverityInfo); got != 2 {
		t.Errorf("expected 2 INFO records, got %d", got)
	}
}

func TestReport_RecordsAreCopies(t *testing.T) {
	r := NewReport()
	r.Info("one")
	recs := r.Records()
	recs[0].Message = "mutated"

	if r.Records()[0].Message != "one" {
		t.Error("Records must not expose internal storage")
	}
}

func TestReport_TestMethods(t *testing.T) {
	r := NewReport()
	r.AddTestMethod("TestTeacherProject:testFuncaoParaTestar")
	r.AddTestMethod("TestTeacherProject:testFuncaoLentaParaTestar")

	got := r.TestMethods()
	if len(got) != 2 || got[0] != "TestTeacherProject:testFuncaoParaTestar" {
		t.Errorf("unexpected test methods: %v", got)
	}
	if r.HasErrors() {
		t.Error("an empty record list has no errors")
	}
	if r.Len() != 0 {
		t.Errorf("expected no records, got %d", r.Len())
	}
}
