// Package structure validates that an assignment project follows the
// expected layout and testing conventions before it is used for grading.
//
// Validation is a chain of gates. Each gate appends an INFO record when it
// passes; a failing gate appends an ERROR and ends the run. Once the gates
// pass, the descriptor is checked for coverage settings and the test tree is
// inspected for naming, timeouts and hidden-test configuration.
package structure

import (
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/charmbracelet/log"
	"github.com/cockroachdb/errors"

	"github.com/dkoosis/dpcheck/internal/logging"
	"github.com/dkoosis/dpcheck/pkg/assignment"
	"github.com/dkoosis/dpcheck/pkg/diagnostic"
)

// TestRoot is the folder, relative to the project root, that holds test sources.
const TestRoot = "src/test"

// Validator checks project trees against one assignment's policy. It holds
// no per-run state and is safe for concurrent use.
type Validator struct {
	cfg    assignment.Config
	logger *log.Logger
}

// New returns a validator for cfg. A nil logger discards output.
func New(cfg assignment.Config, logger *log.Logger) *Validator {
	logger = logging.OrDiscard(logger)
	return &Validator{cfg: cfg, logger: logger.With("assignment", cfg.ID)}
}

// Validate inspects the project rooted at fsys. Policy violations are
// reported as records, never as errors.
func (v *Validator) Validate(fsys fs.FS) *diagnostic.Report {
	report := diagnostic.NewReport()
	run := &validation{cfg: v.cfg, fsys: fsys, report: report, logger: v.logger}

	model, ok := layoutFor(v.cfg.Engine).check(run)
	if !ok {
		v.logger.Debug("layout gate failed", "engine", v.cfg.Engine)
		return report
	}
	run.checkCoverage(model)
	run.checkTestClasses()
	run.checkHiddenTests()

	v.logger.Info("validation finished",
		"records", report.Len(),
		"errors", report.Count(diagnostic.SeverityError),
		"warnings", report.Count(diagnostic.SeverityWarning))
	return report
}

// validation carries the state of a single Validate call.
type validation struct {
	cfg    assignment.Config
	fsys   fs.FS
	report *diagnostic.Report
	logger *log.Logger
}

func (r *validation) exists(name string) bool {
	_, err := fs.Stat(r.fsys, name)
	return err == nil
}

// testFiles lists files under the test root whose name starts with prefix,
// sorted by path.
func (r *validation) testFiles(prefix string) []string {
	matches, err := doublestar.Glob(r.fsys, TestRoot+"/**", doublestar.WithFilesOnly())
	if err != nil {
		r.logger.Warn("walking test tree", "err", err)
		return nil
	}
	var out []string
	for _, m := range matches {
		if strings.HasPrefix(path.Base(m), prefix) {
			out = append(out, m)
		}
	}
	sort.Strings(out)
	return out
}

// sourceFiles lists Java and Kotlin sources anywhere under src.
func (r *validation) sourceFiles() []string {
	matches, err := doublestar.Glob(r.fsys, "src/**/*.{java,kt}", doublestar.WithFilesOnly())
	if err != nil {
		r.logger.Warn("walking source tree", "err", err)
		return nil
	}
	sort.Strings(matches)
	return matches
}

// anySourceContains reports whether some source file contains needle.
func (r *validation) anySourceContains(needle string) bool {
	for _, name := range r.sourceFiles() {
		data, err := fs.ReadFile(r.fsys, name)
		if err != nil {
			r.logger.Debug("skipping unreadable source", "file", name, "err", err)
			continue
		}
		if strings.Contains(string(data), needle) {
			return true
		}
	}
	return false
}

func unknown(kind string, v any) error {
	return errors.AssertionFailedf("unknown %s %q", kind, v)
}
