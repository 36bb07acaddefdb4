package buildreport

import (
	"context"
	"io/fs"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/charmbracelet/log"
	"github.com/cockroachdb/errors"

	"github.com/dkoosis/dpcheck/internal/logging"
	"github.com/dkoosis/dpcheck/pkg/assignment"
	"github.com/dkoosis/dpcheck/pkg/detekt"
	"github.com/dkoosis/dpcheck/pkg/jacoco"
	"github.com/dkoosis/dpcheck/pkg/junit"
)

// ResultSource supplies results parsed earlier, typically from the store that
// received them when the submission was graded.
type ResultSource interface {
	TestResults(ctx context.Context, submissionID string) ([]junit.Result, error)
	CoverageResults(ctx context.Context, submissionID string) ([]jacoco.Result, error)
	AssignmentTestMethods(ctx context.Context, assignmentID string) ([]string, error)
}

// Report locations relative to the project root.
const (
	mavenTestReports  = "target/surefire-reports/*.xml"
	gradleTestReports = "build/test-results/**/*.xml"
	mavenCoverageCSV  = "target/site/jacoco/jacoco.csv"
	gradleCoverageCSV = "build/reports/jacoco/test/jacocoTestReport.csv"
)

// Input is everything one Build call needs.
type Input struct {
	Lines         []string
	ProjectFolder string // absolute path as printed by the build
	Project       fs.FS  // project tree for report fallbacks; may be nil
	Assignment    assignment.Config
	SubmissionID  string // empty when building an assignment
}

// Builder assembles BuildReports. It is safe for concurrent use.
type Builder struct {
	source     ResultSource
	translator *detekt.Translator
	logger     *log.Logger
}

// NewBuilder returns a builder. source, translator and logger may be nil.
func NewBuilder(source ResultSource, translator *detekt.Translator, logger *log.Logger) *Builder {
	if translator == nil {
		translator = detekt.Default()
	}
	logger = logging.OrDiscard(logger)
	return &Builder{source: source, translator: translator, logger: logger}
}

// Build gathers test and coverage results and wraps them with the output.
//
// Results supplied by the ResultSource for the submission win. Otherwise the
// reports left in the project tree are read. Missing reports yield empty
// results; unreadable or malformed ones are errors.
func (b *Builder) Build(ctx context.Context, in Input) (*BuildReport, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	cfg := in.Assignment
	logger := b.logger.With("assignment", cfg.ID)
	if in.SubmissionID != "" {
		logger = logger.With("submission", in.SubmissionID)
	}

	var (
		res Results
		err error
	)
	if res.JUnit, err = b.testResults(ctx, in, logger); err != nil {
		return nil, err
	}
	if res.Jacoco, err = b.coverageResults(ctx, in, logger); err != nil {
		return nil, err
	}
	if in.SubmissionID != "" && b.source != nil {
		res.TestMethods, err = b.source.AssignmentTestMethods(ctx, cfg.ID)
		if err != nil {
			return nil, errors.Wrapf(err, "loading test methods of assignment %s", cfg.ID)
		}
	}

	logger.Info("build report assembled",
		"lines", len(in.Lines),
		"suites", len(res.JUnit),
		"coverage_rows", len(res.Jacoco),
		"test_methods", len(res.TestMethods))
	return newReport(in.Lines, in.ProjectFolder, cfg, res, b.translator, logger), nil
}

func (b *Builder) testResults(ctx context.Context, in Input, logger *log.Logger) ([]junit.Result, error) {
	if in.SubmissionID != "" && b.source != nil {
		results, err := b.source.TestResults(ctx, in.SubmissionID)
		if err != nil {
			return nil, errors.Wrapf(err, "loading test results of submission %s", in.SubmissionID)
		}
		if len(results) > 0 {
			logger.Info("test results from result source", "suites", len(results))
			return results, nil
		}
	}
	if in.Project == nil {
		return nil, nil
	}

	pattern := mavenTestReports
	if in.Assignment.UsesGradle() {
		pattern = gradleTestReports
	}
	files, err := doublestar.Glob(in.Project, pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, errors.Wrapf(err, "listing %s", pattern)
	}
	if len(files) == 0 {
		logger.Debug("no test reports; the assignment probably produces none", "pattern", pattern)
		return nil, nil
	}
	sort.Strings(files)

	var results []junit.Result
	for _, name := range files {
		data, err := fs.ReadFile(in.Project, name)
		if err != nil {
			return nil, errors.Wrapf(err, "reading %s", name)
		}
		parsed, err := junit.ParseBytes(data)
		if err != nil {
			return nil, errors.Wrapf(err, "parsing %s", name)
		}
		results = append(results, parsed...)
	}
	logger.Info("test results from project tree", "files", len(files), "suites", len(results))
	return results, nil
}

func (b *Builder) coverageResults(ctx context.Context, in Input, logger *log.Logger) ([]jacoco.Result, error) {
	if in.SubmissionID != "" && b.source != nil {
		results, err := b.source.CoverageResults(ctx, in.SubmissionID)
		if err != nil {
			return nil, errors.Wrapf(err, "loading coverage of submission %s", in.SubmissionID)
		}
		if len(results) > 0 {
			logger.Info("coverage from result source", "rows", len(results))
			return results, nil
		}
	}
	if in.Project == nil || !in.Assignment.CalculateStudentTestsCoverage {
		return nil, nil
	}

	name := mavenCoverageCSV
	if in.Assignment.UsesGradle() {
		name = gradleCoverageCSV
	}
	data, err := fs.ReadFile(in.Project, name)
	if errors.Is(err, fs.ErrNotExist) {
		logger.Debug("no coverage report", "file", name)
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", name)
	}
	results, err := jacoco.ParseBytes(data)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing %s", name)
	}
	logger.Info("coverage from project tree", "file", name, "rows", len(results))
	return results, nil
}
