// dpcheck inspects programming-assignment builds the way an automated grader
// sees them.
//
// Usage:
//
//	mvn test | dpcheck report --assignment assignment.yaml --project .
//	dpcheck report --output build.log --project ./submission
//	dpcheck validate --assignment assignment.yaml --project ./assignment
//	dpcheck version
//
// report extracts compilation errors, style warnings and test results from
// captured Maven output. validate checks that an assignment project is laid
// out and configured for grading.
//
// Output modes (auto-detected):
//
//	terminal  styled Unicode output (default when TTY)
//	llm       terse plain text for AI consumption (default when piped)
//	json      structured JSON for automation
//	sarif     SARIF 2.1.0 for code-scanning tools
//
// Exit codes: 0 clean, 1 findings, 2 usage or input errors.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/cockroachdb/errors"
	"golang.org/x/term"

	"github.com/dkoosis/dpcheck/internal/config"
	"github.com/dkoosis/dpcheck/internal/detect"
	"github.com/dkoosis/dpcheck/internal/logging"
	"github.com/dkoosis/dpcheck/internal/version"
	"github.com/dkoosis/dpcheck/pkg/assignment"
	"github.com/dkoosis/dpcheck/pkg/buildreport"
	"github.com/dkoosis/dpcheck/pkg/detekt"
	"github.com/dkoosis/dpcheck/pkg/mapper"
	"github.com/dkoosis/dpcheck/pkg/pattern"
	"github.com/dkoosis/dpcheck/pkg/render"
	"github.com/dkoosis/dpcheck/pkg/sarif"
	"github.com/dkoosis/dpcheck/pkg/structure"
	"github.com/dkoosis/dpcheck/pkg/viewer"
)

const usageText = `Usage: dpcheck <command> [flags]

Commands:
  report    summarize captured Maven output of an assignment or submission
  validate  check an assignment project before it is used for grading
  version   print build information

Run 'dpcheck <command> -h' for the flags of a command.
`

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		fmt.Fprint(stderr, usageText)
		return 2
	}
	switch args[0] {
	case "report":
		return runReport(args[1:], stdin, stdout, stderr)
	case "validate":
		return runValidate(args[1:], stdout, stderr)
	case "version":
		fmt.Fprintln(stdout, version.String())
		return 0
	case "help", "-h", "--help":
		fmt.Fprint(stdout, usageText)
		return 0
	default:
		fmt.Fprintf(stderr, "dpcheck: unknown command %q\n", args[0])
		fmt.Fprint(stderr, usageText)
		return 2
	}
}

// options holds the flags shared by report and validate plus the
// report-only ones.
type options struct {
	assignment  string
	project     string
	output      string
	submission  string
	buildFolder string
	interactive bool
	cli         config.CliFlags
}

// parseFlags returns (options, -1) on success; (nil, exitCode) otherwise.
func parseFlags(command string, args []string, stderr io.Writer) (*options, int) {
	o := &options{}
	fs := flag.NewFlagSet("dpcheck "+command, flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&o.assignment, "assignment", "", "Assignment YAML file (default: Maven/Java with standard naming)")
	fs.StringVar(&o.project, "project", ".", "Project directory")
	if command == "report" {
		fs.StringVar(&o.output, "output", "", "File with the captured build output (default: stdin)")
		fs.StringVar(&o.submission, "submission", "", "Submission ID the output belongs to")
		fs.StringVar(&o.buildFolder, "build-folder", "", "Project folder as printed in the output (default: absolute --project)")
	}
	fs.StringVar(&o.cli.Format, "format", "", "Output format: auto, terminal, llm, json, sarif")
	fs.StringVar(&o.cli.Theme, "theme", "", "Theme: default, pastel, mono")
	fs.StringVar(&o.cli.Lang, "lang", "", "Language of translated Detekt messages: pt, en")
	fs.StringVar(&o.cli.LogLevel, "log-level", "", "Log level: debug, info, warn, error")
	fs.BoolVar(&o.cli.NoColor, "no-color", false, "Disable colors")
	fs.BoolVar(&o.interactive, "interactive", false, "Browse the result in a full-screen viewer")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, 0
		}
		return nil, 2
	}
	if fs.NArg() > 0 {
		fmt.Fprintf(stderr, "dpcheck %s: unexpected arguments: %s\n", command, strings.Join(fs.Args(), " "))
		return nil, 2
	}
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "no-color" {
			o.cli.NoColorSet = true
		}
	})
	return o, -1
}

// env is what every command needs after flags and config are resolved.
type env struct {
	cfg        *config.ResolvedConfig
	logger     *log.Logger
	assignment assignment.Config
}

func setup(o *options, stderr io.Writer) (*env, error) {
	cfg, err := config.ResolveConfig(".", o.cli)
	if err != nil {
		return nil, err
	}
	logger, err := logging.New(stderr, cfg.LogLevel, "dpcheck")
	if err != nil {
		return nil, err
	}
	if cfg.ConfigPath != "" {
		logger.Debug("config loaded", "path", cfg.ConfigPath)
	}

	a := assignment.Default()
	if o.assignment != "" {
		if a, err = assignment.Load(o.assignment); err != nil {
			return nil, err
		}
	}
	return &env{cfg: cfg, logger: logger, assignment: a}, nil
}

func runReport(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	o, code := parseFlags("report", args, stderr)
	if code >= 0 {
		return code
	}
	e, err := setup(o, stderr)
	if err != nil {
		return fail(stderr, err)
	}

	lines, err := readLines(o.output, stdin)
	if err != nil {
		return fail(stderr, err)
	}
	if len(lines) == 0 {
		fmt.Fprintln(stderr, "dpcheck: no build output")
		return 2
	}
	if f := detect.SniffLines(lines); f != detect.Maven {
		e.logger.Warn("output does not look like Maven console output", "detected", f.String())
	}

	folder := o.buildFolder
	if folder == "" {
		if folder, err = filepath.Abs(o.project); err != nil {
			return fail(stderr, errors.Wrap(err, "resolve project folder"))
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	translator := detekt.NewTranslator(detekt.Match(e.cfg.Lang))
	builder := buildreport.NewBuilder(nil, translator, e.logger)
	r, err := builder.Build(ctx, buildreport.Input{
		Lines:         lines,
		ProjectFolder: folder,
		Project:       os.DirFS(o.project),
		Assignment:    e.assignment,
		SubmissionID:  o.submission,
	})
	if err != nil {
		return fail(stderr, err)
	}

	code = 0
	if mapper.BuildFailed(r) {
		code = 1
	}
	return emit(ctx, e, o, stdout, stderr, code,
		func() []pattern.Pattern { return mapper.FromBuildReport(r) },
		func() *sarif.Builder { return mapper.BuildSARIF(r, version.Version) })
}

func runValidate(args []string, stdout, stderr io.Writer) int {
	o, code := parseFlags("validate", args, stderr)
	if code >= 0 {
		return code
	}
	e, err := setup(o, stderr)
	if err != nil {
		return fail(stderr, err)
	}
	info, err := os.Stat(o.project)
	if err != nil || !info.IsDir() {
		fmt.Fprintf(stderr, "dpcheck: project %s is not a directory\n", o.project)
		return 2
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	rep := structure.New(e.assignment, e.logger).Validate(os.DirFS(o.project))
	code = 0
	if rep.HasErrors() {
		code = 1
	}
	return emit(ctx, e, o, stdout, stderr, code,
		func() []pattern.Pattern { return mapper.FromValidation(e.assignment.ID, rep) },
		func() *sarif.Builder { return mapper.ValidationSARIF(rep, version.Version) })
}

// emit writes the result in the resolved format and returns code, or 2 when
// writing fails.
func emit(ctx context.Context, e *env, o *options, stdout, stderr io.Writer, code int,
	patterns func() []pattern.Pattern, doc func() *sarif.Builder) int {
	mode := resolveFormat(e.cfg.Format, stdout)
	if mode == "sarif" {
		b := doc()
		stats := sarif.ComputeStats(b.Document())
		e.logger.Debug("sarif document",
			"results", stats.TotalIssues,
			"errors", stats.ByLevel[sarif.LevelError],
			"files", len(stats.ByFile))
		if _, err := b.WriteTo(stdout); err != nil {
			return fail(stderr, err)
		}
		return code
	}

	if o.interactive {
		if isTTYWriter(stdout) {
			if err := viewer.Run(ctx, patterns(), theme(e.cfg)); err != nil {
				return fail(stderr, err)
			}
			return code
		}
		e.logger.Warn("--interactive needs a terminal; printing instead")
	}

	fmt.Fprint(stdout, selectRenderer(mode, e.cfg, stdout).Render(patterns()))
	return code
}

// maxLineBytes caps a single output line. Longer lines are truncated.
const maxLineBytes = 1024 * 1024

// readLines reads the build output from path, or from stdin when path is
// empty or "-". Trailing carriage returns are dropped and lines longer than
// maxLineBytes are truncated.
func readLines(path string, stdin io.Reader) ([]string, error) {
	in := stdin
	if path != "" && path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, errors.Wrap(err, "open build output")
		}
		defer f.Close()
		in = f
	}

	var (
		lines []string
		line  []byte
	)
	br := bufio.NewReaderSize(in, 64*1024)
	for {
		chunk, isPrefix, err := br.ReadLine()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "read build output")
		}
		if room := maxLineBytes - len(line); room > 0 {
			line = append(line, chunk[:min(len(chunk), room)]...)
		}
		if isPrefix {
			continue
		}
		lines = append(lines, strings.TrimRight(string(line), "\r"))
		line = line[:0]
	}
	return lines, nil
}

// isTTYWriter reports whether w is a terminal.
func isTTYWriter(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// termWidth returns the terminal width for w, defaulting to 80.
func termWidth(w io.Writer) int {
	if f, ok := w.(*os.File); ok {
		if tw, _, err := term.GetSize(int(f.Fd())); err == nil && tw > 0 {
			return tw
		}
	}
	return 80
}

func theme(cfg *config.ResolvedConfig) render.Theme {
	if cfg.NoColor {
		return render.MonoTheme()
	}
	return render.ThemeByName(cfg.Theme)
}

func selectRenderer(mode string, cfg *config.ResolvedConfig, w io.Writer) render.Renderer {
	switch mode {
	case "json":
		return render.NewJSON(version.Version)
	case "llm":
		return render.NewLLM()
	default:
		return render.NewTerminal(theme(cfg), termWidth(w))
	}
}

func resolveFormat(format string, w io.Writer) string {
	if format != "auto" {
		return format
	}
	// Auto-detect: TTY = terminal, piped = llm
	if isTTYWriter(w) {
		return "terminal"
	}
	return "llm"
}

// fail prints err with its hints and returns the input-error exit code.
func fail(stderr io.Writer, err error) int {
	fmt.Fprintf(stderr, "dpcheck: %v\n", err)
	for _, hint := range errors.GetAllHints(err) {
		fmt.Fprintf(stderr, "  hint: %s\n", hint)
	}
	return 2
}
