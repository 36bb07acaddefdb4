// Package junit parses JUnit XML reports as written by Maven Surefire and
// Gradle test tasks.
package junit

import (
	"bytes"
	"encoding/xml"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
)

// Status is the outcome of a single test case.
type Status string

const (
	StatusPass  Status = "pass"
	StatusFail  Status = "fail"
	StatusError Status = "error"
	StatusSkip  Status = "skip"
)

// Case is one <testcase>.
type Case struct {
	Name      string
	ClassName string
	Duration  time.Duration
	Status    Status
	Message   string // failure/error message attribute
	Type      string // failure/error type attribute, e.g. java.lang.AssertionError
	Details   string // stack trace or skip reason
}

// ID returns "SimpleClass:method", the identifier used for assignment test methods.
func (c Case) ID() string {
	return SimpleName(c.ClassName) + ":" + c.Name
}

// Result is one <testsuite>.
type Result struct {
	Name     string
	Tests    int
	Failures int
	Errors   int
	Skipped  int
	Duration time.Duration
	Cases    []Case
}

// SimpleName is the suite's class name without its package.
func (r Result) SimpleName() string {
	return SimpleName(r.Name)
}

// Passed returns the number of cases that neither failed, errored nor were skipped.
func (r Result) Passed() int {
	n := r.Tests - r.Failures - r.Errors - r.Skipped
	if n < 0 {
		return 0
	}
	return n
}

// SimpleName strips the package from a fully-qualified class name.
func SimpleName(fqcn string) string {
	if i := strings.LastIndex(fqcn, "."); i >= 0 {
		return fqcn[i+1:]
	}
	return fqcn
}

type xmlSuite struct {
	Name     string    `xml:"name,attr"`
	Tests    string    `xml:"tests,attr"`
	Failures string    `xml:"failures,attr"`
	Errors   string    `xml:"errors,attr"`
	Skipped  string    `xml:"skipped,attr"`
	Time     string    `xml:"time,attr"`
	Cases    []xmlCase `xml:"testcase"`
}

type xmlCase struct {
	Name      string      `xml:"name,attr"`
	ClassName string      `xml:"classname,attr"`
	Time      string      `xml:"time,attr"`
	Failure   *xmlOutcome `xml:"failure"`
	Error     *xmlOutcome `xml:"error"`
	Skipped   *xmlOutcome `xml:"skipped"`
}

type xmlOutcome struct {
	Message string `xml:"message,attr"`
	Type    string `xml:"type,attr"`
	Body    string `xml:",chardata"`
}

// Parse reads every <testsuite> element in r, whether it is the document root
// or nested in <testsuites>.
func Parse(r io.Reader) ([]Result, error) {
	dec := xml.NewDecoder(r)
	var results []Result
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "reading junit xml")
		}
		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Local != "testsuite" {
			continue
		}
		var s xmlSuite
		if err := dec.DecodeElement(&s, &start); err != nil {
			return nil, errors.Wrap(err, "decoding testsuite")
		}
		results = append(results, s.result())
	}
	return results, nil
}

// ParseBytes parses a JUnit XML document held in memory.
func ParseBytes(data []byte) ([]Result, error) {
	return Parse(bytes.NewReader(data))
}

func (s xmlSuite) result() Result {
	res := Result{
		Name:     s.Name,
		Tests:    atoi(s.Tests),
		Failures: atoi(s.Failures),
		Errors:   atoi(s.Errors),
		Skipped:  atoi(s.Skipped),
		Duration: seconds(s.Time),
		Cases:    make([]Case, 0, len(s.Cases)),
	}
	for _, xc := range s.Cases {
		c := Case{
			Name:      xc.Name,
			ClassName: xc.ClassName,
			Duration:  seconds(xc.Time),
			Status:    StatusPass,
		}
		switch {
		case xc.Failure != nil:
			c.Status = StatusFail
			c.Message, c.Type, c.Details = xc.Failure.Message, xc.Failure.Type, strings.TrimSpace(xc.Failure.Body)
		case xc.Error != nil:
			c.Status = StatusError
			c.Message, c.Type, c.Details = xc.Error.Message, xc.Error.Type, strings.TrimSpace(xc.Error.Body)
		case xc.Skipped != nil:
			c.Status = StatusSkip
			c.Message, c.Details = xc.Skipped.Message, strings.TrimSpace(xc.Skipped.Body)
		}
		res.Cases = append(res.Cases, c)
	}
	// Some writers omit the counters; derive them from the cases.
	if s.Tests == "" {
		res.Tests = len(res.Cases)
		for _, c := range res.Cases {
			switch c.Status {
			case StatusFail:
				res.Failures++
			case StatusError:
				res.Errors++
			case StatusSkip:
				res.Skipped++
			}
		}
	}
	return res
}

func atoi(s string) int {
	n, _ := strconv.Atoi(strings.TrimSpace(s))
	return n
}

// seconds parses Surefire time attributes, which may use a thousands separator.
func seconds(s string) time.Duration {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return time.Duration(f * float64(time.Second))
}

// Totals aggregates counters over several suites.
type Totals struct {
	Suites   int
	Tests    int
	Passed   int
	Failures int
	Errors   int
	Skipped  int
	Duration time.Duration
}

// OK reports whether no test failed or errored.
func (t Totals) OK() bool {
	return t.Failures == 0 && t.Errors == 0
}

// Summarize adds up the counters of results.
func Summarize(results []Result) Totals {
	var t Totals
	for _, r := range results {
		t.Suites++
		t.Tests += r.Tests
		t.Passed += r.Passed()
		t.Failures += r.Failures
		t.Errors += r.Errors
		t.Skipped += r.Skipped
		t.Duration += r.Duration
	}
	return t
}
