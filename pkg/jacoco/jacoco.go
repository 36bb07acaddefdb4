// Package jacoco reads the CSV coverage summary produced by the JaCoCo report goal.
package jacoco

import (
	"bytes"
	"encoding/csv"
	"io"
	"strconv"

	"github.com/cockroachdb/errors"
)

// Counter is a missed/covered pair for one JaCoCo metric.
type Counter struct {
	Missed  int
	Covered int
}

// Total returns missed + covered.
func (c Counter) Total() int { return c.Missed + c.Covered }

// Ratio returns the covered fraction in [0,1]; an empty counter yields 0.
func (c Counter) Ratio() float64 {
	if c.Total() == 0 {
		return 0
	}
	return float64(c.Covered) / float64(c.Total())
}

func (c Counter) add(o Counter) Counter {
	return Counter{Missed: c.Missed + o.Missed, Covered: c.Covered + o.Covered}
}

// Result is one CSV row: coverage for a single class.
type Result struct {
	Group       string
	Package     string
	Class       string
	Instruction Counter
	Branch      Counter
	Line        Counter
	Complexity  Counter
	Method      Counter
}

var required = []string{"PACKAGE", "CLASS", "LINE_MISSED", "LINE_COVERED"}

// Parse reads a JaCoCo CSV report. Columns are located by header name, so
// reports with extra or reordered columns still parse.
func Parse(r io.Reader) ([]Result, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "reading jacoco header")
	}
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[name] = i
	}
	for _, name := range required {
		if _, ok := cols[name]; !ok {
			return nil, errors.Newf("jacoco csv: missing column %s", name)
		}
	}

	field := func(rec []string, name string) string {
		i, ok := cols[name]
		if !ok || i >= len(rec) {
			return ""
		}
		return rec[i]
	}
	counter := func(rec []string, prefix string) (Counter, error) {
		var c Counter
		for _, p := range []struct {
			col string
			dst *int
		}{{prefix + "_MISSED", &c.Missed}, {prefix + "_COVERED", &c.Covered}} {
			v := field(rec, p.col)
			if v == "" {
				continue
			}
			n, err := strconv.Atoi(v)
			if err != nil {
				return Counter{}, errors.Wrapf(err, "column %s", p.col)
			}
			*p.dst = n
		}
		return c, nil
	}

	var results []Result
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, errors.Wrapf(err, "reading jacoco row %d", line)
		}
		res := Result{
			Group:   field(rec, "GROUP"),
			Package: field(rec, "PACKAGE"),
			Class:   field(rec, "CLASS"),
		}
		for _, m := range []struct {
			prefix string
			dst    *Counter
		}{
			{"INSTRUCTION", &res.Instruction},
			{"BRANCH", &res.Branch},
			{"LINE", &res.Line},
			{"COMPLEXITY", &res.Complexity},
			{"METHOD", &res.Method},
		} {
			c, err := counter(rec, m.prefix)
			if err != nil {
				return nil, errors.Wrapf(err, "jacoco row %d", line)
			}
			*m.dst = c
		}
		results = append(results, res)
	}
	return results, nil
}

// ParseBytes parses a JaCoCo CSV report held in memory.
func ParseBytes(data []byte) ([]Result, error) {
	return Parse(bytes.NewReader(data))
}

// LineCoverage sums line counters over all results.
func LineCoverage(results []Result) Counter {
	var total Counter
	for _, r := range results {
		total = total.add(r.Line)
	}
	return total
}

// InstructionCoverage sums instruction counters over all results.
func InstructionCoverage(results []Result) Counter {
	var total Counter
	for _, r := range results {
		total = total.add(r.Instruction)
	}
	return total
}
