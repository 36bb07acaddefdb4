// Package diagnostic defines the records produced by project validation and
// the append-only report that collects them.
package diagnostic

import "fmt"

// Severity ranks a diagnostic record.
type Severity string

const (
	SeverityInfo    Severity = "INFO"
	SeverityWarning Severity = "WARNING"
	SeverityError   Severity = "ERROR"
)

// Record is a single validation finding. Detail and Snippet are optional.
type Record struct {
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
	Detail   string   `json:"detail,omitempty"`
	Snippet  string   `json:"snippet,omitempty"`
}

// Report accumulates records in insertion order, which is also display
// order. A Report is owned by a single validation call.
type Report struct {
	records     []Record
	testMethods []string
}

// NewReport returns an empty report.
func NewReport() *Report {
	return &Report{}
}

// Add appends a record.
func (r *Report) Add(rec Record) *Report {
	r.records = append(r.records, rec)
	return r
}

// Info appends an INFO record.
func (r *Report) Info(msg string) *Report {
	return r.Add(Record{Severity: SeverityInfo, Message: msg})
}

// Infof appends an INFO record with a formatted message.
func (r *Report) Infof(format string, args ...any) *Report {
	return r.Info(fmt.Sprintf(format, args...))
}

// Warn appends a WARNING record with an optional detail.
func (r *Report) Warn(msg, detail string) *Report {
	return r.Add(Record{Severity: SeverityWarning, Message: msg, Detail: detail})
}

// Error appends an ERROR record with an optional detail.
func (r *Report) Error(msg, detail string) *Report {
	return r.Add(Record{Severity: SeverityError, Message: msg, Detail: detail})
}

// AddTestMethod records a discovered test method identifier ("Class:method").
func (r *Report) AddTestMethod(id string) {
	r.testMethods = append(r.testMethods, id)
}

// Records returns a copy of the collected records.
func (r *Report) Records() []Record {
	out := make([]Record, len(r.records))
	copy(out, r.records)
	return out
}

// TestMethods returns a copy of the discovered test method identifiers.
func (r *Report) TestMethods() []string {
	out := make([]string, len(r.testMethods))
	copy(out, r.testMethods)
	return out
}

// Count returns how many records carry the given severity.
func (r *Report) Count(sev Severity) int {
	n := 0
	for _, rec := range r.records {
		if rec.Severity == sev {
			n++
		}
	}
	return n
}

// HasErrors reports whether any ERROR record was added.
func (r *Report) HasErrors() bool {
	return r.Count(SeverityError) > 0
}

// Len returns the number of records.
func (r *Report) Len() int {
	return len(r.records)
}
