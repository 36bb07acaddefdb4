package sarif

import (
	"encoding/json"
	"io"
	"strings"

	"github.com/cockroachdb/errors"
)

// Builder constructs SARIF 2.1.0 documents with a single run.
type Builder struct {
	doc     *Document
	run     *Run
	section string
}

// NewBuilder creates a SARIF builder for the given tool.
func NewBuilder(toolName, toolVersion string) *Builder {
	run := Run{
		Tool: Tool{
			Driver: Driver{
				Name:    toolName,
				Version: toolVersion,
			},
		},
	}
	return &Builder{
		doc: &Document{
			Version: "2.1.0",
			Schema:  "https://raw.githubusercontent.com/oasis-tcs/sarif-spec/main/sarif-2.1/schema/sarif-schema-2.1.0.json",
			Runs:    []Run{run},
		},
		run: &run,
	}
}

// Levels understood by SARIF consumers.
const (
	LevelError   = "error"
	LevelWarning = "warning"
	LevelNote    = "note"
)

// Section files every following result under name until the next call.
func (b *Builder) Section(name string) *Builder {
	b.section = name
	return b
}

// AddResult adds a result to the current run. An empty file adds a result
// without a location; a line of 0 omits the region and a col of 0 the
// column. Files are relative to SRCROOT.
func (b *Builder) AddResult(ruleID, level, message, file string, line, col int) *Builder {
	r := Result{
		RuleID:  ruleID,
		Level:   level,
		Message: Message{Text: message},
	}
	if file != "" {
		loc := PhysicalLocation{ArtifactLocation: ArtifactLocation{URI: file, URIBaseID: SRCROOT}}
		if line > 0 {
			loc.Region = &Region{StartLine: line, StartColumn: col}
		}
		r.Locations = []Location{{PhysicalLocation: loc}}
	}
	testSource := strings.HasPrefix(file, "src/test/")
	if b.section != "" || testSource {
		r.Properties = &Properties{Section: b.section, TestSource: testSource}
	}
	b.run.Results = append(b.run.Results, r)
	b.doc.Runs[0] = *b.run
	return b
}

// Invocation records whether the build ran to completion.
func (b *Builder) Invocation(successful bool) *Builder {
	b.run.Invocations = []Invocation{{ExecutionSuccessful: successful}}
	b.doc.Runs[0] = *b.run
	return b
}

// WithInformationURI records where the tool is documented.
func (b *Builder) WithInformationURI(uri string) *Builder {
	b.run.Tool.Driver.InformationURI = uri
	b.doc.Runs[0] = *b.run
	return b
}

// Len returns the number of results added so far.
func (b *Builder) Len() int {
	return len(b.run.Results)
}

// Document returns the constructed SARIF document.
func (b *Builder) Document() *Document {
	return b.doc
}

// WriteTo writes the SARIF document as JSON to w.
func (b *Builder) WriteTo(w io.Writer) (int64, error) {
	data, err := json.MarshalIndent(b.doc, "", "  ")
	if err != nil {
		return 0, errors.Wrap(err, "encoding sarif")
	}
	data = append(data, '\n')
	n, err := w.Write(data)
	return int64(n), errors.Wrap(err, "writing sarif")
}
