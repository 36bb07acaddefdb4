// Package sarif builds and reads SARIF 2.1.0 documents for build and
// validation findings, so they can be uploaded to code-scanning tools.
// Only the parts of the format dpcheck produces are modeled.
package sarif

// SRCROOT is the uriBaseId every located result is relative to: the root of
// the project that was built or validated.
const SRCROOT = "SRCROOT"

// Sections group results by the part of a submission check that produced
// them. They travel in each result's property bag.
const (
	SectionExecution = "execution"
	SectionCompile   = "compile"
	SectionStyle     = "style"
	SectionPMD       = "pmd"
	SectionTests     = "tests"
	SectionStructure = "structure"
)

// Document is a SARIF log with dpcheck's single run.
type Document struct {
	Version string `json:"version"`
	Schema  string `json:"$schema,omitempty"`
	Runs    []Run  `json:"runs"`
}

// Run holds the results of checking one submission or assignment. The
// invocation records whether the build itself got far enough to judge.
type Run struct {
	Tool        Tool         `json:"tool"`
	Invocations []Invocation `json:"invocations,omitempty"`
	Results     []Result     `json:"results"`
}

type Tool struct {
	Driver Driver `json:"driver"`
}

type Driver struct {
	Name           string `json:"name"`
	Version        string `json:"version,omitempty"`
	InformationURI string `json:"informationUri,omitempty"`
}

// Invocation is false when the build failed for a reason other than
// compilation or test failures.
type Invocation struct {
	ExecutionSuccessful bool `json:"executionSuccessful"`
}

// Result is one compiler error, style violation, failed test or
// validation record.
type Result struct {
	RuleID     string      `json:"ruleId"`
	Level      string      `json:"level"`
	Message    Message     `json:"message"`
	Locations  []Location  `json:"locations,omitempty"`
	Properties *Properties `json:"properties,omitempty"`
}

// Properties is the result property bag.
type Properties struct {
	Section    string `json:"section,omitempty"`
	TestSource bool   `json:"testSource,omitempty"` // under src/test
}

type Message struct {
	Text string `json:"text"`
}

type Location struct {
	PhysicalLocation PhysicalLocation `json:"physicalLocation"`
}

// PhysicalLocation has no region when the build output named a file but
// no line.
type PhysicalLocation struct {
	ArtifactLocation ArtifactLocation `json:"artifactLocation"`
	Region           *Region          `json:"region,omitempty"`
}

type ArtifactLocation struct {
	URI       string `json:"uri"`
	URIBaseID string `json:"uriBaseId,omitempty"`
}

// Region positions are 1-based; javac and checkstyle report columns, PMD
// and detekt only lines.
type Region struct {
	StartLine   int `json:"startLine"`
	StartColumn int `json:"startColumn,omitempty"`
}

// Section returns the section a result was filed under, or "".
func (r Result) Section() string {
	if r.Properties == nil {
		return ""
	}
	return r.Properties.Section
}

// File returns the project-relative path of the first location, or "".
func (r Result) File() string {
	if len(r.Locations) == 0 {
		return ""
	}
	return r.Locations[0].PhysicalLocation.ArtifactLocation.URI
}

// Line returns the first location's start line, or 0.
func (r Result) Line() int {
	if len(r.Locations) == 0 || r.Locations[0].PhysicalLocation.Region == nil {
		return 0
	}
	return r.Locations[0].PhysicalLocation.Region.StartLine
}
