package render

import (
	"encoding/json"

	"github.com/dkoosis/dpcheck/pkg/pattern"
)

// JSON renders patterns for automation, under an envelope naming the tool
// and the report they came from.
type JSON struct {
	toolVersion string
}

// NewJSON creates a JSON renderer stamping output with toolVersion.
func NewJSON(toolVersion string) *JSON {
	return &JSON{toolVersion: toolVersion}
}

type jsonOutput struct {
	Tool        string        `json:"tool"`
	ToolVersion string        `json:"toolVersion,omitempty"`
	Report      string        `json:"report,omitempty"`
	Patterns    []jsonPattern `json:"patterns"`
}

type jsonPattern struct {
	Type string          `json:"type"`
	Data pattern.Pattern `json:"data"`
}

// Render formats all patterns as one JSON document.
func (j *JSON) Render(patterns []pattern.Pattern) string {
	out := jsonOutput{
		Tool:        "dpcheck",
		ToolVersion: j.toolVersion,
		Report:      pattern.Report(patterns),
		Patterns:    make([]jsonPattern, 0, len(patterns)),
	}
	for _, p := range patterns {
		out.Patterns = append(out.Patterns, jsonPattern{Type: string(p.Type()), Data: p})
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		errJSON, _ := json.Marshal(map[string]string{"error": err.Error()})
		return string(errJSON)
	}
	return string(data) + "\n"
}
