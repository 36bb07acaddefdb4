package sarif

import (
	"bytes"
	"encoding/json"
	"io"
	"sort"

	"github.com/cockroachdb/errors"
)

// ReadBytes parses a SARIF document held in memory.
func ReadBytes(data []byte) (*Document, error) {
	return Read(bytes.NewReader(data))
}

// Read parses exactly one SARIF document from r.
func Read(r io.Reader) (*Document, error) {
	dec := json.NewDecoder(r)
	var doc Document
	if err := dec.Decode(&doc); err != nil {
		return nil, errors.Wrap(err, "decode sarif")
	}
	var extra json.RawMessage
	if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
		return nil, errors.New("decode sarif: trailing data after document")
	}

	if doc.Version == "" {
		return nil, errors.New("missing sarif version")
	}

	return &doc, nil
}

// Stats counts a document's results.
type Stats struct {
	TotalIssues int
	ByLevel     map[string]int // error, warning, note
	ByRule      map[string]int
	BySection   map[string]int // results without a section count under ""
	ByFile      map[string]int
	Failed      bool // some invocation did not complete
}

// ComputeStats counts results by level, rule, section and file.
func ComputeStats(doc *Document) Stats {
	stats := Stats{
		ByLevel:   make(map[string]int),
		ByRule:    make(map[string]int),
		BySection: make(map[string]int),
		ByFile:    make(map[string]int),
	}

	for _, run := range doc.Runs {
		for _, inv := range run.Invocations {
			if !inv.ExecutionSuccessful {
				stats.Failed = true
			}
		}
		for _, result := range run.Results {
			stats.TotalIssues++
			stats.ByLevel[result.Level]++
			stats.ByRule[result.RuleID]++
			stats.BySection[result.Section()]++
			if file := result.File(); file != "" {
				stats.ByFile[file]++
			}
		}
	}

	return stats
}

// FileIssue counts the located results in one source file.
type FileIssue struct {
	File       string
	IssueCount int
	ErrorCount int
	WarnCount  int
	TestSource bool
}

// TopFiles returns files sorted by issue count (descending), ties broken by
// file name. A limit of 0 returns every file.
func TopFiles(doc *Document, limit int) []FileIssue {
	byFile := make(map[string]*FileIssue)

	for _, run := range doc.Runs {
		for _, result := range run.Results {
			file := result.File()
			if file == "" {
				continue
			}
			fi, ok := byFile[file]
			if !ok {
				fi = &FileIssue{File: file}
				byFile[file] = fi
			}

			fi.IssueCount++
			if result.Properties != nil && result.Properties.TestSource {
				fi.TestSource = true
			}
			switch result.Level {
			case LevelError:
				fi.ErrorCount++
			case LevelWarning:
				fi.WarnCount++
			}
		}
	}

	files := make([]FileIssue, 0, len(byFile))
	for _, fi := range byFile {
		files = append(files, *fi)
	}
	sort.Slice(files, func(i, j int) bool {
		if files[i].IssueCount != files[j].IssueCount {
			return files[i].IssueCount > files[j].IssueCount
		}
		return files[i].File < files[j].File
	})

	if limit > 0 && len(files) > limit {
		files = files[:limit]
	}

	return files
}
