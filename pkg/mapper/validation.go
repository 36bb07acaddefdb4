package mapper

import (
	"fmt"
	"strings"

	"github.com/dkoosis/dpcheck/pkg/diagnostic"
	"github.com/dkoosis/dpcheck/pkg/pattern"
)

// FromValidation converts a validation report into a summary and one table
// holding every record in report order.
func FromValidation(id string, rep *diagnostic.Report) []pattern.Pattern {
	errs := rep.Count(diagnostic.SeverityError)
	warns := rep.Count(diagnostic.SeverityWarning)
	infos := rep.Count(diagnostic.SeverityInfo)

	label := "VALIDATION"
	if id != "" {
		label += " " + id
	}
	switch {
	case errs > 0:
		label += fmt.Sprintf(": %d errors, %d warnings", errs, warns)
	case warns > 0:
		label += fmt.Sprintf(": %d warnings", warns)
	default:
		label += ": ok"
	}

	summary := &pattern.Summary{
		Label: label,
		Kind:  pattern.SummaryKindValidation,
		Metrics: []pattern.SummaryItem{
			countItem("Errors", errs, "errors", kindError),
			countItem("Warnings", warns, "warnings", kindWarning),
			{Label: "Passed checks", Value: fmt.Sprintf("%d", infos), Kind: kindInfo},
		},
	}
	if n := len(rep.TestMethods()); n > 0 {
		summary.Metrics = append(summary.Metrics, pattern.SummaryItem{
			Label: "Test methods", Value: fmt.Sprintf("%d", n), Kind: kindInfo,
		})
	}

	records := rep.Records()
	if len(records) == 0 {
		return []pattern.Pattern{summary}
	}
	items := make([]pattern.TestTableItem, 0, len(records))
	for _, rec := range records {
		var details []string
		if rec.Detail != "" {
			details = append(details, rec.Detail)
		}
		if rec.Snippet != "" {
			details = append(details, rec.Snippet)
		}
		items = append(items, pattern.TestTableItem{
			Name:    rec.Message,
			Status:  recordStatus(rec.Severity),
			Details: strings.Join(details, "\n"),
		})
	}
	table := &pattern.TestTable{Label: "Assignment checks", Source: SourceValidation, Results: items}
	return []pattern.Pattern{summary, table}
}

func recordStatus(s diagnostic.Severity) string {
	switch s {
	case diagnostic.SeverityError:
		return pattern.StatusFail
	case diagnostic.SeverityWarning:
		return pattern.StatusWarn
	default:
		return pattern.StatusPass
	}
}
