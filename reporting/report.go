// Package reporting assembles the read-only report shape that downstream
// sinks serialize. Sinks consume a finished TestSuiteResult; they never
// mutate it.
package reporting

import (
	"time"

	"github.com/dashdev/devsuite/types"
)

// ReportStats contains aggregated statistics for a suite run.
type ReportStats struct {
	Total    int     `json:"total"`
	Passed   int     `json:"passed"`
	Failed   int     `json:"failed"`
	Skipped  int     `json:"skipped"`
	PassRate float64 `json:"pass_rate"`
}

// ReportType is one test type row in the report.
type ReportType struct {
	Type       string                `json:"type"`
	Kind       types.FrameworkKind   `json:"kind,omitempty"`
	Configured bool                  `json:"configured"`
	Success    bool                  `json:"success"`
	Passed     int                   `json:"passed"`
	Failed     int                   `json:"failed"`
	Skipped    int                   `json:"skipped"`
	Duration   float64               `json:"duration"`
	Coverage   float64               `json:"coverage"`
	ParsedVia  types.ParseConfidence `json:"parsed_via,omitempty"`
	Error      string                `json:"error,omitempty"`
	Cases      []types.TestCase      `json:"cases,omitempty"`
}

// ReportData contains everything a report format needs, already flattened
// out of the suite result.
type ReportData struct {
	Project        string       `json:"project"`
	RunID          string       `json:"run_id"`
	Timestamp      time.Time    `json:"timestamp"`
	OverallSuccess bool         `json:"overall_success"`
	Stats          ReportStats  `json:"stats"`
	TotalDuration  float64      `json:"total_duration"`
	Coverage       float64      `json:"coverage"`
	Types          []ReportType `json:"types"`
}

// NewReportData builds the report shape from a finished suite result.
func NewReportData(suite *types.TestSuiteResult, includeCases bool) ReportData {
	data := ReportData{
		Project:        suite.Project,
		RunID:          suite.RunID,
		Timestamp:      suite.Timestamp,
		OverallSuccess: suite.OverallSuccess,
		TotalDuration:  suite.TotalDuration,
		Coverage:       suite.Coverage,
	}

	skipped := 0
	for _, r := range suite.Ordered() {
		row := ReportType{
			Type:       r.Type,
			Kind:       r.Kind,
			Configured: r.Configured,
			Success:    r.Success,
			Passed:     r.Passed,
			Failed:     r.Failed,
			Skipped:    r.Skipped,
			Duration:   r.Duration,
			Coverage:   r.Coverage,
			ParsedVia:  r.ParsedVia,
			Error:      r.Error,
		}
		if includeCases {
			row.Cases = r.Cases
		}
		data.Types = append(data.Types, row)
		skipped += r.Skipped
	}

	data.Stats = ReportStats{
		Total:   suite.TotalPassed + suite.TotalFailed + skipped,
		Passed:  suite.TotalPassed,
		Failed:  suite.TotalFailed,
		Skipped: skipped,
	}
	if attempted := suite.TotalPassed + suite.TotalFailed; attempted > 0 {
		data.Stats.PassRate = float64(suite.TotalPassed) / float64(attempted) * 100
	}
	return data
}

// ReportSink serializes a finished suite result somewhere.
type ReportSink interface {
	Write(suite *types.TestSuiteResult) error
}
