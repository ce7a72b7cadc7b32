package reporting

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dashdev/devsuite/types"
)

// TextSummarySink writes a plain-text summary of the suite run, one line
// per test type plus totals.
type TextSummarySink struct {
	path string
}

// NewTextSummarySink creates a sink writing to the given file path.
func NewTextSummarySink(path string) *TextSummarySink {
	return &TextSummarySink{path: path}
}

func (s *TextSummarySink) Write(suite *types.TestSuiteResult) error {
	content := FormatTextSummary(suite)

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create summary directory %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(s.path, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write summary file %s: %w", s.path, err)
	}
	return nil
}

// FormatTextSummary renders the plain-text summary for a suite result.
func FormatTextSummary(suite *types.TestSuiteResult) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Test Suite: %s\n", suite.Project)
	fmt.Fprintf(&b, "Run ID: %s\n", suite.RunID)
	fmt.Fprintf(&b, "Timestamp: %s\n\n", suite.Timestamp.Format("2006-01-02 15:04:05"))

	for _, r := range suite.Ordered() {
		switch {
		case !r.Configured:
			fmt.Fprintf(&b, "%-8s n/a (%s)\n", r.Type, r.Error)
		case r.Success:
			fmt.Fprintf(&b, "%-8s PASS  %d passed, %d failed, %d skipped  %.1fs\n",
				r.Type, r.Passed, r.Failed, r.Skipped, r.Duration)
		default:
			line := fmt.Sprintf("%-8s FAIL  %d passed, %d failed, %d skipped  %.1fs",
				r.Type, r.Passed, r.Failed, r.Skipped, r.Duration)
			if r.Error != "" {
				line += "  (" + r.Error + ")"
			}
			b.WriteString(line + "\n")
		}
	}

	fmt.Fprintf(&b, "\nTotal: %d passed / %d failed  |  %.1fs\n",
		suite.TotalPassed, suite.TotalFailed, suite.TotalDuration)
	if suite.Coverage > 0 {
		fmt.Fprintf(&b, "Coverage: %.1f%%\n", suite.Coverage)
	}
	if suite.OverallSuccess {
		b.WriteString("Result: PASS\n")
	} else {
		b.WriteString("Result: FAIL\n")
	}
	return b.String()
}
