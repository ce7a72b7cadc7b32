package devsuite

import (
	"fmt"
	"io"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/dashdev/devsuite/types"
)

// ResultFormatter is responsible for formatting and displaying suite results.
type ResultFormatter interface {
	FormatResults(suite *types.TestSuiteResult) error
}

// ConsoleResultFormatter renders the suite result as a console table.
type ConsoleResultFormatter struct {
	out io.Writer
}

// NewConsoleResultFormatter creates a formatter writing to stdout, or to
// the given writer when non-nil.
func NewConsoleResultFormatter(out io.Writer) *ConsoleResultFormatter {
	if out == nil {
		out = os.Stdout
	}
	return &ConsoleResultFormatter{out: out}
}

// FormatResults renders one row per test type plus a totals footer.
func (f *ConsoleResultFormatter) FormatResults(suite *types.TestSuiteResult) error {
	t := table.NewWriter()
	t.SetOutputMirror(f.out)
	t.SetTitle(fmt.Sprintf("%s Test Suite (%.1fs)", suite.Project, suite.TotalDuration))

	t.AppendHeader(table.Row{
		"Type", "Status", "Passed", "Failed", "Skipped", "Duration", "Coverage", "Error",
	})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Name: "Passed", Align: text.AlignRight},
		{Name: "Failed", Align: text.AlignRight},
		{Name: "Skipped", Align: text.AlignRight},
		{Name: "Duration", Align: text.AlignRight},
		{Name: "Coverage", Align: text.AlignRight},
		{Name: "Error", WidthMax: 50, WidthMaxEnforcer: text.WrapSoft},
	})

	for _, r := range suite.Ordered() {
		coverage := "-"
		if r.Coverage > 0 {
			coverage = fmt.Sprintf("%.0f%%", r.Coverage)
		}
		t.AppendRow(table.Row{
			r.Type,
			typeStatusString(r),
			r.Passed,
			r.Failed,
			r.Skipped,
			fmt.Sprintf("%.1fs", r.Duration),
			coverage,
			r.Error,
		})
	}

	if suite.OverallSuccess {
		t.SetStyle(table.StyleColoredBlackOnGreenWhite)
	} else {
		t.SetStyle(table.StyleColoredBlackOnRedWhite)
	}

	t.AppendFooter(table.Row{
		"TOTAL",
		overallStatusString(suite),
		suite.TotalPassed,
		suite.TotalFailed,
		"",
		fmt.Sprintf("%.1fs", suite.TotalDuration),
		coverageString(suite.Coverage),
		"",
	})
	t.Render()

	f.printSummary(suite)
	return nil
}

// printSummary prints the pass-rate line below the table.
func (f *ConsoleResultFormatter) printSummary(suite *types.TestSuiteResult) {
	total := suite.TotalPassed + suite.TotalFailed
	if total > 0 {
		passRate := float64(suite.TotalPassed) / float64(total) * 100
		fmt.Fprintf(f.out, "%d passed / %d failed (%.1f%%)\n", suite.TotalPassed, suite.TotalFailed, passRate)
	}

	switch {
	case suite.ConfiguredCount() == 0:
		fmt.Fprintln(f.out, "No test frameworks configured for this project")
	case suite.OverallSuccess:
		fmt.Fprintln(f.out, "✓ all tests passed")
	default:
		fmt.Fprintln(f.out, "✗ some tests failed")
	}
}

func typeStatusString(r types.TestTypeResult) string {
	switch {
	case !r.Configured:
		return "n/a"
	case r.Success:
		return "✓ pass"
	default:
		return "✗ fail"
	}
}

func overallStatusString(suite *types.TestSuiteResult) string {
	if suite.OverallSuccess {
		return "✓ pass"
	}
	return "✗ fail"
}

func coverageString(coverage float64) string {
	if coverage > 0 {
		return fmt.Sprintf("%.1f%%", coverage)
	}
	return "-"
}
