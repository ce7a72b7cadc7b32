package runner

import "github.com/dashdev/devsuite/types"

// RollupTotals carries the summary statistics computed over the results of
// one suite run.
type RollupTotals struct {
	Passed         int
	Failed         int
	Duration       float64
	Coverage       float64
	OverallSuccess bool
}

// Rollup computes exact sums across the recorded type results. Coverage is
// carried from the unit-test type only; other types do not report it.
// OverallSuccess is false iff at least one configured entry failed.
// Not-configured entries contribute zero to every sum and never affect the
// verdict.
func Rollup(results map[string]types.TestTypeResult) RollupTotals {
	totals := RollupTotals{OverallSuccess: true}
	for tag, r := range results {
		if !r.Configured {
			continue
		}
		totals.Passed += r.Passed
		totals.Failed += r.Failed
		totals.Duration += r.Duration
		if tag == types.UnitTestType {
			totals.Coverage = r.Coverage
		}
		if !r.Success {
			totals.OverallSuccess = false
		}
	}
	return totals
}

// ApplyRollup populates the suite-level totals from its recorded results.
// The totals are pure sums over Results; nothing mutates them independently.
func ApplyRollup(suite *types.TestSuiteResult) {
	totals := Rollup(suite.Results)
	suite.TotalPassed = totals.Passed
	suite.TotalFailed = totals.Failed
	suite.TotalDuration = totals.Duration
	suite.Coverage = totals.Coverage
	suite.OverallSuccess = totals.OverallSuccess
}
