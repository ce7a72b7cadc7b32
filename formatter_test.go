package devsuite

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dashdev/devsuite/types"
)

func formattedSuite() *types.TestSuiteResult {
	suite := &types.TestSuiteResult{
		Project:        "warehouse-ui",
		RunID:          "run-7",
		TotalPassed:    14,
		TotalFailed:    1,
		TotalDuration:  22.2,
		Coverage:       85.5,
		OverallSuccess: false,
	}
	suite.Append(types.TestTypeResult{
		Type: types.UnitTestType, Kind: types.FrameworkVitest,
		Configured: true, Success: true,
		Passed: 12, Skipped: 1, Duration: 4.2, Coverage: 85.5,
	})
	suite.Append(types.TestTypeResult{
		Type: "Smoke", Kind: types.FrameworkPlaywright,
		Configured: true, Success: false,
		Passed: 2, Failed: 1, Duration: 18.0, Error: "timeout",
	})
	suite.Append(types.NotConfigured("UAT", "playwright not installed"))
	return suite
}

func TestConsoleResultFormatter(t *testing.T) {
	var buf bytes.Buffer
	formatter := NewConsoleResultFormatter(&buf)

	require.NoError(t, formatter.FormatResults(formattedSuite()))
	out := buf.String()

	assert.Contains(t, out, "warehouse-ui Test Suite")
	assert.Contains(t, out, "UIT")
	assert.Contains(t, out, "Smoke")
	assert.Contains(t, out, "UAT")
	assert.Contains(t, out, "n/a")
	assert.Contains(t, out, "timeout")
	assert.Contains(t, out, "TOTAL")
	assert.Contains(t, out, "14 passed / 1 failed (93.3%)")
	assert.Contains(t, out, "✗ some tests failed")
}

func TestConsoleResultFormatter_AllPassing(t *testing.T) {
	suite := &types.TestSuiteResult{
		Project:        "warehouse-ui",
		TotalPassed:    5,
		TotalDuration:  1.5,
		OverallSuccess: true,
	}
	suite.Append(types.TestTypeResult{
		Type: types.UnitTestType, Configured: true, Success: true, Passed: 5, Duration: 1.5,
	})

	var buf bytes.Buffer
	require.NoError(t, NewConsoleResultFormatter(&buf).FormatResults(suite))

	assert.Contains(t, buf.String(), "✓ all tests passed")
}

func TestConsoleResultFormatter_NothingConfigured(t *testing.T) {
	suite := &types.TestSuiteResult{Project: "bare", OverallSuccess: true}
	suite.Append(types.NotConfigured("UIT", "vitest not declared in package.json"))
	suite.Append(types.NotConfigured("Smoke", "playwright not installed"))

	var buf bytes.Buffer
	require.NoError(t, NewConsoleResultFormatter(&buf).FormatResults(suite))

	assert.Contains(t, buf.String(), "No test frameworks configured for this project")
	assert.NotContains(t, buf.String(), "passed /")
}
