package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dashdev/devsuite/types"
)

const vitestJSONOutput = `{
  "numTotalTestSuites": 3,
  "numPassedTests": 12,
  "numFailedTests": 1,
  "numPendingTests": 0,
  "numTotalTests": 13,
  "testResults": [
    {
      "name": "/repo/src/app/core/services/warehouse.service.spec.ts",
      "assertionResults": [
        {
          "ancestorTitles": ["WarehouseService", "inventory"],
          "title": "lists items",
          "status": "passed",
          "duration": 12
        },
        {
          "ancestorTitles": ["WarehouseService"],
          "title": "rejects bad input",
          "status": "failed",
          "duration": 8,
          "failureMessages": ["expected 400 but got 500"]
        }
      ]
    }
  ]
}`

func TestVitestParser_StructuredJSON(t *testing.T) {
	raw := types.RawRunOutput{
		ExitCode: 1,
		Stdout:   "some reporter noise\n" + vitestJSONOutput + "\ntrailing noise",
	}

	result := Parse(raw, types.FrameworkVitest, "UIT")

	assert.Equal(t, "UIT", result.Type)
	assert.Equal(t, 12, result.Passed)
	assert.Equal(t, 1, result.Failed)
	assert.False(t, result.Success)
	assert.True(t, result.Configured)
	assert.Equal(t, types.ParsedStructured, result.ParsedVia)

	require.Len(t, result.Cases, 2)
	assert.Equal(t, "warehouse.service.spec.ts › WarehouseService › inventory › lists items", result.Cases[0].Name)
	assert.Equal(t, types.TestStatusPassed, result.Cases[0].Status)
	assert.InDelta(t, 0.012, result.Cases[0].Duration, 1e-9)

	assert.Equal(t, "warehouse.service.spec.ts › WarehouseService › rejects bad input", result.Cases[1].Name)
	assert.Equal(t, types.TestStatusFailed, result.Cases[1].Status)
	assert.Equal(t, "expected 400 but got 500", result.Cases[1].Error)
}

func TestVitestParser_FailedCountsOverrideExitCode(t *testing.T) {
	raw := types.RawRunOutput{
		ExitCode: 0,
		Stdout:   vitestJSONOutput,
	}

	result := Parse(raw, types.FrameworkVitest, "UIT")

	assert.Equal(t, 1, result.Failed)
	assert.False(t, result.Success)
}

func TestVitestParser_CoverageFromSideChannel(t *testing.T) {
	raw := types.RawRunOutput{
		ExitCode: 0,
		Stdout:   vitestJSONOutput,
		Stderr:   " All files      |   85.5 |    72.1 |   90.0 |   85.5 |\n",
	}

	result := Parse(raw, types.FrameworkVitest, "UIT")

	assert.InDelta(t, 85.5, result.Coverage, 1e-9)
}

func TestVitestParser_FallbackSummary(t *testing.T) {
	// Exit 0 but stdout carries no JSON, only a textual summary.
	raw := types.RawRunOutput{
		ExitCode: 0,
		Stdout:   "3 passed (43ms)\n",
	}

	result := Parse(raw, types.FrameworkVitest, "UIT")

	assert.Equal(t, 3, result.Passed)
	assert.Equal(t, 0, result.Failed)
	assert.InDelta(t, 0.043, result.Duration, 1e-9)
	assert.True(t, result.Success)
	assert.Equal(t, types.ParsedFallback, result.ParsedVia)
	assert.Empty(t, result.Cases)
}

func TestVitestParser_FallbackSpecFilePseudoCases(t *testing.T) {
	raw := types.RawRunOutput{
		ExitCode: 1,
		Stdout: "✓ src/app/core/services/warehouse.service.spec.ts (25 tests) 2ms\n" +
			"✗ src/app/core/services/order.service.spec.ts (3 tests) 10ms\n" +
			"Tests  25 passed\n3 failed\n",
	}

	result := Parse(raw, types.FrameworkVitest, "UIT")

	assert.Equal(t, 25, result.Passed)
	assert.Equal(t, 3, result.Failed)
	require.Len(t, result.Cases, 2)
	assert.Equal(t, "warehouse.service.spec.ts (25 tests)", result.Cases[0].Name)
	assert.Equal(t, types.TestStatusPassed, result.Cases[0].Status)
	assert.Equal(t, "order.service.spec.ts (3 tests)", result.Cases[1].Name)
	assert.Equal(t, types.TestStatusFailed, result.Cases[1].Status)
}

func TestVitestParser_StripsANSISequences(t *testing.T) {
	raw := types.RawRunOutput{
		ExitCode: 0,
		Stdout:   "\x1b[32m7 passed\x1b[0m\n\x1b[2mDuration  120ms\x1b[0m\n",
	}

	result := Parse(raw, types.FrameworkVitest, "UIT")

	assert.Equal(t, 7, result.Passed)
	assert.InDelta(t, 0.12, result.Duration, 1e-9)
}

func TestVitestParser_Deterministic(t *testing.T) {
	raw := types.RawRunOutput{
		ExitCode: 1,
		Stdout:   vitestJSONOutput,
		Stderr:   "All files | 42.0 |",
	}

	first := Parse(raw, types.FrameworkVitest, "UIT")
	second := Parse(raw, types.FrameworkVitest, "UIT")

	assert.Equal(t, first, second)
}

func TestVitestParser_ExecutionErrorExcerpt(t *testing.T) {
	raw := types.RawRunOutput{
		ExitCode: 127,
		Stderr:   "npx: command not found",
	}

	result := Parse(raw, types.FrameworkVitest, "UIT")

	assert.False(t, result.Success)
	assert.Zero(t, result.Passed)
	assert.Zero(t, result.Failed)
	assert.Equal(t, "npx: command not found", result.Error)
}

func TestVitestParser_CountsMatchCasesOnStructuredPath(t *testing.T) {
	raw := types.RawRunOutput{
		ExitCode: 0,
		Stdout: `{"numPassedTests":1,"numFailedTests":1,"numPendingTests":0,"numTotalTests":2,
		"testResults":[{"name":"a.spec.ts","assertionResults":[
		{"ancestorTitles":["A"],"title":"one","status":"passed","duration":1},
		{"ancestorTitles":["A"],"title":"two","status":"failed","duration":1}]}]}`,
	}

	result := Parse(raw, types.FrameworkVitest, "UIT")

	assert.True(t, result.CountsConsistent())
	assert.Equal(t, result.Passed+result.Failed+result.Skipped, len(result.Cases))
}
