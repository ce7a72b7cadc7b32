package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/dashdev/devsuite/types"
)

func TestTypeOutcome(t *testing.T) {
	tests := []struct {
		name   string
		result types.TestTypeResult
		want   string
	}{
		{
			name:   "not configured",
			result: types.NotConfigured("Smoke", "playwright not installed"),
			want:   "not_configured",
		},
		{
			name:   "timeout",
			result: types.TestTypeResult{Configured: true, Success: false, Error: "timeout"},
			want:   "timeout",
		},
		{
			name:   "pass",
			result: types.TestTypeResult{Configured: true, Success: true},
			want:   "pass",
		},
		{
			name:   "fail",
			result: types.TestTypeResult{Configured: true, Success: false, Failed: 2},
			want:   "fail",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, typeOutcome(tt.result))
		})
	}
}

func TestRecordTypeResult(t *testing.T) {
	result := types.TestTypeResult{
		Type:       "UIT",
		Kind:       types.FrameworkVitest,
		Configured: true,
		Success:    true,
	}

	before := testutil.ToFloat64(testTypeRuns.WithLabelValues("proj-a", "UIT", "vitest", "pass"))
	RecordTypeResult("proj-a", result)
	after := testutil.ToFloat64(testTypeRuns.WithLabelValues("proj-a", "UIT", "vitest", "pass"))

	assert.Equal(t, before+1, after)
}

func TestRecordSuiteResult(t *testing.T) {
	suite := &types.TestSuiteResult{
		TotalPassed:    14,
		TotalFailed:    1,
		TotalDuration:  22.2,
		Coverage:       85.5,
		OverallSuccess: false,
	}

	RecordSuiteResult("proj-b", "run-9", suite)

	assert.Equal(t, 14.0, testutil.ToFloat64(suitePassed.WithLabelValues("proj-b", "run-9")))
	assert.Equal(t, 1.0, testutil.ToFloat64(suiteFailed.WithLabelValues("proj-b", "run-9")))
	assert.Equal(t, 85.5, testutil.ToFloat64(suiteCoverage.WithLabelValues("proj-b", "run-9")))
	assert.Equal(t, 1.0, testutil.ToFloat64(suiteResults.WithLabelValues("proj-b", "run-9", "fail")))
}

func TestRecordError(t *testing.T) {
	before := testutil.ToFloat64(errorsTotal.WithLabelValues("config"))
	RecordError("config")
	after := testutil.ToFloat64(errorsTotal.WithLabelValues("config"))

	assert.Equal(t, before+1, after)
}
