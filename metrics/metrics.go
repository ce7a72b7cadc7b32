// Package metrics exposes prometheus metrics for suite runs.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/dashdev/devsuite/types"
)

const MetricsNamespace = "devsuite"

var (
	errorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Name:      "errors_total",
		Help:      "Count of errors",
	}, []string{
		"error",
	})

	testTypeRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Name:      "test_type_runs_total",
		Help:      "Count of test type runs by outcome",
	}, []string{
		"project",
		"type",
		"kind",
		"outcome",
	})

	suitePassed = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: MetricsNamespace,
		Name:      "suite_tests_passed",
		Help:      "Number of passed tests in the latest suite run",
	}, []string{
		"project",
		"run_id",
	})

	suiteFailed = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: MetricsNamespace,
		Name:      "suite_tests_failed",
		Help:      "Number of failed tests in the latest suite run",
	}, []string{
		"project",
		"run_id",
	})

	suiteDuration = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: MetricsNamespace,
		Name:      "suite_duration_seconds",
		Help:      "Duration of the latest suite run",
	}, []string{
		"project",
		"run_id",
	})

	suiteCoverage = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: MetricsNamespace,
		Name:      "suite_coverage_percent",
		Help:      "Unit test coverage of the latest suite run",
	}, []string{
		"project",
		"run_id",
	})

	suiteResults = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: MetricsNamespace,
		Name:      "suite_results",
		Help:      "Result of the latest suite run",
	}, []string{
		"project",
		"run_id",
		"result",
	})
)

// RecordError increments the error counter for an error category.
func RecordError(errorLabel string) {
	errorsTotal.WithLabelValues(errorLabel).Inc()
}

// RecordTypeResult records the outcome of one test type run.
func RecordTypeResult(project string, result types.TestTypeResult) {
	testTypeRuns.WithLabelValues(project, result.Type, string(result.Kind), typeOutcome(result)).Inc()
}

// RecordSuiteResult records the aggregate outcome of a suite run.
func RecordSuiteResult(project, runID string, suite *types.TestSuiteResult) {
	suitePassed.WithLabelValues(project, runID).Set(float64(suite.TotalPassed))
	suiteFailed.WithLabelValues(project, runID).Set(float64(suite.TotalFailed))
	suiteDuration.WithLabelValues(project, runID).Set(suite.TotalDuration)
	suiteCoverage.WithLabelValues(project, runID).Set(suite.Coverage)

	result := "fail"
	if suite.OverallSuccess {
		result = "pass"
	}
	suiteResults.WithLabelValues(project, runID, result).Set(1)
}

func typeOutcome(result types.TestTypeResult) string {
	switch {
	case !result.Configured:
		return "not_configured"
	case result.Error == "timeout":
		return "timeout"
	case result.Success:
		return "pass"
	default:
		return "fail"
	}
}
