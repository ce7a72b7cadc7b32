package parser

import (
	"encoding/json"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/dashdev/devsuite/types"
)

// vitestParser handles the structured JSON unit-test kind. The primary path
// decodes the reporter's JSON document; when that is absent or corrupt it
// falls back to best-effort textual parsing of the summary lines.
type vitestParser struct{}

// vitestReport is the subset of the JSON reporter output we consume.
// Jest emits the same shape, which is why the field names look Jest-ish.
type vitestReport struct {
	NumPassedTests     int                `json:"numPassedTests"`
	NumFailedTests     int                `json:"numFailedTests"`
	NumPendingTests    int                `json:"numPendingTests"`
	NumTotalTests      int                `json:"numTotalTests"`
	NumTotalTestSuites int                `json:"numTotalTestSuites"`
	TestResults        []vitestFileResult `json:"testResults"`
}

type vitestFileResult struct {
	Name             string            `json:"name"`
	AssertionResults []vitestAssertion `json:"assertionResults"`
}

type vitestAssertion struct {
	AncestorTitles  []string `json:"ancestorTitles"`
	Title           string   `json:"title"`
	Status          string   `json:"status"`
	Duration        float64  `json:"duration"` // milliseconds
	FailureMessages []string `json:"failureMessages"`
}

var (
	// The JSON document is embedded in stdout between reporter noise; grab
	// the outermost object that carries the testResults key.
	vitestJSONRe = regexp.MustCompile(`(?s)(\{.*"testResults".*\})`)

	coverageAllFilesRe = regexp.MustCompile(`All files\s+\|\s+([\d.]+)`)
	testsPassedRe      = regexp.MustCompile(`Tests\s+(\d+)\s+passed`)
	skippedCountRe     = regexp.MustCompile(`(\d+)\s+skipped`)
	durationMillisRe   = regexp.MustCompile(`Duration\s+([\d.]+)ms`)
	durationSecsRe     = regexp.MustCompile(`Duration\s+([\d.]+)s`)

	// Per-file summary markers, e.g. "✓ src/app/warehouse.service.spec.ts (25 tests) 2ms"
	specFileLineRe = regexp.MustCompile(`[✓✗]\s+(\S+\.spec\.[tj]s)\s+\((\d+)\s+tests?\)`)
)

func (p *vitestParser) Parse(raw types.RawRunOutput, testType string) types.TestTypeResult {
	result := types.TestTypeResult{
		Type:       testType,
		Kind:       types.FrameworkVitest,
		Success:    raw.ExitCode == 0,
		Configured: true,
	}

	clean := stripANSI(combinedOutput(raw))

	report, ok := extractVitestReport(raw.Stdout)
	if ok {
		p.parseStructured(report, &result)
		// Reporters can exit zero even with failing assertions; the
		// decoded counts are authoritative.
		if result.Failed > 0 {
			result.Success = false
		}
	} else {
		p.parseFallback(clean, &result)
	}

	// Coverage arrives on a textual side channel regardless of path.
	result.Coverage = matchFloat(coverageAllFilesRe, clean, 0)

	result.Duration = parseVitestDuration(clean)

	if !result.Success {
		executionError(&result, raw)
	}
	return result
}

// extractVitestReport locates and decodes the embedded JSON payload,
// tolerating leading and trailing non-JSON noise.
func extractVitestReport(stdout string) (vitestReport, bool) {
	var report vitestReport
	m := vitestJSONRe.FindStringSubmatch(stdout)
	if m == nil {
		return report, false
	}
	if err := json.Unmarshal([]byte(m[1]), &report); err != nil {
		return report, false
	}
	return report, true
}

func (p *vitestParser) parseStructured(report vitestReport, result *types.TestTypeResult) {
	result.ParsedVia = types.ParsedStructured
	result.Passed = report.NumPassedTests
	result.Failed = report.NumFailedTests
	result.Skipped = report.NumPendingTests

	for _, file := range report.TestResults {
		fileName := filepath.Base(file.Name)
		for _, assertion := range file.AssertionResults {
			titles := append(append([]string{}, assertion.AncestorTitles...), assertion.Title)
			name := fileName + types.NameDelimiter + strings.Join(titles, types.NameDelimiter)

			var errMsg string
			if len(assertion.FailureMessages) > 0 {
				errMsg = truncate(assertion.FailureMessages[0], maxErrorLen)
			}

			result.Cases = append(result.Cases, types.TestCase{
				Name:     name,
				Status:   assertionStatus(assertion.Status),
				Duration: assertion.Duration / 1000, // ms -> s
				Error:    errMsg,
			})
		}
	}
}

// parseFallback recovers counts from the human-readable summary when the
// JSON payload is missing or undecodable. Individual case names are not
// available on this path; one pseudo-case per detected spec file stands in
// for them. Explicitly best-effort: counts may be populated while Cases is
// under-populated.
func (p *vitestParser) parseFallback(clean string, result *types.TestTypeResult) {
	result.ParsedVia = types.ParsedFallback

	if n := matchInt(testsPassedRe, clean, -1); n >= 0 {
		result.Passed = n
	} else {
		result.Passed = matchInt(passedCountRe, clean, 0)
	}
	result.Failed = matchInt(failedCountRe, clean, 0)
	result.Skipped = matchInt(skippedCountRe, clean, 0)

	for _, m := range specFileLineRe.FindAllStringSubmatch(clean, -1) {
		fileName := filepath.Base(m[1])
		status := types.TestStatusPassed
		if strings.HasPrefix(m[0], "✗") {
			status = types.TestStatusFailed
		}
		result.Cases = append(result.Cases, types.TestCase{
			Name:   fileName + " (" + m[2] + " tests)",
			Status: status,
		})
	}
}

func parseVitestDuration(clean string) float64 {
	if d := matchFloat(durationMillisRe, clean, -1); d >= 0 {
		return d / 1000
	}
	if d := matchFloat(durationSecsRe, clean, -1); d >= 0 {
		return d
	}
	return parenDuration(clean)
}

func assertionStatus(s string) types.TestStatus {
	switch s {
	case "passed":
		return types.TestStatusPassed
	case "failed":
		return types.TestStatusFailed
	default:
		// pending, todo and skipped all normalize to skipped
		return types.TestStatusSkipped
	}
}
