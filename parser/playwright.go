package parser

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/dashdev/devsuite/types"
)

// playwrightParser handles the hierarchical browser-automation kind: a JSON
// document whose top level is a list of suites, each containing nested
// sub-suites and/or specs, each spec containing one or more timed attempts.
type playwrightParser struct{}

type pwReport struct {
	Suites []pwSuite `json:"suites"`
}

type pwSuite struct {
	Title  string    `json:"title"`
	Suites []pwSuite `json:"suites"`
	Specs  []pwSpec  `json:"specs"`
}

type pwSpec struct {
	Title string   `json:"title"`
	Tests []pwTest `json:"tests"`
}

type pwTest struct {
	Results []pwAttempt `json:"results"`
}

type pwAttempt struct {
	Status      string         `json:"status"`
	Duration    float64        `json:"duration"` // milliseconds
	Error       *pwError       `json:"error"`
	Attachments []pwAttachment `json:"attachments"`
}

type pwError struct {
	Message string `json:"message"`
}

type pwAttachment struct {
	Name string `json:"name"`
	Path string `json:"path"`
	Body string `json:"body"` // base64-encoded payload
}

const (
	attachmentScreenshot  = "screenshot"
	attachmentAPIResponse = "api-response"
)

// Fallback case lines, e.g.
// "[chromium] › e2e/smoke.spec.ts:11:7 › Smoke Tests › SMOKE-01: app boots"
var pwCaseLineRe = regexp.MustCompile(`› ([^›]+\.spec\.ts:\d+:\d+) › (.+)`)

func (p *playwrightParser) Parse(raw types.RawRunOutput, testType string) types.TestTypeResult {
	result := types.TestTypeResult{
		Type:       testType,
		Kind:       types.FrameworkPlaywright,
		Success:    raw.ExitCode == 0,
		Configured: true,
	}

	var report pwReport
	if err := json.Unmarshal([]byte(raw.Stdout), &report); err == nil && report.Suites != nil {
		result.ParsedVia = types.ParsedStructured
		for _, suite := range report.Suites {
			result.Cases = append(result.Cases, flattenSuite(suite, "")...)
		}
		for _, tc := range result.Cases {
			switch tc.Status {
			case types.TestStatusPassed:
				result.Passed++
			case types.TestStatusFailed:
				result.Failed++
			case types.TestStatusSkipped:
				result.Skipped++
			}
		}
		if result.Failed > 0 {
			result.Success = false
		}
	} else {
		p.parseFallback(stripANSI(combinedOutput(raw)), &result)
	}

	// The reporter prints wall-clock duration as "(12.3s)" on the summary line.
	result.Duration = parenDuration(combinedOutput(raw))

	if !result.Success {
		executionError(&result, raw)
	}
	return result
}

// flattenSuite converts a nested suite tree into a flat ordered list of
// test cases. Pure fold: each level returns a fresh list and the caller
// concatenates, so no node ever holds a mutable accumulator owned by an
// ancestor call.
//
// Frameworks may retry a flaky test; only the last recorded attempt's
// status, duration and attachments are authoritative.
func flattenSuite(suite pwSuite, ancestorPrefix string) []types.TestCase {
	prefix := suite.Title
	if ancestorPrefix != "" {
		prefix = ancestorPrefix + types.NameDelimiter + suite.Title
	}

	var cases []types.TestCase
	for _, spec := range suite.Specs {
		name := spec.Title
		if prefix != "" {
			name = prefix + types.NameDelimiter + spec.Title
		}
		for _, test := range spec.Tests {
			if len(test.Results) == 0 {
				continue
			}
			last := test.Results[len(test.Results)-1]

			tc := types.TestCase{
				Name:     name,
				Status:   attemptStatus(last.Status),
				Duration: last.Duration / 1000, // ms -> s
			}
			if last.Error != nil {
				tc.Error = truncate(last.Error.Message, maxErrorLen)
			}
			for _, att := range last.Attachments {
				resolveAttachment(att, &tc)
			}
			cases = append(cases, tc)
		}
	}

	for _, sub := range suite.Suites {
		cases = append(cases, flattenSuite(sub, prefix)...)
	}
	return cases
}

// resolveAttachment maps a tagged attachment onto the case: a screenshot
// yields its file path, a captured response body is base64-decoded into
// text. Decoding failure degrades to the raw encoded string rather than
// aborting the flatten.
func resolveAttachment(att pwAttachment, tc *types.TestCase) {
	switch att.Name {
	case attachmentScreenshot:
		if att.Path != "" {
			tc.Screenshot = att.Path
		}
	case attachmentAPIResponse:
		if att.Body == "" {
			return
		}
		if decoded, err := base64Decode(att.Body); err == nil {
			tc.APIResponse = decoded
		} else {
			tc.APIResponse = att.Body
		}
	}
}

// parseFallback scans plain text for the summary counts and the
// ancestor-chain case lines. Fallback cases carry only a name and status,
// no duration.
func (p *playwrightParser) parseFallback(clean string, result *types.TestTypeResult) {
	result.ParsedVia = types.ParsedFallback
	result.Passed = matchInt(passedCountRe, clean, 0)
	result.Failed = matchInt(failedCountRe, clean, 0)

	status := types.TestStatusPassed
	if !result.Success {
		status = types.TestStatusFailed
	}
	for _, m := range pwCaseLineRe.FindAllStringSubmatch(clean, -1) {
		result.Cases = append(result.Cases, types.TestCase{
			Name:   strings.TrimSpace(m[2]),
			Status: status,
		})
	}
}

func attemptStatus(s string) types.TestStatus {
	switch s {
	case "passed", "expected":
		return types.TestStatusPassed
	case "skipped":
		return types.TestStatusSkipped
	default:
		// failed, timedOut, interrupted, unexpected
		return types.TestStatusFailed
	}
}
