// Package types defines the unified result model shared by the parsers,
// the orchestrator and the reporting sinks.
package types

import "time"

// NameDelimiter joins ancestor suite titles and the leaf title into a
// fully-qualified test case name.
const NameDelimiter = " › "

// UnitTestType is the test type tag that carries suite-level coverage.
// Other types never report coverage.
const UnitTestType = "UIT"

// TestStatus represents the possible states of a single test case
type TestStatus string

const (
	TestStatusPassed  TestStatus = "passed"
	TestStatusFailed  TestStatus = "failed"
	TestStatusSkipped TestStatus = "skipped"
)

// FrameworkKind identifies the output schema an external test runner emits.
// The parser variant is selected by this tag, never by sniffing the payload.
type FrameworkKind string

const (
	FrameworkVitest     FrameworkKind = "vitest"     // structured JSON unit-test output
	FrameworkJest       FrameworkKind = "jest"       // line-oriented summary output
	FrameworkPlaywright FrameworkKind = "playwright" // hierarchical suite-tree JSON
	FrameworkPytest     FrameworkKind = "pytest"     // line-oriented summary output
)

// IsValid reports whether the kind is one of the supported framework kinds.
func (k FrameworkKind) IsValid() bool {
	switch k {
	case FrameworkVitest, FrameworkJest, FrameworkPlaywright, FrameworkPytest:
		return true
	}
	return false
}

// ParseConfidence distinguishes authoritative counts (decoded from the
// framework's machine-readable output) from best-effort textual guesses.
type ParseConfidence string

const (
	ParsedStructured ParseConfidence = "structured"
	ParsedFallback   ParseConfidence = "fallback"
)

// RawRunOutput is the captured outcome of one external test-runner
// invocation. It is produced by a RunnerAdapter and consumed exactly once
// by a parser.
type RawRunOutput struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// RunRequest describes one test-runner invocation for a RunnerAdapter.
type RunRequest struct {
	Type         string        // test type tag, e.g. "UIT", "Smoke"
	Kind         FrameworkKind // output schema the runner emits
	ProjectDir   string        // project the tests belong to
	SpecPattern  string        // spec file pattern for browser-automation kinds
	WithCoverage bool
	Timeout      time.Duration
}

// TestCase is a single flattened test case. Immutable once constructed.
type TestCase struct {
	Name        string     `json:"name"`
	Status      TestStatus `json:"status"`
	Duration    float64    `json:"duration"` // seconds
	Error       string     `json:"error,omitempty"`
	Screenshot  string     `json:"screenshot,omitempty"`   // attachment: screenshot file path
	APIResponse string     `json:"api_response,omitempty"` // attachment: decoded response body
}

// TestTypeResult is the normalized outcome of one test type run.
// Parsers construct it once; nothing mutates it afterwards.
type TestTypeResult struct {
	Type       string          `json:"type"`
	Kind       FrameworkKind   `json:"kind,omitempty"`
	Passed     int             `json:"passed"`
	Failed     int             `json:"failed"`
	Skipped    int             `json:"skipped"`
	Duration   float64         `json:"duration"` // seconds
	Coverage   float64         `json:"coverage"` // percent, 0 when not reported
	Success    bool            `json:"success"`
	Configured bool            `json:"configured"`
	ParsedVia  ParseConfidence `json:"parsed_via,omitempty"`
	Error      string          `json:"error,omitempty"`
	Cases      []TestCase      `json:"cases,omitempty"`
}

// NotConfigured builds the result for a test type whose framework is not set
// up for the project. Absence is never a failure.
func NotConfigured(testType string, diagnostic string) TestTypeResult {
	return TestTypeResult{
		Type:       testType,
		Success:    true,
		Configured: false,
		Error:      diagnostic,
	}
}

// CountsConsistent reports whether the per-case list agrees with the counts.
// Fallback-parsed results may legitimately under-populate Cases, in which
// case the list is empty and the check is vacuous.
func (r TestTypeResult) CountsConsistent() bool {
	if len(r.Cases) == 0 {
		return true
	}
	return r.Passed+r.Failed+r.Skipped == len(r.Cases)
}

// TestSuiteResult is the aggregate over all requested test types.
// It is owned by the orchestrator during a run and handed read-only to
// reporting collaborators afterwards.
type TestSuiteResult struct {
	Project        string                    `json:"project"`
	RunID          string                    `json:"run_id"`
	Timestamp      time.Time                 `json:"timestamp"`
	Order          []string                  `json:"order"` // type tags in execution order
	Results        map[string]TestTypeResult `json:"results"`
	TotalPassed    int                       `json:"total_passed"`
	TotalFailed    int                       `json:"total_failed"`
	TotalDuration  float64                   `json:"total_duration"`
	Coverage       float64                   `json:"coverage"`
	OverallSuccess bool                      `json:"overall_success"`
}

// Append records a test type result, preserving execution order.
func (s *TestSuiteResult) Append(result TestTypeResult) {
	if s.Results == nil {
		s.Results = make(map[string]TestTypeResult)
	}
	if _, exists := s.Results[result.Type]; !exists {
		s.Order = append(s.Order, result.Type)
	}
	s.Results[result.Type] = result
}

// Ordered returns the recorded results in execution order.
func (s *TestSuiteResult) Ordered() []TestTypeResult {
	ordered := make([]TestTypeResult, 0, len(s.Order))
	for _, tag := range s.Order {
		if r, ok := s.Results[tag]; ok {
			ordered = append(ordered, r)
		}
	}
	return ordered
}

// ConfiguredCount returns how many recorded types were actually set up.
func (s *TestSuiteResult) ConfiguredCount() int {
	n := 0
	for _, r := range s.Results {
		if r.Configured {
			n++
		}
	}
	return n
}
