// Package parser normalizes the incompatible output schemas of external
// test frameworks into the unified result model.
//
// Each framework kind gets its own parser variant, selected by the explicit
// FrameworkKind tag set during detection. Parsers are pure functions of
// their RawRunOutput input: they never spawn processes, never touch shared
// state, and never return an error. Every failure mode (undecodable JSON,
// missing summary lines) is recovered into the returned TestTypeResult.
package parser

import (
	"encoding/base64"
	"regexp"
	"strconv"

	"github.com/acarl005/stripansi"

	"github.com/dashdev/devsuite/types"
)

// maxErrorLen bounds diagnostic strings carried on results.
const maxErrorLen = 200

// Parser turns one raw runner invocation into a normalized TestTypeResult.
type Parser interface {
	Parse(raw types.RawRunOutput, testType string) types.TestTypeResult
}

// ForKind returns the parser variant for a framework kind.
// Unknown kinds get the line-oriented parser, which degrades to a
// zero-case result when nothing matches.
func ForKind(kind types.FrameworkKind) Parser {
	switch kind {
	case types.FrameworkVitest:
		return &vitestParser{}
	case types.FrameworkPlaywright:
		return &playwrightParser{}
	case types.FrameworkJest:
		return &lineParser{kind: types.FrameworkJest}
	case types.FrameworkPytest:
		return &lineParser{kind: types.FrameworkPytest}
	default:
		return &lineParser{kind: kind}
	}
}

// Parse is a convenience wrapper around ForKind for single-shot use.
func Parse(raw types.RawRunOutput, kind types.FrameworkKind, testType string) types.TestTypeResult {
	return ForKind(kind).Parse(raw, testType)
}

var (
	passedCountRe = regexp.MustCompile(`(\d+)\s+passed`)
	failedCountRe = regexp.MustCompile(`(\d+)\s+failed`)
	parenSecsRe   = regexp.MustCompile(`\(([\d.]+)s\)`)
	parenMillisRe = regexp.MustCompile(`\(([\d.]+)ms\)`)
)

// stripANSI removes terminal escape sequences so the textual fallback
// regexes see the same bytes a human would.
func stripANSI(s string) string {
	return stripansi.Strip(s)
}

// combinedOutput joins stdout and stderr the way the frameworks interleave
// their summary and coverage side channels.
func combinedOutput(raw types.RawRunOutput) string {
	return raw.Stdout + raw.Stderr
}

// truncate bounds a diagnostic string to n characters.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

// matchInt returns the first captured group of re as an int, or fallback.
func matchInt(re *regexp.Regexp, s string, fallback int) int {
	m := re.FindStringSubmatch(s)
	if m == nil {
		return fallback
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return fallback
	}
	return n
}

// matchFloat returns the first captured group of re as a float64, or fallback.
func matchFloat(re *regexp.Regexp, s string, fallback float64) float64 {
	m := re.FindStringSubmatch(s)
	if m == nil {
		return fallback
	}
	f, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return fallback
	}
	return f
}

// parenDuration extracts a trailing "(43ms)" or "(2.5s)" duration, in seconds.
func parenDuration(s string) float64 {
	if d := matchFloat(parenMillisRe, s, -1); d >= 0 {
		return d / 1000
	}
	if d := matchFloat(parenSecsRe, s, -1); d >= 0 {
		return d
	}
	return 0
}

// base64Decode decodes a standard base64 payload into text.
func base64Decode(s string) (string, error) {
	decoded, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return "", err
	}
	return string(decoded), nil
}

// executionError marks a result as failed with a truncated stderr excerpt
// when a non-zero exit produced no usable structured or textual summary.
func executionError(result *types.TestTypeResult, raw types.RawRunOutput) {
	if result.Passed == 0 && result.Failed == 0 && result.Skipped == 0 && len(result.Cases) == 0 {
		excerpt := stripANSI(raw.Stderr)
		if excerpt == "" {
			excerpt = stripANSI(raw.Stdout)
		}
		result.Error = truncate(excerpt, maxErrorLen)
	}
}
