package parser

import (
	"regexp"

	"github.com/dashdev/devsuite/types"
)

// lineParser handles legacy runners with no machine-readable mode. Counts
// and, where present, a coverage percentage are regex-extracted from the
// fixed-format summary; no per-case detail is available, so Cases stays
// empty and downstream consumers must rely on counts only.
type lineParser struct {
	kind types.FrameworkKind
}

var (
	jestTestsLineRe  = regexp.MustCompile(`Tests:\s+(\d+) passed`)
	jestTimeRe       = regexp.MustCompile(`Time:\s+([\d.]+)\s*s`)
	pytestCoverageRe = regexp.MustCompile(`TOTAL\s+\d+\s+\d+\s+(\d+)%`)
	pytestInSecsRe   = regexp.MustCompile(`in ([\d.]+)s`)
)

func (p *lineParser) Parse(raw types.RawRunOutput, testType string) types.TestTypeResult {
	result := types.TestTypeResult{
		Type:       testType,
		Kind:       p.kind,
		Success:    raw.ExitCode == 0,
		Configured: true,
		ParsedVia:  types.ParsedFallback,
	}

	clean := stripANSI(combinedOutput(raw))

	switch p.kind {
	case types.FrameworkJest:
		if n := matchInt(jestTestsLineRe, clean, -1); n >= 0 {
			result.Passed = n
		} else {
			result.Passed = matchInt(passedCountRe, clean, 0)
		}
		result.Failed = matchInt(failedCountRe, clean, 0)
		result.Skipped = matchInt(skippedCountRe, clean, 0)
		result.Coverage = matchFloat(coverageAllFilesRe, clean, 0)
		result.Duration = matchFloat(jestTimeRe, clean, 0)
	default:
		// pytest and anything else line-oriented
		result.Passed = matchInt(passedCountRe, clean, 0)
		result.Failed = matchInt(failedCountRe, clean, 0)
		result.Skipped = matchInt(skippedCountRe, clean, 0)
		result.Coverage = matchFloat(pytestCoverageRe, clean, 0)
		result.Duration = matchFloat(pytestInSecsRe, clean, 0)
	}

	if !result.Success {
		executionError(&result, raw)
	}
	return result
}
