package reporting

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dashdev/devsuite/types"
)

// JSONSink writes the full report, including per-case detail, as an
// indented JSON document.
type JSONSink struct {
	path string
}

// NewJSONSink creates a sink writing to the given file path.
func NewJSONSink(path string) *JSONSink {
	return &JSONSink{path: path}
}

func (s *JSONSink) Write(suite *types.TestSuiteResult) error {
	data := NewReportData(suite, true)

	encoded, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create report directory %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(s.path, encoded, 0644); err != nil {
		return fmt.Errorf("failed to write report file %s: %w", s.path, err)
	}
	return nil
}
