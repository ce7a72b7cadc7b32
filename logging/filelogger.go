// Package logging persists per-run artifacts: raw runner output per test
// type, per-type normalized results, and the end-of-run summary files.
package logging

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/dashdev/devsuite/reporting"
	"github.com/dashdev/devsuite/types"
)

// RunDirectoryPrefix is the standardized prefix for run directories.
const RunDirectoryPrefix = "testrun-"

// FileLogger writes suite run artifacts under <baseDir>/testrun-<runID>/.
type FileLogger struct {
	baseDir string
	runID   string
	mu      sync.Mutex
	sinks   []reporting.ReportSink
}

// NewFileLogger creates a file logger for one run. The run directory is
// created eagerly so partial runs still leave their artifacts behind.
func NewFileLogger(baseDir, runID string) (*FileLogger, error) {
	if baseDir == "" {
		return nil, fmt.Errorf("base directory is required")
	}
	if runID == "" {
		return nil, fmt.Errorf("run ID is required")
	}

	fl := &FileLogger{baseDir: baseDir, runID: runID}
	if err := os.MkdirAll(fl.RunDir(), 0755); err != nil {
		return nil, fmt.Errorf("failed to create run directory %s: %w", fl.RunDir(), err)
	}

	fl.sinks = []reporting.ReportSink{
		reporting.NewJSONSink(filepath.Join(fl.RunDir(), "report.json")),
		reporting.NewTextSummarySink(filepath.Join(fl.RunDir(), "summary.log")),
	}
	return fl, nil
}

// GetRunID returns the run ID this logger writes under.
func (fl *FileLogger) GetRunID() string {
	return fl.runID
}

// RunDir returns the directory all artifacts for this run land in.
func (fl *FileLogger) RunDir() string {
	return filepath.Join(fl.baseDir, RunDirectoryPrefix+fl.runID)
}

// SaveRawOutput persists the captured stdout/stderr of one runner
// invocation, one file per stream.
func (fl *FileLogger) SaveRawOutput(testType string, raw types.RawRunOutput) error {
	fl.mu.Lock()
	defer fl.mu.Unlock()

	base := sanitizeFilename(testType)
	if raw.Stdout != "" {
		if err := os.WriteFile(filepath.Join(fl.RunDir(), base+".stdout.log"), []byte(raw.Stdout), 0644); err != nil {
			return fmt.Errorf("failed to write stdout log: %w", err)
		}
	}
	if raw.Stderr != "" {
		if err := os.WriteFile(filepath.Join(fl.RunDir(), base+".stderr.log"), []byte(raw.Stderr), 0644); err != nil {
			return fmt.Errorf("failed to write stderr log: %w", err)
		}
	}
	return nil
}

// SaveTypeResult persists the normalized result of one test type.
func (fl *FileLogger) SaveTypeResult(result types.TestTypeResult) error {
	fl.mu.Lock()
	defer fl.mu.Unlock()

	encoded, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode result for %s: %w", result.Type, err)
	}
	path := filepath.Join(fl.RunDir(), sanitizeFilename(result.Type)+".result.json")
	if err := os.WriteFile(path, encoded, 0644); err != nil {
		return fmt.Errorf("failed to write result file %s: %w", path, err)
	}
	return nil
}

// Complete writes the end-of-run summary artifacts through the configured
// sinks.
func (fl *FileLogger) Complete(suite *types.TestSuiteResult) error {
	fl.mu.Lock()
	defer fl.mu.Unlock()

	for _, sink := range fl.sinks {
		if err := sink.Write(suite); err != nil {
			return err
		}
	}
	return nil
}

// sanitizeFilename keeps artifact names filesystem-safe.
func sanitizeFilename(name string) string {
	replacer := strings.NewReplacer("/", "_", "\\", "_", " ", "_", ":", "_")
	return replacer.Replace(name)
}
