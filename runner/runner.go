// Package runner sequences the requested test types to completion and
// assembles the aggregate suite result. One type's failure, timeout or
// absence never aborts the others.
package runner

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/dashdev/devsuite/logging"
	"github.com/dashdev/devsuite/metrics"
	"github.com/dashdev/devsuite/parser"
	"github.com/dashdev/devsuite/registry"
	"github.com/dashdev/devsuite/types"
)

// Per-kind timeout floors used when neither the slot nor the caller set
// one. Browser-automation kinds pay browser-launch latency on top of the
// tests themselves, so they get a longer bound.
const (
	DefaultUnitTimeout    = 3 * time.Minute
	DefaultBrowserTimeout = 5 * time.Minute
)

// timeoutError is the diagnostic recorded when a type exceeds its time bound.
const timeoutError = "timeout"

// SuiteOrchestrator runs a caller-specified ordered list of test types
// strictly sequentially and rolls the outcomes up into a TestSuiteResult.
type SuiteOrchestrator interface {
	RunAll(ctx context.Context, typeTags []string) *types.TestSuiteResult
}

type orchestrator struct {
	registry       *registry.Registry
	detector       *Detector
	adapter        Adapter
	log            *log.Logger
	projectDir     string
	projectName    string
	defaultTimeout time.Duration
	fileLogger     *logging.FileLogger
}

// Config holds configuration for creating a new orchestrator.
type Config struct {
	Registry       *registry.Registry
	Adapter        Adapter
	ProjectDir     string
	ProjectName    string
	Log            *log.Logger
	DefaultTimeout time.Duration       // optional; per-kind floors apply when zero
	FileLogger     *logging.FileLogger // optional; raw runner output is persisted when set
}

// NewSuiteOrchestrator creates a new orchestrator instance.
func NewSuiteOrchestrator(cfg Config) (SuiteOrchestrator, error) {
	if cfg.Registry == nil {
		return nil, fmt.Errorf("registry is required")
	}
	if cfg.ProjectDir == "" {
		return nil, fmt.Errorf("project directory is required")
	}
	if cfg.Adapter == nil {
		cfg.Adapter = NewExecAdapter()
	}
	if cfg.Log == nil {
		cfg.Log = log.Default()
	}

	return &orchestrator{
		registry:       cfg.Registry,
		detector:       NewDetector(cfg.ProjectDir),
		adapter:        cfg.Adapter,
		log:            cfg.Log,
		projectDir:     cfg.ProjectDir,
		projectName:    cfg.ProjectName,
		defaultTimeout: cfg.DefaultTimeout,
		fileLogger:     cfg.FileLogger,
	}, nil
}

// RunAll implements the SuiteOrchestrator interface. It never returns an
// error: every failure mode of an individual type (not configured, timed
// out, execution error, unparseable output) is encoded inside the returned
// suite result.
func (o *orchestrator) RunAll(ctx context.Context, typeTags []string) *types.TestSuiteResult {
	if len(typeTags) == 0 {
		typeTags = o.registry.TypeNames()
	}

	// Use the file logger's run ID when one is attached so artifacts and
	// results correlate; otherwise mint a fresh one.
	runID := uuid.New().String()
	if o.fileLogger != nil {
		runID = o.fileLogger.GetRunID()
	}

	suite := &types.TestSuiteResult{
		Project:   o.projectName,
		RunID:     runID,
		Timestamp: time.Now(),
		Results:   make(map[string]types.TestTypeResult),
	}
	o.log.Debug("Running test suite", "run_id", suite.RunID, "types", typeTags)

	for _, tag := range typeTags {
		slot, ok := o.registry.Lookup(tag)
		if !ok {
			o.log.Warn("Skipping unknown test type", "type", tag)
			continue
		}

		result := o.runType(ctx, slot)
		suite.Append(result)
		metrics.RecordTypeResult(o.projectName, result)

		if o.fileLogger != nil {
			if err := o.fileLogger.SaveTypeResult(result); err != nil {
				o.log.Error("Failed to persist type result", "type", tag, "error", err)
			}
		}
	}

	ApplyRollup(suite)
	metrics.RecordSuiteResult(o.projectName, suite.RunID, suite)
	return suite
}

// runType drives one slot through the per-type state machine:
// Detecting -> Running -> Completed, or straight to Skipped(notConfigured)
// without spawning anything.
func (o *orchestrator) runType(ctx context.Context, slot registry.TypeConfig) types.TestTypeResult {
	configured, diagnostic, specPattern := o.detector.Probe(slot)
	if !configured {
		o.log.Info("Test type not configured, skipping", "type", slot.Name, "reason", diagnostic)
		result := types.NotConfigured(slot.Name, diagnostic)
		result.Kind = slot.Kind
		return result
	}

	timeout := o.timeoutFor(slot)
	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req := types.RunRequest{
		Type:         slot.Name,
		Kind:         slot.Kind,
		ProjectDir:   o.projectDir,
		SpecPattern:  specPattern,
		WithCoverage: slot.WithCoverage,
		Timeout:      timeout,
	}

	o.log.Info("Running test type", "type", slot.Name, "kind", slot.Kind, "timeout", timeout)
	start := time.Now()
	raw, err := o.adapter.Run(runCtx, req)
	elapsed := time.Since(start)

	if err != nil {
		return o.failedRun(slot, err, elapsed)
	}

	result := parser.Parse(raw, slot.Kind, slot.Name)
	o.log.Info("Test type completed",
		"type", slot.Name,
		"passed", result.Passed,
		"failed", result.Failed,
		"skipped", result.Skipped,
		"success", result.Success,
		"duration", elapsed)

	if o.fileLogger != nil {
		if err := o.fileLogger.SaveRawOutput(slot.Name, raw); err != nil {
			o.log.Error("Failed to persist raw output", "type", slot.Name, "error", err)
		}
	}
	return result
}

// failedRun encodes an invocation failure. A deadline hit becomes a
// timeout diagnostic and is not retried; anything else carries the
// execution error message.
func (o *orchestrator) failedRun(slot registry.TypeConfig, err error, elapsed time.Duration) types.TestTypeResult {
	result := types.TestTypeResult{
		Type:       slot.Name,
		Kind:       slot.Kind,
		Success:    false,
		Configured: true,
		Duration:   elapsed.Seconds(),
	}
	if errors.Is(err, context.DeadlineExceeded) {
		o.log.Warn("Test type timed out", "type", slot.Name, "elapsed", elapsed)
		result.Error = timeoutError
	} else {
		o.log.Error("Test type execution failed", "type", slot.Name, "error", err)
		result.Error = err.Error()
	}
	return result
}

func (o *orchestrator) timeoutFor(slot registry.TypeConfig) time.Duration {
	if slot.Timeout != nil && slot.Timeout.Std() > 0 {
		return slot.Timeout.Std()
	}
	if o.defaultTimeout > 0 {
		return o.defaultTimeout
	}
	if slot.Kind == types.FrameworkPlaywright {
		return DefaultBrowserTimeout
	}
	return DefaultUnitTimeout
}
