// Package devsuite wires the test suite aggregation engine into a
// runnable service: configuration, scheduling, console output and exit
// code mapping.
package devsuite

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v2"

	"github.com/dashdev/devsuite/flags"
)

// Config holds the application configuration.
type Config struct {
	ProjectDir  string        // Project the suite runs against
	ProjectName string        // Display name, defaults to the directory base name
	SuiteConfig string        // Optional suite config file
	TestTypes   []string      // Requested type tags in order; empty means all declared
	Timeout     time.Duration // Per-type timeout override
	RunInterval time.Duration // Interval between suite runs
	RunOnce     bool          // Exit after one suite run
	LogDir      string        // Directory for run artifacts
	Serve       bool          // Expose healthz/metrics endpoints
	Log         *log.Logger
}

// NewConfig creates a Config from the cli context.
func NewConfig(ctx *cli.Context, logger *log.Logger, projectDir string) (*Config, error) {
	if err := flags.CheckRequired(ctx); err != nil {
		return nil, fmt.Errorf("missing required flags: %w", err)
	}
	if projectDir == "" {
		return nil, errors.New("project directory is required")
	}

	absProjectDir, err := filepath.Abs(projectDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve absolute path for project '%s': %w", projectDir, err)
	}

	suiteConfig := ctx.String(flags.SuiteConfig.Name)
	if suiteConfig != "" {
		suiteConfig, err = filepath.Abs(suiteConfig)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve absolute path for suite config '%s': %w", suiteConfig, err)
		}
	}

	logDir, err := filepath.Abs(ctx.String(flags.LogDir.Name))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve absolute path for log directory: %w", err)
	}

	runInterval := ctx.Duration(flags.RunInterval.Name)

	return &Config{
		ProjectDir:  absProjectDir,
		ProjectName: filepath.Base(absProjectDir),
		SuiteConfig: suiteConfig,
		TestTypes:   ctx.StringSlice(flags.TestTypes.Name),
		Timeout:     ctx.Duration(flags.Timeout.Name),
		RunInterval: runInterval,
		RunOnce:     runInterval == 0,
		LogDir:      logDir,
		Serve:       ctx.Bool(flags.Serve.Name),
		Log:         logger,
	}, nil
}
