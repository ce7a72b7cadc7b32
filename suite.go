package devsuite

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dashdev/devsuite/logging"
	"github.com/dashdev/devsuite/registry"
	"github.com/dashdev/devsuite/runner"
	"github.com/dashdev/devsuite/types"
)

// Service runs the test suite aggregation engine for one project: it owns
// the registry, the orchestrator and the scheduler, renders the console
// table after each run, and maps the final outcome onto an exit code.
type Service struct {
	config    *Config
	version   string
	registry  *registry.Registry
	scheduler SuiteScheduler
	formatter ResultFormatter

	result *types.TestSuiteResult

	shutdownCallback func(error)
}

// New creates the devsuite service.
func New(ctx context.Context, config *Config, version string, shutdownCallback func(error)) (*Service, error) {
	if config == nil {
		return nil, errors.New("config is required")
	}

	config.Log.Debug("Creating service",
		"projectDir", config.ProjectDir,
		"suiteConfig", config.SuiteConfig,
		"runInterval", config.RunInterval,
		"runOnce", config.RunOnce)

	reg, err := registry.NewRegistry(registry.Config{
		Log:            config.Log,
		ConfigFile:     config.SuiteConfig,
		DefaultTimeout: config.Timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create registry: %w", err)
	}

	return &Service{
		config:           config,
		version:          version,
		registry:         reg,
		scheduler:        NewIntervalScheduler(config.RunInterval, config.RunOnce, config.Log),
		formatter:        NewConsoleResultFormatter(nil),
		shutdownCallback: shutdownCallback,
	}, nil
}

// Start runs the suite immediately and, in continuous mode, at every
// interval thereafter.
func (s *Service) Start(ctx context.Context) error {
	s.scheduler.RegisterCallback(func() error {
		return s.runSuite(ctx)
	})

	if err := s.scheduler.Start(ctx); err != nil {
		return err
	}

	if s.config.RunOnce {
		if s.result != nil && !s.result.OverallSuccess {
			return NewTestFailureError(fmt.Sprintf("%d test(s) failed", s.result.TotalFailed))
		}
		go func() {
			s.shutdownCallback(nil)
		}()
	}
	return nil
}

// Stop stops the scheduler.
func (s *Service) Stop(ctx context.Context) error {
	if err := s.scheduler.Stop(); err != nil {
		return err
	}
	waitCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return s.scheduler.WaitForShutdown(waitCtx)
}

// Stopped reports whether the service has stopped.
func (s *Service) Stopped() bool {
	return s.scheduler.Stopped()
}

// Result returns the most recent suite result.
func (s *Service) Result() *types.TestSuiteResult {
	return s.result
}

// runSuite executes one full aggregation run. Individual type failures are
// encoded in the result; only infrastructure failures (artifact directory
// not writable, orchestrator misconfiguration) surface as errors.
func (s *Service) runSuite(ctx context.Context) error {
	runID := uuid.New().String()

	fileLogger, err := logging.NewFileLogger(s.config.LogDir, runID)
	if err != nil {
		return NewRuntimeError(fmt.Errorf("failed to create file logger: %w", err))
	}

	orch, err := runner.NewSuiteOrchestrator(runner.Config{
		Registry:       s.registry,
		ProjectDir:     s.config.ProjectDir,
		ProjectName:    s.projectName(),
		Log:            s.config.Log,
		DefaultTimeout: s.config.Timeout,
		FileLogger:     fileLogger,
	})
	if err != nil {
		return NewRuntimeError(fmt.Errorf("failed to create orchestrator: %w", err))
	}

	suite := orch.RunAll(ctx, s.config.TestTypes)
	s.result = suite

	if err := s.formatter.FormatResults(suite); err != nil {
		s.config.Log.Error("Failed to render results", "error", err)
	}
	if err := fileLogger.Complete(suite); err != nil {
		s.config.Log.Error("Failed to write run artifacts", "error", err)
	}
	s.config.Log.Info("Suite run complete",
		"run_id", suite.RunID,
		"passed", suite.TotalPassed,
		"failed", suite.TotalFailed,
		"success", suite.OverallSuccess,
		"artifacts", fileLogger.RunDir())
	return nil
}

func (s *Service) projectName() string {
	if name := s.registry.Project(); name != "" {
		return name
	}
	return s.config.ProjectName
}
