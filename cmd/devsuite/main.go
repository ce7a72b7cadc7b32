package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v2"

	devsuite "github.com/dashdev/devsuite"
	"github.com/dashdev/devsuite/exitcodes"
	"github.com/dashdev/devsuite/flags"
	"github.com/dashdev/devsuite/service"
)

var (
	Version   = "v0.3.0"
	GitCommit = ""
	GitDate   = ""
)

func main() {
	app := cli.NewApp()
	app.Version = fmt.Sprintf("%s-%s-%s", Version, GitCommit, GitDate)
	app.Name = "devsuite"
	app.Usage = "Test suite aggregation for fleet projects"
	app.Description = "devsuite runs a project's unit and browser-automation test frameworks and rolls their results up into a single verdict"
	app.Flags = flags.Flags
	app.Action = run
	app.ExitErrHandler = func(c *cli.Context, err error) {
		var exitErr cli.ExitCoder
		if errors.As(err, &exitErr) {
			cli.HandleExitCoder(exitErr)
		} else if err != nil {
			if devsuite.IsRuntimeError(err) {
				cli.HandleExitCoder(cli.Exit(err.Error(), exitcodes.RuntimeErr))
			} else if devsuite.IsTestFailureError(err) {
				cli.HandleExitCoder(cli.Exit(err.Error(), exitcodes.TestFailure))
			} else {
				cli.HandleExitCoder(cli.Exit(err.Error(), exitcodes.TestFailure))
			}
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.RunContext(ctx, os.Args); err != nil {
		log.Fatal("Application failed", "message", err)
	}
}

func run(ctx *cli.Context) error {
	logger := newLogger(ctx.String(flags.LogLevel.Name))

	cfg, err := devsuite.NewConfig(ctx, logger, ctx.String(flags.ProjectDir.Name))
	if err != nil {
		return devsuite.NewRuntimeError(fmt.Errorf("failed to create config: %w", err))
	}

	if cfg.Serve {
		svc := service.New()
		svc.Start(ctx.Context)
		defer svc.Shutdown()
	}

	done := make(chan error, 1)
	shutdown := func(err error) {
		done <- err
	}

	suiteService, err := devsuite.New(ctx.Context, cfg, Version, shutdown)
	if err != nil {
		return devsuite.NewRuntimeError(fmt.Errorf("failed to create service: %w", err))
	}

	if err := suiteService.Start(ctx.Context); err != nil {
		return err
	}

	if cfg.RunOnce {
		// Start already returned the verdict; nothing left to wait for.
		return nil
	}

	select {
	case err := <-done:
		return err
	case <-ctx.Context.Done():
		logger.Info("Shutting down")
		return suiteService.Stop(context.Background())
	}
}

func newLogger(level string) *log.Logger {
	parsed, err := log.ParseLevel(level)
	if err != nil {
		parsed = log.InfoLevel
	}
	return log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Level:           parsed,
	})
}
