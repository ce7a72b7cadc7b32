// Package flags defines the CLI flags for devsuite.
package flags

import (
	"fmt"

	"github.com/urfave/cli/v2"
)

const EnvVarPrefix = "DEVSUITE"

func prefixEnvVars(name string) []string {
	return []string{EnvVarPrefix + "_" + name}
}

var (
	ProjectDir = &cli.StringFlag{
		Name:     "project",
		Value:    "",
		Required: true,
		EnvVars:  prefixEnvVars("PROJECT"),
		Usage:    "Path to the project to run the test suite against",
	}
	SuiteConfig = &cli.StringFlag{
		Name:    "suite-config",
		Value:   "",
		EnvVars: prefixEnvVars("SUITE_CONFIG"),
		Usage:   "Path to suite config file (eg. 'devsuite.yaml'); defaults apply when omitted",
	}
	TestTypes = &cli.StringSliceFlag{
		Name:    "types",
		EnvVars: prefixEnvVars("TYPES"),
		Usage:   "Test types to run, in order (eg. 'UIT,Smoke,E2E,UAT'); all declared types when omitted",
	}
	Timeout = &cli.DurationFlag{
		Name:    "timeout",
		Value:   0,
		EnvVars: prefixEnvVars("TIMEOUT"),
		Usage:   "Per-type execution timeout; per-kind defaults apply when omitted",
	}
	RunInterval = &cli.DurationFlag{
		Name:    "run-interval",
		Value:   0,
		EnvVars: prefixEnvVars("RUN_INTERVAL"),
		Usage:   "Interval between suite runs (e.g. '1h', '30m'). Set to 0 or omit for run-once mode.",
	}
	LogDir = &cli.StringFlag{
		Name:    "logdir",
		Value:   "logs",
		EnvVars: prefixEnvVars("LOGDIR"),
		Usage:   "Directory to store run artifacts and reports",
	}
	LogLevel = &cli.StringFlag{
		Name:    "log-level",
		Value:   "info",
		EnvVars: prefixEnvVars("LOG_LEVEL"),
		Usage:   "Log level (debug, info, warn, error)",
	}
	Serve = &cli.BoolFlag{
		Name:    "serve",
		Value:   false,
		EnvVars: prefixEnvVars("SERVE"),
		Usage:   "Expose healthz and prometheus metrics endpoints (continuous mode)",
	}
)

var requiredFlags = []cli.Flag{
	ProjectDir,
}

var optionalFlags = []cli.Flag{
	SuiteConfig,
	TestTypes,
	Timeout,
	RunInterval,
	LogDir,
	LogLevel,
	Serve,
}

var Flags []cli.Flag

func init() {
	Flags = append(requiredFlags, optionalFlags...)
}

func CheckRequired(ctx *cli.Context) error {
	for _, f := range requiredFlags {
		if !ctx.IsSet(f.Names()[0]) {
			return fmt.Errorf("flag %s is required", f.Names()[0])
		}
	}
	return nil
}
