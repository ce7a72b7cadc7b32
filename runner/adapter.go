package runner

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"path/filepath"

	"github.com/dashdev/devsuite/types"
)

// Adapter is the contract the orchestrator expects from the
// process-invocation collaborator: request in, captured output out.
// A returned error means the invocation itself could not complete
// (binary missing, I/O failure, deadline exceeded); a non-zero exit with
// captured output is not an error.
type Adapter interface {
	Run(ctx context.Context, req types.RunRequest) (types.RawRunOutput, error)
}

// execAdapter is the default exec-backed Adapter. It builds the
// conventional command line for each framework kind, runs it in the
// project directory and captures stdout and stderr separately. The
// context deadline is the sole timeout mechanism; when it fires the
// process is killed and the error reports context.DeadlineExceeded.
type execAdapter struct{}

// NewExecAdapter returns the default subprocess-backed adapter.
func NewExecAdapter() Adapter {
	return &execAdapter{}
}

func (a *execAdapter) Run(ctx context.Context, req types.RunRequest) (types.RawRunOutput, error) {
	name, args := commandFor(req)

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = req.ProjectDir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	raw := types.RawRunOutput{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}

	if err != nil {
		if ctx.Err() != nil {
			return raw, ctx.Err()
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			raw.ExitCode = exitErr.ExitCode()
			return raw, nil
		}
		return raw, err
	}
	return raw, nil
}

// commandFor maps a run request to the conventional invocation for its
// framework kind.
func commandFor(req types.RunRequest) (string, []string) {
	switch req.Kind {
	case types.FrameworkVitest:
		args := []string{"vitest", "run", "--reporter=json"}
		if req.WithCoverage {
			args = append(args, "--coverage")
		}
		return "npx", args
	case types.FrameworkJest:
		args := []string{"jest"}
		if req.WithCoverage {
			args = append(args, "--coverage")
		}
		return "npx", args
	case types.FrameworkPlaywright:
		args := []string{"playwright", "test"}
		if req.SpecPattern != "" {
			args = append(args, filepath.Join("e2e", req.SpecPattern))
		}
		args = append(args, "--reporter=json")
		return "npx", args
	case types.FrameworkPytest:
		if req.WithCoverage {
			return "python", []string{"-m", "pytest", "--cov", "--cov-report=term"}
		}
		return "python", []string{"-m", "pytest", "-v"}
	}
	return "", nil
}
