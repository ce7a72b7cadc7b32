package devsuite

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) *Config {
	t.Helper()
	return &Config{
		ProjectDir:  t.TempDir(), // no frameworks installed
		ProjectName: "bare-project",
		RunOnce:     true,
		LogDir:      t.TempDir(),
		Log:         log.New(io.Discard),
	}
}

func TestNew_RequiresConfig(t *testing.T) {
	_, err := New(context.Background(), nil, "v0.0.0", func(error) {})
	assert.ErrorContains(t, err, "config is required")
}

func TestService_RunOnceWithNothingConfigured(t *testing.T) {
	shutdown := make(chan error, 1)
	svc, err := New(context.Background(), testConfig(t), "v0.0.0", func(err error) {
		shutdown <- err
	})
	require.NoError(t, err)

	var buf bytes.Buffer
	svc.formatter = NewConsoleResultFormatter(&buf)

	require.NoError(t, svc.Start(context.Background()))

	select {
	case err := <-shutdown:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("shutdown callback was never invoked")
	}

	result := svc.Result()
	require.NotNil(t, result)
	assert.True(t, result.OverallSuccess)
	assert.Zero(t, result.ConfiguredCount())
	assert.Contains(t, buf.String(), "No test frameworks configured for this project")
}

func TestService_StopAfterStart(t *testing.T) {
	svc, err := New(context.Background(), testConfig(t), "v0.0.0", func(error) {})
	require.NoError(t, err)
	svc.formatter = NewConsoleResultFormatter(io.Discard)

	require.NoError(t, svc.Start(context.Background()))
	require.NoError(t, svc.Stop(context.Background()))
	assert.True(t, svc.Stopped())
}

func TestRuntimeError(t *testing.T) {
	inner := errors.New("cannot read project directory")
	err := NewRuntimeError(inner)

	assert.True(t, IsRuntimeError(err))
	assert.True(t, IsRuntimeError(fmt.Errorf("wrapped: %w", err)))
	assert.False(t, IsRuntimeError(inner))
	assert.False(t, IsRuntimeError(nil))
	assert.ErrorIs(t, err, inner)
}

func TestTestFailureError(t *testing.T) {
	err := NewTestFailureError("3 test(s) failed")

	assert.True(t, IsTestFailureError(err))
	assert.True(t, IsTestFailureError(fmt.Errorf("wrapped: %w", err)))
	assert.False(t, IsTestFailureError(errors.New("plain")))
	assert.Contains(t, err.Error(), "3 test(s) failed")
}
