package registry

import (
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dashdev/devsuite/types"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "suite.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func quietLogger() *log.Logger {
	return log.New(io.Discard)
}

func TestNewRegistry_Defaults(t *testing.T) {
	reg, err := NewRegistry(Config{Log: quietLogger()})
	require.NoError(t, err)

	assert.Equal(t, []string{types.UnitTestType, "Smoke", "E2E", "UAT"}, reg.TypeNames())

	unit, ok := reg.Lookup(types.UnitTestType)
	require.True(t, ok)
	assert.Equal(t, types.FrameworkVitest, unit.Kind)
	assert.True(t, unit.WithCoverage)

	e2e, ok := reg.Lookup("E2E")
	require.True(t, ok)
	assert.Equal(t, []string{"mes-system.spec.ts", "*.e2e.spec.ts"}, e2e.Specs)
}

func TestNewRegistry_LoadsConfigFile(t *testing.T) {
	path := writeConfig(t, `
project: warehouse-ui
types:
  - name: UIT
    kind: vitest
    coverage: true
    timeout: 90s
  - name: API
    kind: pytest
`)

	reg, err := NewRegistry(Config{Log: quietLogger(), ConfigFile: path})
	require.NoError(t, err)

	assert.Equal(t, "warehouse-ui", reg.Project())
	assert.Equal(t, []string{"UIT", "API"}, reg.TypeNames())

	unit, ok := reg.Lookup("UIT")
	require.True(t, ok)
	require.NotNil(t, unit.Timeout)
	assert.Equal(t, 90*time.Second, unit.Timeout.Std())

	api, ok := reg.Lookup("API")
	require.True(t, ok)
	assert.Nil(t, api.Timeout)
	assert.Equal(t, types.FrameworkPytest, api.Kind)
}

func TestNewRegistry_DurationDecoding(t *testing.T) {
	path := writeConfig(t, `
types:
  - name: UIT
    kind: vitest
    timeout: 10ms
`)

	reg, err := NewRegistry(Config{Log: quietLogger(), ConfigFile: path})
	require.NoError(t, err)

	unit, _ := reg.Lookup("UIT")
	require.NotNil(t, unit.Timeout)
	assert.Equal(t, 10*time.Millisecond, unit.Timeout.Std())
}

func TestNewRegistry_InvalidDuration(t *testing.T) {
	path := writeConfig(t, `
types:
  - name: UIT
    kind: vitest
    timeout: not-a-duration
`)

	_, err := NewRegistry(Config{Log: quietLogger(), ConfigFile: path})
	assert.ErrorContains(t, err, "invalid duration")
}

func TestNewRegistry_DefaultTimeoutInjection(t *testing.T) {
	path := writeConfig(t, `
types:
  - name: UIT
    kind: vitest
  - name: Smoke
    kind: playwright
    timeout: 2m
`)

	reg, err := NewRegistry(Config{
		Log:            quietLogger(),
		ConfigFile:     path,
		DefaultTimeout: 45 * time.Second,
	})
	require.NoError(t, err)

	unit, _ := reg.Lookup("UIT")
	require.NotNil(t, unit.Timeout)
	assert.Equal(t, 45*time.Second, unit.Timeout.Std())

	// explicit per-type timeout is not overridden
	smoke, _ := reg.Lookup("Smoke")
	require.NotNil(t, smoke.Timeout)
	assert.Equal(t, 2*time.Minute, smoke.Timeout.Std())
}

func TestNewRegistry_ValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		config  string
		wantErr string
	}{
		{
			name:    "no types",
			config:  "types: []\n",
			wantErr: "no test types",
		},
		{
			name: "missing name",
			config: `
types:
  - kind: vitest
`,
			wantErr: "has no name",
		},
		{
			name: "unknown kind",
			config: `
types:
  - name: UIT
    kind: mocha
`,
			wantErr: "unknown framework kind",
		},
		{
			name: "duplicate type",
			config: `
types:
  - name: UIT
    kind: vitest
  - name: UIT
    kind: jest
`,
			wantErr: "duplicate test type",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, tt.config)
			_, err := NewRegistry(Config{Log: quietLogger(), ConfigFile: path})
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestNewRegistry_MissingFile(t *testing.T) {
	_, err := NewRegistry(Config{
		Log:        quietLogger(),
		ConfigFile: filepath.Join(t.TempDir(), "absent.yaml"),
	})
	assert.ErrorContains(t, err, "failed to load suite config")
}
