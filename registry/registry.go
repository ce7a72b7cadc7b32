// Package registry loads and validates the per-project test suite
// configuration: which test types the project declares, which framework
// kind each one uses, and how long it may run.
package registry

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"

	"github.com/dashdev/devsuite/types"
)

// Duration decodes yaml values like "5m" or "90s".
type Duration time.Duration

func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	parsed, err := time.ParseDuration(node.Value)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", node.Value, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the wrapped standard duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// TypeConfig declares one test type slot.
type TypeConfig struct {
	Name         string              `yaml:"name"`
	Kind         types.FrameworkKind `yaml:"kind"`
	Specs        []string            `yaml:"specs,omitempty"` // spec patterns, tried in order
	WithCoverage bool                `yaml:"coverage,omitempty"`
	Timeout      *Duration           `yaml:"timeout,omitempty"`
}

// SuiteConfig is the root of the suite configuration file.
type SuiteConfig struct {
	Project string       `yaml:"project,omitempty"`
	Types   []TypeConfig `yaml:"types"`
}

// Registry manages the declared test type slots for a project.
type Registry struct {
	config SuiteConfig
	byName map[string]TypeConfig
}

// Config contains registry construction options.
type Config struct {
	Log            *log.Logger
	ConfigFile     string // optional; defaults apply when empty
	DefaultTimeout time.Duration
}

// DefaultTypes is the type list used when a project ships no suite
// configuration: unit tests with coverage plus the three browser-automation
// categories, differing only in which spec files they target.
func DefaultTypes() []TypeConfig {
	return []TypeConfig{
		{Name: types.UnitTestType, Kind: types.FrameworkVitest, WithCoverage: true},
		{Name: "Smoke", Kind: types.FrameworkPlaywright, Specs: []string{"smoke.spec.ts"}},
		{Name: "E2E", Kind: types.FrameworkPlaywright, Specs: []string{"mes-system.spec.ts", "*.e2e.spec.ts"}},
		{Name: "UAT", Kind: types.FrameworkPlaywright, Specs: []string{"uat.spec.ts"}},
	}
}

// NewRegistry creates a registry from the given config file, or from the
// default type list when no file is configured.
func NewRegistry(cfg Config) (*Registry, error) {
	if cfg.Log == nil {
		cfg.Log = log.Default()
	}

	suiteCfg := SuiteConfig{Types: DefaultTypes()}
	if cfg.ConfigFile != "" {
		loaded, err := loadConfig(cfg.ConfigFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load suite config: %w", err)
		}
		suiteCfg = loaded
	}

	r := &Registry{
		config: suiteCfg,
		byName: make(map[string]TypeConfig, len(suiteCfg.Types)),
	}
	if err := r.validate(cfg.DefaultTimeout); err != nil {
		return nil, err
	}

	cfg.Log.Debug("Registry loaded", "types", len(r.config.Types), "configFile", cfg.ConfigFile)
	return r, nil
}

func loadConfig(path string) (SuiteConfig, error) {
	var cfg SuiteConfig
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return cfg, nil
}

func (r *Registry) validate(defaultTimeout time.Duration) error {
	if len(r.config.Types) == 0 {
		return fmt.Errorf("suite config declares no test types")
	}
	for i, tc := range r.config.Types {
		if tc.Name == "" {
			return fmt.Errorf("test type at index %d has no name", i)
		}
		if !tc.Kind.IsValid() {
			return fmt.Errorf("test type %q has unknown framework kind %q", tc.Name, tc.Kind)
		}
		if _, dup := r.byName[tc.Name]; dup {
			return fmt.Errorf("duplicate test type %q", tc.Name)
		}
		if tc.Timeout == nil && defaultTimeout > 0 {
			t := Duration(defaultTimeout)
			tc.Timeout = &t
		}
		r.byName[tc.Name] = tc
		r.config.Types[i] = tc
	}
	return nil
}

// Project returns the project name declared in the config, if any.
func (r *Registry) Project() string {
	return r.config.Project
}

// Types returns all declared type slots in declaration order.
func (r *Registry) Types() []TypeConfig {
	out := make([]TypeConfig, len(r.config.Types))
	copy(out, r.config.Types)
	return out
}

// TypeNames returns the declared type tags in declaration order.
func (r *Registry) TypeNames() []string {
	names := make([]string, 0, len(r.config.Types))
	for _, tc := range r.config.Types {
		names = append(names, tc.Name)
	}
	return names
}

// Lookup returns the slot for a type tag.
func (r *Registry) Lookup(name string) (TypeConfig, bool) {
	tc, ok := r.byName[name]
	return tc, ok
}
