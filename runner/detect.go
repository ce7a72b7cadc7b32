package runner

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dashdev/devsuite/registry"
	"github.com/dashdev/devsuite/types"
)

// Detector probes whether a framework is actually set up for a project.
// Probing is filesystem-only; no process is ever spawned for a type that
// turns out not to be configured.
type Detector struct {
	projectDir string
}

// NewDetector creates a detector rooted at the project directory.
func NewDetector(projectDir string) *Detector {
	return &Detector{projectDir: projectDir}
}

// packageManifest is the subset of package.json we probe.
type packageManifest struct {
	Dependencies    map[string]string `json:"dependencies"`
	DevDependencies map[string]string `json:"devDependencies"`
	Scripts         map[string]string `json:"scripts"`
}

// Probe reports whether the slot's framework is configured for the project.
// When it is not, the returned diagnostic explains what was missing.
func (d *Detector) Probe(tc registry.TypeConfig) (configured bool, diagnostic string, specPattern string) {
	switch tc.Kind {
	case types.FrameworkVitest, types.FrameworkJest:
		if d.hasNodeDependency(string(tc.Kind)) {
			return true, "", ""
		}
		return false, fmt.Sprintf("%s not declared in package.json", tc.Kind), ""

	case types.FrameworkPlaywright:
		if !d.hasPlaywright() {
			return false, "playwright not installed", ""
		}
		pattern, found := d.firstMatchingSpec(tc.Specs)
		if !found {
			return false, fmt.Sprintf("no spec files matching %v", tc.Specs), ""
		}
		return true, "", pattern

	case types.FrameworkPytest:
		if d.fileExists("pytest.ini") || d.fileExists("pyproject.toml") {
			return true, "", ""
		}
		return false, "no pytest configuration found", ""
	}
	return false, fmt.Sprintf("unknown framework kind %q", tc.Kind), ""
}

func (d *Detector) hasNodeDependency(name string) bool {
	manifest, err := d.readManifest()
	if err != nil {
		return false
	}
	if _, ok := manifest.Dependencies[name]; ok {
		return true
	}
	_, ok := manifest.DevDependencies[name]
	return ok
}

func (d *Detector) hasPlaywright() bool {
	if d.fileExists("playwright.config.ts") {
		return true
	}
	manifest, err := d.readManifest()
	if err != nil {
		return false
	}
	if _, ok := manifest.DevDependencies["@playwright/test"]; ok {
		return true
	}
	_, ok := manifest.Dependencies["@playwright/test"]
	return ok
}

// firstMatchingSpec returns the first pattern in order that matches at
// least one spec file under e2e/. E2E declares several naming patterns and
// falls through to the next when one finds nothing.
func (d *Detector) firstMatchingSpec(patterns []string) (string, bool) {
	if len(patterns) == 0 {
		return "", true // no pattern restriction; run everything
	}
	for _, pattern := range patterns {
		matches, err := filepath.Glob(filepath.Join(d.projectDir, "e2e", pattern))
		if err == nil && len(matches) > 0 {
			return pattern, true
		}
	}
	return "", false
}

func (d *Detector) readManifest() (packageManifest, error) {
	var manifest packageManifest
	data, err := os.ReadFile(filepath.Join(d.projectDir, "package.json"))
	if err != nil {
		return manifest, err
	}
	if err := json.Unmarshal(data, &manifest); err != nil {
		return manifest, err
	}
	return manifest, nil
}

func (d *Detector) fileExists(name string) bool {
	_, err := os.Stat(filepath.Join(d.projectDir, name))
	return err == nil
}
