// Package config loads the execution-environment configuration the
// binder needs (spec.md §6 "Execution environment"). Configuration is
// decoded from an optional YAML file with github.com/mna/pybind's
// usual precedence: file values first, then environment-variable
// overrides, matching the teacher's own layered approach to runtime
// configuration.
package config

import (
	"fmt"
	"os"

	"github.com/caarlos0/env/v6"
	"gopkg.in/yaml.v3"

	"github.com/mna/pybind/binder"
)

// Config is the root configuration document. PythonVersion, Platform and
// NotebookMode are copied into the binder's ExecutionEnvironment, where
// only NotebookMode changes binding results (spec.md §6); SearchPaths and
// StubPaths configure the import resolver's search behavior.
type Config struct {
	PythonVersion string   `yaml:"pythonVersion" env:"PYBIND_PYTHON_VERSION"`
	Platform      string   `yaml:"platform" env:"PYBIND_PLATFORM"`
	SearchPaths   []string `yaml:"searchPaths" env:"PYBIND_SEARCH_PATHS" envSeparator:","`
	StubPaths     []string `yaml:"stubPaths" env:"PYBIND_STUB_PATHS" envSeparator:","`

	// NotebookMode relaxes await/async-for/async-with placement errors at
	// module level, matching an IPython/Jupyter cell's execution model
	// (spec.md §6 "ipython-mode flag").
	NotebookMode bool `yaml:"notebookMode" env:"PYBIND_NOTEBOOK_MODE"`
}

// Load reads path (if non-empty and the file exists) as YAML, then
// applies environment-variable overrides on top (spec.md ambient stack:
// config layer mirrors the teacher's pattern of a declarative file plus
// env escape hatches for CI/container use).
func Load(path string) (*Config, error) {
	cfg := &Config{PythonVersion: "3.12", Platform: "linux"}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("config: reading %s: %w", path, err)
		}
		if err == nil {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("config: parsing %s: %w", path, err)
			}
		}
	}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: applying environment overrides: %w", err)
	}
	return cfg, nil
}

// ExecutionEnvironment translates the decoded configuration into the
// binder's own small ExecutionEnvironment value.
func (c *Config) ExecutionEnvironment() *binder.ExecutionEnvironment {
	env := &binder.ExecutionEnvironment{Platform: c.Platform, NotebookMode: c.NotebookMode}
	var major, minor int
	if n, _ := fmt.Sscanf(c.PythonVersion, "%d.%d", &major, &minor); n == 2 {
		env.PythonVersion = [2]int{major, minor}
	}
	return env
}
