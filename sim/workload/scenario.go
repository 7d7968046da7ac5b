package workload

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/plantfloor/floorsim/sim"
)

// Scenario is a YAML description of a run: engine settings plus either inline
// jobs and resources or references to article/workstation files.
// Relative file references resolve against the scenario file's directory.
type Scenario struct {
	Policy       string        `yaml:"policy"`
	Workers      int           `yaml:"workers"`
	DrainTimeout time.Duration `yaml:"drain_timeout"`

	Jobs      []sim.JobSpec      `yaml:"jobs"`
	Resources []sim.ResourceSpec `yaml:"resources"`

	ArticlesFile     string `yaml:"articles_file"`
	WorkstationsFile string `yaml:"workstations_file"`

	dir string // directory of the scenario file, for relative references
}

// LoadScenario reads and strictly decodes a scenario file. Unknown keys are an error.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario: %w", err)
	}
	sc, err := ParseScenario(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	sc.dir = filepath.Dir(path)
	return sc, nil
}

// ParseScenario decodes and validates scenario YAML.
func ParseScenario(data []byte) (*Scenario, error) {
	var sc Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&sc); err != nil {
		return nil, fmt.Errorf("parsing scenario: %w", err)
	}
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	return &sc, nil
}

// Validate checks settings that can be judged without reading referenced files.
func (s *Scenario) Validate() error {
	if !sim.IsValidDispatchPolicy(s.Policy) {
		return fmt.Errorf("unknown policy %q; valid: fifo, priority: %w", s.Policy, sim.ErrUnknownPolicy)
	}
	if s.Workers < 0 {
		return fmt.Errorf("workers must be non-negative, got %d", s.Workers)
	}
	if s.DrainTimeout < 0 {
		return fmt.Errorf("drain_timeout must be non-negative, got %s", s.DrainTimeout)
	}
	if len(s.Jobs) > 0 && s.ArticlesFile != "" {
		return fmt.Errorf("jobs and articles_file are mutually exclusive")
	}
	if len(s.Resources) > 0 && s.WorkstationsFile != "" {
		return fmt.Errorf("resources and workstations_file are mutually exclusive")
	}
	return nil
}

// Config returns the engine settings carried by the scenario.
func (s *Scenario) Config() sim.Config {
	return sim.Config{
		Policy:       sim.DispatchPolicy(s.Policy),
		Workers:      s.Workers,
		DrainTimeout: s.DrainTimeout,
	}
}

// Resolve returns the scenario's jobs and resources, reading referenced files.
func (s *Scenario) Resolve() (*Input, error) {
	in := &Input{Jobs: s.Jobs, Resources: s.Resources}
	if s.ArticlesFile != "" {
		jobs, err := LoadArticles(s.path(s.ArticlesFile))
		if err != nil {
			return nil, err
		}
		in.Jobs = jobs
	}
	if s.WorkstationsFile != "" {
		resources, err := LoadWorkstations(s.path(s.WorkstationsFile))
		if err != nil {
			return nil, err
		}
		in.Resources = resources
	}
	return in, nil
}

// Files lists the files the scenario depends on, resolved.
func (s *Scenario) Files() []string {
	var out []string
	for _, f := range []string{s.ArticlesFile, s.WorkstationsFile} {
		if f != "" {
			out = append(out, s.path(f))
		}
	}
	return out
}

func (s *Scenario) path(p string) string {
	if filepath.IsAbs(p) || s.dir == "" {
		return p
	}
	return filepath.Join(s.dir, p)
}
