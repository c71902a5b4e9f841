package suite

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/codalotl/agent-evals/internal/gate"
	"github.com/codalotl/agent-evals/internal/target"
)

// TargetSpec is the YAML-declarable form of a target. Only the exec
// adapter is expressible this way; when a file declares one, Apply uses
// it in place of any Go-defined Target.
type TargetSpec struct {
	Command   string `yaml:"command"`
	Dir       string `yaml:"dir"`
	ParseJSON bool   `yaml:"parseJson"`
}

// Build resolves a TargetSpec into a runnable Target.
func (t TargetSpec) Build() Target {
	return target.Exec(target.ExecOptions{CommandTemplate: t.Command, Dir: t.Dir, ParseJSON: t.ParseJSON})
}

// FileConfig is the structural part of a Suite that can be expressed in
// YAML: its name, where to load cases from, its gate thresholds, its
// judge rate limit, its target command, and its default graders.
type FileConfig struct {
	Name               string       `yaml:"name"`
	CasesSource        string       `yaml:"cases"`
	PassRate           *float64     `yaml:"passRate"`
	MaxCost            *float64     `yaml:"maxCost"`
	P95LatencyMs       *float64     `yaml:"p95LatencyMs"`
	RateLimitPerSecond float64      `yaml:"rateLimitPerSecond"`
	Target             *TargetSpec  `yaml:"target"`
	Graders            []GraderSpec `yaml:"graders"`
}

// LoadFileConfig reads a suite.yml's structural fields.
func LoadFileConfig(path string) (FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return FileConfig{}, fmt.Errorf("suite: reading %s: %w", path, err)
	}
	var cfg FileConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return FileConfig{}, fmt.Errorf("suite: parsing %s: %w", path, err)
	}
	if cfg.Name == "" {
		return FileConfig{}, fmt.Errorf("suite: %s: missing required field %q", path, "name")
	}
	return cfg, nil
}

// Gate converts the YAML gate fields into a gate.Config.
func (c FileConfig) Gate() gate.Config {
	return gate.Config{PassRate: c.PassRate, MaxCost: c.MaxCost, P95LatencyMs: c.P95LatencyMs}
}

// Apply merges a FileConfig's structural fields onto a Suite that already
// carries its Go-defined DefaultGraders and Target. A programmatic
// DefaultGraders/Target is left untouched unless the file declares its
// own, which then takes precedence.
func (c FileConfig) Apply(s Suite) (Suite, error) {
	s.Name = c.Name
	s.CasesSource = c.CasesSource
	s.Gates = c.Gate()
	if c.RateLimitPerSecond > 0 {
		s.RateLimitPerSecond = c.RateLimitPerSecond
	}
	if c.Target != nil {
		s.Target = c.Target.Build()
	}
	if len(c.Graders) > 0 {
		graders, err := BuildGraders(c.Graders)
		if err != nil {
			return Suite{}, fmt.Errorf("suite %q: %w", c.Name, err)
		}
		s.DefaultGraders = graders
	}
	return s, nil
}

// ToSuite builds a fully self-contained Suite directly from a FileConfig,
// for the case where a suite is entirely declared in YAML with no
// accompanying Go code supplying a target or graders.
func (c FileConfig) ToSuite() (Suite, error) {
	s, err := c.Apply(Suite{})
	if err != nil {
		return Suite{}, err
	}
	if s.Target == nil {
		return Suite{}, fmt.Errorf("suite %q: no target configured (missing %q in YAML, and none supplied in code)", c.Name, "target")
	}
	return s, nil
}
