package suite

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadFileConfigParsesGates(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "suite.yml")
	require.NoError(t, os.WriteFile(path, []byte(`
name: demo-suite
cases: cases.jsonl
passRate: 0.9
maxCost: 1.5
rateLimitPerSecond: 2
`), 0o644))

	cfg, err := LoadFileConfig(path)
	require.NoError(t, err)
	require.Equal(t, "demo-suite", cfg.Name)
	require.Equal(t, "cases.jsonl", cfg.CasesSource)
	require.NotNil(t, cfg.PassRate)
	require.Equal(t, 0.9, *cfg.PassRate)
	require.Nil(t, cfg.P95LatencyMs)

	s, err := cfg.Apply(Suite{})
	require.NoError(t, err)
	require.Equal(t, "demo-suite", s.Name)
	require.NotNil(t, s.Gates.PassRate)
	require.Equal(t, 2.0, s.RateLimitPerSecond)
}

func TestLoadFileConfigRequiresName(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "suite.yml")
	require.NoError(t, os.WriteFile(path, []byte("cases: cases.jsonl\n"), 0o644))
	_, err := LoadFileConfig(path)
	require.Error(t, err)
}

func TestLoadFileConfigParsesTargetAndGraders(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "suite.yml")
	require.NoError(t, os.WriteFile(path, []byte(`
name: demo-suite
cases: cases.jsonl
target:
  command: echo hello
graders:
  - type: contains
    value: hi
    required: true
`), 0o644))

	cfg, err := LoadFileConfig(path)
	require.NoError(t, err)
	require.NotNil(t, cfg.Target)
	require.Equal(t, "echo hello", cfg.Target.Command)
	require.Len(t, cfg.Graders, 1)

	s, err := cfg.ToSuite()
	require.NoError(t, err)
	require.NotNil(t, s.Target)
	require.Len(t, s.DefaultGraders, 1)
	require.True(t, s.DefaultGraders[0].Required)
}

func TestToSuiteRequiresTarget(t *testing.T) {
	cfg := FileConfig{Name: "demo-suite"}
	_, err := cfg.ToSuite()
	require.Error(t, err)
}
