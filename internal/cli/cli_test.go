package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/codalotl/agent-evals/internal/persist"
	"github.com/codalotl/agent-evals/internal/types"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestRunCmdHappyPathExitsZero(t *testing.T) {
	dir := t.TempDir()
	casesPath := filepath.Join(dir, "cases.jsonl")
	writeFile(t, casesPath, `{"id":"C01","input":{"query":"hi"}}`+"\n")

	suitePath := filepath.Join(dir, "suite.yml")
	writeFile(t, suitePath, `
name: demo
cases: `+casesPath+`
passRate: 1.0
target:
  command: echo hello
graders:
  - type: contains
    value: hello
`)

	outPath := filepath.Join(dir, "run.json")
	cmd := newRunCmd()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetArgs([]string{suitePath, "--out", outPath})

	err := cmd.Execute()
	require.NoError(t, err)
	require.Equal(t, ExitOK, CodeOf(err))

	run, err := persist.Read(outPath)
	require.NoError(t, err)
	require.Equal(t, 1, run.Summary.Passed)
}

func TestRunCmdGateFailureExitsOne(t *testing.T) {
	dir := t.TempDir()
	casesPath := filepath.Join(dir, "cases.jsonl")
	writeFile(t, casesPath, `{"id":"C01","input":{"query":"hi"}}`+"\n")

	suitePath := filepath.Join(dir, "suite.yml")
	writeFile(t, suitePath, `
name: demo
cases: `+casesPath+`
passRate: 1.0
target:
  command: echo hello
graders:
  - type: contains
    value: nomatch
`)

	cmd := newRunCmd()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetArgs([]string{suitePath})

	err := cmd.Execute()
	require.Error(t, err)
	require.Equal(t, ExitGateFailed, CodeOf(err))
}

func TestRunCmdMissingSuiteExitsConfigError(t *testing.T) {
	cmd := newRunCmd()
	cmd.SetArgs([]string{"/nonexistent/suite.yml"})
	err := cmd.Execute()
	require.Error(t, err)
	require.Equal(t, ExitConfigError, CodeOf(err))
}

func TestValidateCmdReportsCaseCount(t *testing.T) {
	dir := t.TempDir()
	casesPath := filepath.Join(dir, "cases.jsonl")
	writeFile(t, casesPath, "{\"id\":\"C01\",\"input\":{}}\n{\"id\":\"C02\",\"input\":{}}\n")

	suitePath := filepath.Join(dir, "suite.yml")
	writeFile(t, suitePath, `
name: demo
cases: `+casesPath+`
target:
  command: echo hi
`)

	cmd := newValidateCmd()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetArgs([]string{suitePath})
	require.NoError(t, cmd.Execute())
	require.Contains(t, buf.String(), "2 cases")
}

func TestValidateCmdRejectsDuplicateCaseID(t *testing.T) {
	dir := t.TempDir()
	casesPath := filepath.Join(dir, "cases.jsonl")
	writeFile(t, casesPath, "{\"id\":\"C01\",\"input\":{}}\n{\"id\":\"C01\",\"input\":{}}\n")

	suitePath := filepath.Join(dir, "suite.yml")
	writeFile(t, suitePath, `
name: demo
cases: `+casesPath+`
target:
  command: echo hi
`)

	cmd := newValidateCmd()
	cmd.SetArgs([]string{suitePath})
	err := cmd.Execute()
	require.Error(t, err)
	require.Equal(t, ExitConfigError, CodeOf(err))
}

func TestCompareCmdReportsRegression(t *testing.T) {
	dir := t.TempDir()
	basePath := filepath.Join(dir, "base.json")
	comparePath := filepath.Join(dir, "compare.json")

	base := sampleRunForCompare(types.StatusPass, 1)
	current := sampleRunForCompare(types.StatusFail, 0)
	require.NoError(t, persist.Write(basePath, base))
	require.NoError(t, persist.Write(comparePath, current))

	cmd := newCompareCmd()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetArgs([]string{basePath, comparePath})
	require.NoError(t, cmd.Execute())
	require.Contains(t, buf.String(), "regressions: 1")
}

func sampleRunForCompare(status types.TrialStatus, score float64) types.Run {
	passed := 0
	failed := 1
	if status == types.StatusPass {
		passed, failed = 1, 0
	}
	return types.Run{
		SchemaVersion: types.SchemaVersion,
		ID:            "run-" + string(status),
		SuiteID:       "demo",
		Mode:          types.ModeLive,
		Trials: []types.Trial{
			{CaseID: "C01", Status: status, Output: types.TargetOutput{}, Score: score},
		},
		Summary: types.RunSummary{
			TotalCases: 1, Passed: passed, Failed: failed, PassRate: float64(passed),
			GateResult: types.GateResult{Pass: true},
		},
	}
}
