// Package target provides adapters that turn an external process, or an
// MCP-style tool-using agent's raw trace, into the Suite.Target contract.
package target

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/mattn/go-shellwords"

	"github.com/codalotl/agent-evals/internal/types"
)

const inputPlaceholder = "{{input}}"

// ExecOptions configures Exec.
type ExecOptions struct {
	// CommandTemplate is a shell-safe command line, e.g.
	// `my-agent run --input {{input}}`. The literal token {{input}}
	// is replaced with the case input marshaled to JSON.
	CommandTemplate string
	// Dir is the working directory the process runs in.
	Dir string
	// ParseJSON, when true, treats the process's combined stdout and
	// stderr as a strict TargetOutput JSON document rather than plain text.
	ParseJSON bool
}

// Exec returns a target that shells out to a CLI-based agent for each
// case, the same way the teacher harness shells out to claude/codex/crush.
func Exec(opts ExecOptions) func(ctx context.Context, input map[string]any) (types.TargetOutput, error) {
	return func(ctx context.Context, input map[string]any) (types.TargetOutput, error) {
		argv, err := buildArgv(opts.CommandTemplate, input)
		if err != nil {
			return types.TargetOutput{}, fmt.Errorf("target.Exec: %w", err)
		}
		if len(argv) == 0 {
			return types.TargetOutput{}, fmt.Errorf("target.Exec: empty command template")
		}

		cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
		cmd.Dir = opts.Dir

		start := time.Now()
		out, runErr := cmd.CombinedOutput()
		latencyMs := float64(time.Since(start).Microseconds()) / 1000.0
		if runErr != nil {
			return types.TargetOutput{}, fmt.Errorf("target.Exec: %s: %w: %s", argv[0], runErr, strings.TrimSpace(string(out)))
		}

		if opts.ParseJSON {
			output, err := types.ParseTargetOutput(out)
			if err != nil {
				return types.TargetOutput{}, fmt.Errorf("target.Exec: %w", err)
			}
			if output.LatencyMs == 0 {
				output.LatencyMs = latencyMs
			}
			return output, nil
		}

		return types.TargetOutput{Text: strings.TrimSpace(string(out)), LatencyMs: latencyMs}, nil
	}
}

// buildArgv tokenizes template with shell-safe argv splitting, then
// substitutes any {{input}} token for the JSON-encoded input map. The
// substitution happens after tokenization so values containing spaces or
// shell metacharacters cannot alter the argv boundaries.
func buildArgv(template string, input map[string]any) ([]string, error) {
	tokens, err := shellwords.Parse(template)
	if err != nil {
		return nil, fmt.Errorf("parsing command template: %w", err)
	}

	inputJSON, err := json.Marshal(input)
	if err != nil {
		return nil, fmt.Errorf("marshaling case input: %w", err)
	}

	argv := make([]string, len(tokens))
	for i, tok := range tokens {
		if tok == inputPlaceholder {
			argv[i] = string(inputJSON)
			continue
		}
		argv[i] = tok
	}
	return argv, nil
}
