package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/codalotl/agent-evals/internal/persist"
	"github.com/codalotl/agent-evals/internal/runner"
)

func newJudgeOnlyCmd() *cobra.Command {
	var fromPath string
	var outPath string
	var gateOnly bool
	var format string

	cmd := silenceUsageAndErrors(&cobra.Command{
		Use:   "judge-only <suite.yml> --from <run.json>",
		Short: "Re-grade a prior run's stored outputs without invoking the target",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := parseFormat(format)
			if err != nil {
				return exitErr(ExitConfigError, err)
			}
			if fromPath == "" {
				return exitErr(ExitConfigError, fmt.Errorf("judge-only: --from is required"))
			}

			s, err := loadSuite(args[0])
			if err != nil {
				return exitErr(ExitConfigError, err)
			}

			prior, err := persist.Read(fromPath)
			if err != nil {
				return exitErr(ExitConfigError, fmt.Errorf("judge-only: reading %s: %w", fromPath, err))
			}

			run, err := runner.JudgeOnly(cmd.Context(), prior, s, nil)
			if err != nil {
				return exitErr(ExitRuntimeError, fmt.Errorf("judge-only: %w", err))
			}

			if outPath != "" {
				if err := persist.Write(outPath, run); err != nil {
					return exitErr(ExitRuntimeError, fmt.Errorf("judge-only: writing %s: %w", outPath, err))
				}
			}

			if err := printRun(cmd.OutOrStdout(), run, f, gateOnly); err != nil {
				return exitErr(ExitRuntimeError, err)
			}

			if !run.Summary.GateResult.Pass {
				return exitErr(ExitGateFailed, fmt.Errorf("judge-only: gate checks failed"))
			}
			return nil
		},
	})

	cmd.Flags().StringVar(&fromPath, "from", "", "path to the prior Run JSON artifact to re-grade (required)")
	cmd.Flags().StringVar(&outPath, "out", "", "path to persist the re-graded Run artifact as JSON")
	cmd.Flags().BoolVar(&gateOnly, "gate-only", false, "print only the gate result, not the full summary")
	cmd.Flags().StringVar(&format, "format", string(formatText), "output format: text or json")
	return cmd
}
