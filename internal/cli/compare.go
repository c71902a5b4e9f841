package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/codalotl/agent-evals/internal/compare"
	"github.com/codalotl/agent-evals/internal/persist"
)

func newCompareCmd() *cobra.Command {
	var threshold float64
	var format string

	cmd := silenceUsageAndErrors(&cobra.Command{
		Use:   "compare <base.json> <compare.json>",
		Short: "Diff two Run artifacts into case-level and aggregate deltas",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := parseFormat(format)
			if err != nil {
				return exitErr(ExitConfigError, err)
			}

			base, err := persist.Read(args[0])
			if err != nil {
				return exitErr(ExitConfigError, fmt.Errorf("compare: reading %s: %w", args[0], err))
			}
			current, err := persist.Read(args[1])
			if err != nil {
				return exitErr(ExitConfigError, fmt.Errorf("compare: reading %s: %w", args[1], err))
			}

			result := compare.Run(base, current, compare.Options{ScoreThreshold: threshold})
			if err := printComparison(cmd.OutOrStdout(), result, f); err != nil {
				return exitErr(ExitRuntimeError, err)
			}
			return nil
		},
	})

	cmd.Flags().Float64Var(&threshold, "score-threshold", 0, "|scoreDelta| that must be exceeded to count as movement (default 0.05)")
	cmd.Flags().StringVar(&format, "format", string(formatText), "output format: text or json")
	return cmd
}
