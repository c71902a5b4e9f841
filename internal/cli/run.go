package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/codalotl/agent-evals/internal/output"
	"github.com/codalotl/agent-evals/internal/persist"
	"github.com/codalotl/agent-evals/internal/runner"
)

func newRunCmd() *cobra.Command {
	var timeoutMs int64
	var outPath string
	var gateOnly bool
	var format string

	cmd := silenceUsageAndErrors(&cobra.Command{
		Use:   "run <suite.yml>",
		Short: "Run an evaluation suite against its configured target",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := parseFormat(format)
			if err != nil {
				return exitErr(ExitConfigError, err)
			}

			s, err := loadSuite(args[0])
			if err != nil {
				return exitErr(ExitConfigError, err)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			printer := output.NewPrinter(cmd.OutOrStdout())
			run, err := runner.Run(ctx, s, runner.Options{TimeoutMs: timeoutMs, Printer: printer})
			if errors.Is(ctx.Err(), context.Canceled) {
				return exitErr(ExitUserInterrupt, fmt.Errorf("run: interrupted"))
			}
			if err != nil {
				return exitErr(ExitRuntimeError, fmt.Errorf("run: %w", err))
			}

			if outPath != "" {
				if err := persist.Write(outPath, run); err != nil {
					return exitErr(ExitRuntimeError, fmt.Errorf("run: writing %s: %w", outPath, err))
				}
			}

			if err := printRun(cmd.OutOrStdout(), run, f, gateOnly); err != nil {
				return exitErr(ExitRuntimeError, err)
			}

			if !run.Summary.GateResult.Pass {
				return exitErr(ExitGateFailed, fmt.Errorf("run: gate checks failed"))
			}
			return nil
		},
	})

	cmd.Flags().Int64Var(&timeoutMs, "timeout", 0, "per-case timeout in milliseconds (0 = no timeout)")
	cmd.Flags().StringVar(&outPath, "out", "", "path to persist the Run artifact as JSON")
	cmd.Flags().BoolVar(&gateOnly, "gate-only", false, "print only the gate result, not the full summary")
	cmd.Flags().StringVar(&format, "format", string(formatText), "output format: text or json")
	return cmd
}
