package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/codalotl/agent-evals/internal/types"
)

func newValidateCmd() *cobra.Command {
	cmd := silenceUsageAndErrors(&cobra.Command{
		Use:   "validate <suite.yml>",
		Short: "Validate a suite definition and its case source without running it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadSuite(args[0])
			if err != nil {
				return exitErr(ExitConfigError, err)
			}

			cases, err := s.Resolve()
			if err != nil {
				return exitErr(ExitConfigError, fmt.Errorf("validate: %w", err))
			}
			for _, c := range cases {
				if err := types.ValidateCase(c); err != nil {
					return exitErr(ExitConfigError, fmt.Errorf("validate: case %q: %w", c.ID, err))
				}
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s: valid (%d cases)\n", s.Name, len(cases))
			return nil
		},
	})
	return cmd
}
