// Package cli wires the internal/* packages into a runnable command line
// tool. Its flag parsing and command assembly are a thin adapter: the
// grading, scoring, and comparison logic all live below it.
package cli

import (
	"strings"

	"github.com/spf13/cobra"
)

// Exit codes, documented as part of the observable behavior of the
// command line tool.
const (
	ExitOK            = 0
	ExitGateFailed    = 1
	ExitConfigError   = 2
	ExitRuntimeError  = 3
	ExitUserInterrupt = 130
)

// ExitError pairs an error with the process exit code it should produce.
// Commands that want anything other than the default config-error code
// return one of these instead of a plain error.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string { return e.Err.Error() }
func (e *ExitError) Unwrap() error { return e.Err }

func exitErr(code int, err error) error {
	if err == nil {
		return nil
	}
	return &ExitError{Code: code, Err: err}
}

// CodeOf classifies err into a process exit code. Plain errors (not
// wrapped in an ExitError) default to a configuration-error code, since
// every command validates its configuration before doing any work that
// could fail for a different reason.
func CodeOf(err error) int {
	if err == nil {
		return ExitOK
	}
	var ee *ExitError
	if ok := asExitError(err, &ee); ok {
		return ee.Code
	}
	return ExitConfigError
}

func asExitError(err error, target **ExitError) bool {
	for err != nil {
		if ee, ok := err.(*ExitError); ok {
			*target = ee
			return true
		}
		unwrapper, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = unwrapper.Unwrap()
	}
	return false
}

// Execute runs the CLI, returning the error (if any) that occurred.
// Callers should map the error through CodeOf to get a process exit code.
func Execute() error {
	root := silenceUsageAndErrors(&cobra.Command{
		Use:   "agent-evals",
		Short: "Run and compare evaluation suites for AI-agent workflows.",
	})

	root.AddCommand(newRunCmd())
	root.AddCommand(newJudgeOnlyCmd())
	root.AddCommand(newCompareCmd())
	root.AddCommand(newValidateCmd())

	executed, err := root.ExecuteC()
	if err != nil {
		maybePrintUsage(executed, root, err)
	}
	return err
}

func silenceUsageAndErrors(cmd *cobra.Command) *cobra.Command {
	cmd.SilenceErrors = true
	cmd.SilenceUsage = true
	return cmd
}

func maybePrintUsage(cmd, root *cobra.Command, err error) {
	if err == nil {
		return
	}
	target := cmd
	if target == nil {
		target = root
	}
	if target == nil {
		return
	}
	if shouldShowUsage(err) {
		_ = target.Usage()
	}
}

func shouldShowUsage(err error) bool {
	msg := strings.ToLower(err.Error())
	if strings.HasPrefix(msg, "unknown command") {
		return true
	}
	if strings.HasPrefix(msg, "unknown flag") || strings.HasPrefix(msg, "unknown shorthand flag") {
		return true
	}
	if strings.Contains(msg, "accepts") && strings.Contains(msg, "arg") {
		return true
	}
	if strings.Contains(msg, "requires at least") && strings.Contains(msg, "arg") {
		return true
	}
	if strings.Contains(msg, "requires at most") && strings.Contains(msg, "arg") {
		return true
	}
	if strings.Contains(msg, "required flag") {
		return true
	}
	if strings.Contains(msg, "flag needs an argument") {
		return true
	}
	if strings.HasPrefix(msg, "invalid argument") {
		return true
	}
	return false
}
