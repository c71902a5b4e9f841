// Command agent-evals runs and compares evaluation suites for AI-agent
// workflows.
package main

import (
	"fmt"
	"os"

	"github.com/codalotl/agent-evals/internal/cli"
)

func main() {
	err := cli.Execute()
	if err != nil && err.Error() != "" {
		fmt.Fprintln(os.Stderr, err)
	}
	os.Exit(cli.CodeOf(err))
}
