// Package output prints a run's live, per-case progress lines, bolding
// them when the destination is a styling-capable terminal.
package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/codalotl/agent-evals/internal/ansi"
)

// Printer writes one line per trial as a run progresses.
type Printer struct {
	out   io.Writer
	style ansi.Style
}

// NewPrinter creates a Printer that writes to out, bolding lines when the
// process's stdout supports ANSI styling. The styling check looks at
// stdout and the environment, not at out itself.
func NewPrinter(out io.Writer) *Printer {
	if out == nil {
		out = io.Discard
	}
	profile, err := ansi.GetColorProfile()
	if err != nil {
		profile = ansi.ColorProfileUncolored
	}
	return &Printer{out: out, style: ansi.Style{Bold: profile.Enabled()}}
}

// App writes one bold line of application output.
func (p *Printer) App(text string) error {
	if text == "" {
		return nil
	}
	_, err := io.WriteString(p.out, p.style.Apply(ensureTrailingNewline(text)))
	return err
}

// Appf formats its arguments and writes the result via App.
func (p *Printer) Appf(format string, args ...any) error {
	return p.App(fmt.Sprintf(format, args...))
}

func ensureTrailingNewline(text string) string {
	if strings.HasSuffix(text, "\n") {
		return text
	}
	return text + "\n"
}
