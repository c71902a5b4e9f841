package output

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/codalotl/agent-evals/internal/ansi"
)

func TestPrinterAppAddsTrailingNewline(t *testing.T) {
	var buf bytes.Buffer
	p := &Printer{out: &buf, style: ansi.Style{}}
	require.NoError(t, p.App("PASS C01"))
	require.Equal(t, "PASS C01\n", buf.String())
}

func TestPrinterAppfFormats(t *testing.T) {
	var buf bytes.Buffer
	p := &Printer{out: &buf, style: ansi.Style{}}
	require.NoError(t, p.Appf("PASS %s (score %.2f)", "C01", 1.0))
	require.Equal(t, "PASS C01 (score 1.00)\n", buf.String())
}

func TestPrinterAppEmptyTextIsNoop(t *testing.T) {
	var buf bytes.Buffer
	p := &Printer{out: &buf, style: ansi.Style{}}
	require.NoError(t, p.App(""))
	require.Equal(t, "", buf.String())
}

func TestPrinterAppBoldWrapsText(t *testing.T) {
	var buf bytes.Buffer
	p := &Printer{out: &buf, style: ansi.Style{Bold: true}}
	require.NoError(t, p.App("PASS C01"))
	require.Equal(t, "\x1b[1mPASS C01\n\x1b[0m", buf.String())
}

func TestNewPrinterNilOutWritesToDiscard(t *testing.T) {
	p := NewPrinter(nil)
	require.NoError(t, p.App("anything"))
}
