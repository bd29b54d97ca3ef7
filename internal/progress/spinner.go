package progress

import (
	"fmt"
	"io"
	"time"

	"github.com/briandowns/spinner"
)

// Spinner wraps briandowns/spinner. When the output is not a terminal it
// degrades to plain status lines so logs in CI stay readable.
type Spinner struct {
	out     io.Writer
	caps    TerminalCapabilities
	symbols ProgressSymbols
	s       *spinner.Spinner
	message string
}

// NewSpinner creates a spinner writing to out with the given capabilities.
func NewSpinner(out io.Writer, caps TerminalCapabilities) *Spinner {
	sp := &Spinner{
		out:     out,
		caps:    caps,
		symbols: SelectSymbols(caps),
	}
	if caps.IsTTY {
		sp.s = spinner.New(
			spinner.CharSets[sp.symbols.SpinnerSet],
			100*time.Millisecond,
			spinner.WithWriter(out),
			spinner.WithHiddenCursor(true),
		)
	}
	return sp
}

// Start begins spinning with the given message.
func (sp *Spinner) Start(message string) {
	sp.message = message
	if sp.s == nil {
		fmt.Fprintf(sp.out, "%s...\n", message)
		return
	}
	sp.s.Suffix = " " + message
	sp.s.Start()
}

// Update replaces the message shown next to the spinner.
func (sp *Spinner) Update(message string) {
	sp.message = message
	if sp.s == nil {
		return
	}
	sp.s.Lock()
	sp.s.Suffix = " " + message
	sp.s.Unlock()
}

// Success stops the spinner and prints a success line.
func (sp *Spinner) Success(message string) {
	sp.stop()
	fmt.Fprintf(sp.out, "%s %s\n", sp.symbols.Checkmark, message)
}

// Fail stops the spinner and prints a failure line.
func (sp *Spinner) Fail(message string) {
	sp.stop()
	fmt.Fprintf(sp.out, "%s %s\n", sp.symbols.Failure, message)
}

func (sp *Spinner) stop() {
	if sp.s != nil {
		sp.s.Stop()
	}
}
