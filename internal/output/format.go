// Package output provides terminal output formatting utilities for the
// changelog-gen CLI. It has minimal dependencies to avoid import cycles.
package output

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// GetTerminalWidth returns the terminal width, defaulting to 80 if unavailable.
func GetTerminalWidth() int {
	if width, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && width > 0 {
		return width
	}
	return 80
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// IsTerminalWriter reports whether w is a file attached to a terminal.
func IsTerminalWriter(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && IsTerminal(f)
}

// PrintSuccess prints a green checkmark followed by the message.
func PrintSuccess(out io.Writer, format string, args ...any) {
	green := color.New(color.FgGreen, color.Bold).SprintFunc()
	fmt.Fprintf(out, "%s %s\n", green("✓"), fmt.Sprintf(format, args...))
}

// PrintWarning prints a yellow warning line.
func PrintWarning(out io.Writer, format string, args ...any) {
	yellow := color.New(color.FgYellow).SprintFunc()
	fmt.Fprintf(out, "%s %s\n", yellow("Warning:"), fmt.Sprintf(format, args...))
}

// PrintInfo prints a dim informational line.
func PrintInfo(out io.Writer, format string, args ...any) {
	dim := color.New(color.Faint).SprintFunc()
	fmt.Fprintln(out, dim(fmt.Sprintf(format, args...)))
}
