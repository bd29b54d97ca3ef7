// Package progress shows a spinner on stderr while slow collaborators
// (GitHub lookups, git history walks) run.
package progress

import (
	"os"

	"golang.org/x/term"
)

// TerminalCapabilities describes what the attached terminal can render.
type TerminalCapabilities struct {
	IsTTY           bool
	SupportsColor   bool
	SupportsUnicode bool
	Width           int
}

// ProgressSymbols holds the glyphs used for status output.
type ProgressSymbols struct {
	Checkmark  string
	Failure    string
	SpinnerSet int
}

// DetectTerminalCapabilities detects terminal features of f.
// Checks: isatty, NO_COLOR env, CHANGELOG_GEN_ASCII env, terminal width.
func DetectTerminalCapabilities(f *os.File) TerminalCapabilities {
	isTTY := term.IsTerminal(int(f.Fd()))

	noColor := os.Getenv("NO_COLOR") != ""
	forceASCII := os.Getenv("CHANGELOG_GEN_ASCII") == "1"

	width := 0
	if isTTY {
		if w, _, err := term.GetSize(int(f.Fd())); err == nil {
			width = w
		}
	}

	return TerminalCapabilities{
		IsTTY:           isTTY,
		SupportsColor:   isTTY && !noColor,
		SupportsUnicode: isTTY && !forceASCII,
		Width:           width,
	}
}

// SelectSymbols returns the appropriate symbol set based on terminal capabilities.
// Unicode: ✓/✗ with braille spinner (set 14). ASCII: [OK]/[FAIL] with |/-\ spinner (set 9).
func SelectSymbols(caps TerminalCapabilities) ProgressSymbols {
	if caps.SupportsUnicode {
		return ProgressSymbols{
			Checkmark:  "✓",
			Failure:    "✗",
			SpinnerSet: 14, // ⠋ ⠙ ⠹ ⠸ ⠼ ⠴ ⠦ ⠧ ⠇ ⠏
		}
	}

	return ProgressSymbols{
		Checkmark:  "[OK]",
		Failure:    "[FAIL]",
		SpinnerSet: 9, // | / - \
	}
}
