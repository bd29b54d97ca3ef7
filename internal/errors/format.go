package errors

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
)

var (
	// Color functions with auto-detection for terminal support.
	// These fall back gracefully when colors are unavailable.
	errorLabel  = color.New(color.FgRed, color.Bold).SprintFunc()
	errorMsg    = color.New(color.FgRed).SprintFunc()
	fixLabel    = color.New(color.FgGreen, color.Bold).SprintFunc()
	usageLabel  = color.New(color.FgCyan, color.Bold).SprintFunc()
	usageText   = color.New(color.FgCyan).SprintFunc()
	bullet      = color.New(color.FgGreen).SprintFunc()
	categoryFmt = color.New(color.FgYellow).SprintFunc()
)

// FormatErrorPlain formats a CLIError without colors.
func FormatErrorPlain(err *CLIError) string {
	if err == nil {
		return ""
	}
	return formatError(err, false)
}

func formatError(err *CLIError, useColors bool) string {
	var sb strings.Builder

	// Error category and message
	if useColors {
		sb.WriteString(errorLabel("Error"))
		sb.WriteString(" [")
		sb.WriteString(categoryFmt(err.Category.String()))
		sb.WriteString("]: ")
		sb.WriteString(errorMsg(err.Message))
	} else {
		sb.WriteString("Error [")
		sb.WriteString(err.Category.String())
		sb.WriteString("]: ")
		sb.WriteString(err.Message)
	}
	sb.WriteString("\n")

	if err.Snippet != "" {
		sb.WriteString("\n")
		for line := range strings.SplitSeq(err.Snippet, "\n") {
			sb.WriteString("    ")
			sb.WriteString(line)
			sb.WriteString("\n")
		}
	}

	// Correct usage (for argument errors)
	if err.Usage != "" {
		sb.WriteString("\n")
		if useColors {
			sb.WriteString(usageLabel("Usage: "))
			sb.WriteString(usageText(err.Usage))
		} else {
			sb.WriteString("Usage: ")
			sb.WriteString(err.Usage)
		}
		sb.WriteString("\n")
	}

	// Remediation steps
	if len(err.Remediation) > 0 {
		sb.WriteString("\n")
		if useColors {
			sb.WriteString(fixLabel("To fix this:"))
		} else {
			sb.WriteString("To fix this:")
		}
		sb.WriteString("\n")
		for _, step := range err.Remediation {
			if useColors {
				sb.WriteString("  ")
				sb.WriteString(bullet("•"))
				sb.WriteString(" ")
			} else {
				sb.WriteString("  • ")
			}
			sb.WriteString(step)
			sb.WriteString("\n")
		}
	}

	return sb.String()
}

// FormatAny formats any error. Known changelog errors get their
// remediation steps; others are reported as runtime errors.
func FormatAny(err error, useColors bool) string {
	if err == nil {
		return ""
	}
	return formatError(FromError(err), useColors)
}

// FprintAny prints any error to w, in color when w is a terminal.
func FprintAny(w io.Writer, err error) {
	if err == nil {
		return
	}
	useColors := !color.NoColor
	if f, ok := w.(*os.File); !ok || f != os.Stderr && f != os.Stdout {
		useColors = false
	}
	fmt.Fprint(w, FormatAny(err, useColors))
}
