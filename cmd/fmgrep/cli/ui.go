package cli

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
)

var (
	primaryColor = lipgloss.Color("#509EE3")
	successColor = lipgloss.Color("#88BF4D")
	errorColor   = lipgloss.Color("#EF8C8C")
	mutedColor   = lipgloss.Color("#949AAB")

	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(primaryColor)
	successStyle = lipgloss.NewStyle().Foreground(successColor)
	errorStyle   = lipgloss.NewStyle().Foreground(errorColor)
	keyStyle     = lipgloss.NewStyle().Foreground(mutedColor).Width(10)
)

// Header prints a styled header line.
func Header(text string) {
	fmt.Fprintln(os.Stderr, headerStyle.Render(text))
}

// Summary prints key/value pairs, one per line.
func Summary(pairs ...string) {
	for i := 0; i < len(pairs); i += 2 {
		key := pairs[i]
		val := ""
		if i+1 < len(pairs) {
			val = pairs[i+1]
		}
		fmt.Fprintf(os.Stderr, "  %s %s\n", keyStyle.Render(key+":"), val)
	}
}

// Success prints a success line.
func Success(msg string) {
	fmt.Fprintf(os.Stderr, "%s %s\n", successStyle.Render("[OK]"), msg)
}

// Fail prints an error line.
func Fail(msg string) {
	fmt.Fprintf(os.Stderr, "%s %s\n", errorStyle.Render("[ERROR]"), msg)
}
