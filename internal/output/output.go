// Package output formats command results for the terminal and for scripts.
package output

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	labelStyle   = lipgloss.NewStyle().Bold(true)
)

// Success prints a confirmation line.
func Success(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, successStyle.Render("✓ "+fmt.Sprintf(format, args...)))
}

// Error prints an error line.
func Error(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, errorStyle.Render("Error: "+fmt.Sprintf(format, args...)))
}

// Warning prints a warning line.
func Warning(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, warningStyle.Render("Warning: "+fmt.Sprintf(format, args...)))
}

// JSON writes v as indented JSON.
func JSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// JSONError writes an error object for --json callers.
func JSONError(w io.Writer, code, message string) {
	_ = JSON(w, map[string]any{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}
