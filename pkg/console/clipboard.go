package console

import (
	"fmt"
	"os/exec"
	"runtime"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/marcus/postadmin/internal/models"
	"github.com/marcus/postadmin/pkg/admin"
)

// clipboardWriter is replaced in tests.
var clipboardWriter = copyToClipboard

// copyToClipboard copies text to the system clipboard.
// Uses pbcopy on macOS, xclip or xsel on Linux, clip.exe on Windows.
func copyToClipboard(text string) error {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("pbcopy")
	case "linux":
		if _, err := exec.LookPath("xclip"); err == nil {
			cmd = exec.Command("xclip", "-selection", "clipboard")
		} else if _, err := exec.LookPath("xsel"); err == nil {
			cmd = exec.Command("xsel", "--clipboard", "--input")
		} else {
			return fmt.Errorf("no clipboard tool found (install xclip or xsel)")
		}
	case "windows":
		cmd = exec.Command("clip.exe")
	default:
		return fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}

	cmd.Stdin = strings.NewReader(text)
	return cmd.Run()
}

// formatPostAsMarkdown renders a post the way it is pasted elsewhere.
func formatPostAsMarkdown(p models.Post, dateFormat string) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("# %s\n", p.Title))
	sb.WriteString(fmt.Sprintf("**ID:** `%s`\n", p.ID))
	if !p.CreatedAt.IsZero() {
		sb.WriteString(fmt.Sprintf("**Created:** %s\n", p.CreatedAt.Local().Format(dateFormat)))
	}
	if p.Content != "" {
		sb.WriteString("\n")
		sb.WriteString(p.Content)
		sb.WriteString("\n")
	}
	return sb.String()
}

// copyPostCmd copies p off the event loop and reports the result as a toast.
func copyPostCmd(p models.Post, dateFormat string) tea.Cmd {
	text := formatPostAsMarkdown(p, dateFormat)
	return func() tea.Msg {
		if err := clipboardWriter(text); err != nil {
			return ToastMsg{Notification: admin.Notification{
				Level:   admin.LevelError,
				Message: "Copy failed",
				Detail:  err.Error(),
			}}
		}
		return ToastMsg{Notification: admin.Notification{
			Level:   admin.LevelSuccess,
			Message: "Copied " + p.Title,
		}}
	}
}
