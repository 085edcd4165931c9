package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/marcus/postadmin/internal/config"
	"github.com/marcus/postadmin/internal/db"
	"github.com/marcus/postadmin/pkg/admin"
	"github.com/marcus/postadmin/pkg/console"
)

const adminLogFile = "admin.log"

func newAdminCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Open the post admin screen",
		Long: `Open the interactive post admin screen.

The screen lists posts in a table. Press n to create a post, v or enter to
view the selected one, e to edit it, d to delete it and ? for every key.
Logs are written to .posts/admin.log so they do not disturb the screen.

--open starts with a modal already open: create, or view, edit or delete
together with --id.`,
		GroupID: "posts",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			open, err := openRequestFromFlags(cmd)
			if err != nil {
				return err
			}
			if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
				return errors.New("admin needs an interactive terminal; use 'postadmin post' for scripting")
			}
			return a.runAdmin(open)
		},
	}

	cmd.Flags().String("open", "", "Open a modal on start: create, view, edit or delete")
	cmd.Flags().String("id", "", "Post id for --open view, edit or delete")
	return cmd
}

func openRequestFromFlags(cmd *cobra.Command) (*console.OpenRequest, error) {
	name, _ := cmd.Flags().GetString("open")
	id, _ := cmd.Flags().GetString("id")
	if name == "" {
		if id != "" {
			return nil, errors.New("--id requires --open")
		}
		return nil, nil
	}

	action, err := admin.ParseAction(name)
	if err != nil {
		return nil, err
	}
	if action.TargetsPost() && id == "" {
		return nil, fmt.Errorf("--open %s requires --id", action)
	}
	if !action.TargetsPost() && id != "" {
		return nil, errors.New("--open create does not take --id")
	}
	return &console.OpenRequest{Action: action, ID: db.NormalizePostID(id)}, nil
}

func (a *app) runAdmin(open *console.OpenRequest) error {
	posts, source, closeStore, err := a.openStore()
	if err != nil {
		return err
	}
	defer closeStore()

	logDir := filepath.Join(a.baseDir, db.DataDir)
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return fmt.Errorf("create log dir: %w", err)
	}
	logFile, err := os.OpenFile(filepath.Join(logDir, adminLogFile), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("open admin log: %w", err)
	}
	defer logFile.Close()

	logger := newLogger(logFile, a.level, true)
	logger.Info("admin started", "source", source)

	model := console.New(posts, console.Options{
		DateFormat: a.cfg.DateFormat,
		Source:     source,
		Timeout:    config.Timeout(a.cfg),
		Logger:     logger,
		Open:       open,
	})

	if _, err := tea.NewProgram(model, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("run admin screen: %w", err)
	}
	logger.Info("admin stopped")
	return nil
}
