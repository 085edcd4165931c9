package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/marcus/postadmin/internal/config"
	"github.com/marcus/postadmin/internal/models"
	"github.com/marcus/postadmin/internal/output"
	"github.com/marcus/postadmin/internal/workdir"
)

var version = "dev"

// SetVersion sets the version string
func SetVersion(v string) {
	version = v
}

// app is the state shared by every command once flags and config are
// resolved.
type app struct {
	// startDir is --dir or the working directory; baseDir is the project
	// directory found from it.
	startDir string
	baseDir  string
	cfg      *models.Config
	level    slog.Level
	logger   *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "postadmin",
		Short: "Blog post administration from the terminal",
		Long: `postadmin - manage blog posts from a terminal admin screen, an HTTP API
or plain commands.

Posts live in .posts/posts.db under the project directory. When a server URL
is configured, or a 'postadmin serve' instance is running for the project,
commands talk to it instead of the local database.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.String("dir", "", "Start directory (default: working directory); the nearest .posts above it is used")
	flags.String("server", "", "API server URL (overrides config and discovery)")
	flags.String("token", "", "Bearer token for the API server")
	flags.String("log-level", "", "Log level: debug, info, warn, error")

	root.AddGroup(
		&cobra.Group{ID: "posts", Title: "Posts:"},
		&cobra.Group{ID: "system", Title: "System:"},
	)
	root.AddCommand(
		newAdminCmd(a),
		newPostCmd(a),
		newServeCmd(a),
		newInitCmd(a),
		newConfigCmd(a),
		newSecurityCmd(a),
	)
	return root
}

// Execute runs the root command
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		output.Error(os.Stderr, "%v", err)
		os.Exit(1)
	}
}

// setup resolves the base directory, config and logger. Flags win over the
// environment, .env and the config file.
func (a *app) setup(cmd *cobra.Command) error {
	dir, _ := cmd.Flags().GetString("dir")
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("cannot determine working directory: %w", err)
		}
		dir = wd
	}
	a.startDir = filepath.Clean(dir)
	a.baseDir = workdir.Find(a.startDir)

	cfg, err := config.Resolve(dir)
	if err != nil {
		return err
	}
	if v, _ := cmd.Flags().GetString("server"); v != "" {
		cfg.ServerURL = v
	}
	if v, _ := cmd.Flags().GetString("token"); v != "" {
		cfg.Token = v
	}
	if v, _ := cmd.Flags().GetString("log-level"); v != "" {
		cfg.LogLevel = v
	}

	level, err := config.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.level = level
	a.logger = newLogger(cmd.ErrOrStderr(), level, false)
	return nil
}

// newLogger returns a text logger for commands, or a JSON logger for the
// server and the admin log file.
func newLogger(w io.Writer, level slog.Level, asJSON bool) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}
	if asJSON {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
