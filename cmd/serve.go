package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/marcus/postadmin/internal/db"
	"github.com/marcus/postadmin/internal/serve"
	"github.com/marcus/postadmin/internal/store"
)

func newServeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the postadmin HTTP API server",
		Long: `Start an HTTP API server that exposes the project's posts over REST.

The server provides JSON endpoints for listing, reading, creating, updating
and deleting posts. Set --token (or POSTADMIN_TOKEN) to require bearer token
authentication, and --cors for browser-based clients.

If --port is 0 (the default), a random available port is assigned.
The actual port is written to .posts/serve-port so 'postadmin admin' and the
post commands find the server.`,
		GroupID: "system",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runServe(cmd)
		},
	}

	cmd.Flags().IntP("port", "p", 0, "Port to listen on (0 = auto-assign)")
	cmd.Flags().StringP("addr", "a", "localhost", "Address to bind to")
	cmd.Flags().String("cors", "", "Allowed CORS origin (optional, e.g. http://localhost:3000)")
	return cmd
}

func (a *app) runServe(cmd *cobra.Command) error {
	dir := a.baseDir

	database, err := db.Open(dir)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer database.Close()

	// Limit connections for long-running server process
	database.SetMaxOpenConns(1)

	port, _ := cmd.Flags().GetInt("port")
	addr, _ := cmd.Flags().GetString("addr")
	cors, _ := cmd.Flags().GetString("cors")

	instanceID, err := serve.NewInstanceID()
	if err != nil {
		return err
	}

	logger := newLogger(cmd.ErrOrStderr(), a.level, true)
	srv := serve.NewServer(store.NewLocal(database), dir, instanceID, serve.ServeConfig{
		Port:       port,
		Addr:       addr,
		Token:      a.cfg.Token,
		CORSOrigin: cors,
	}, logger)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		regErr     error
		unregister func() error
	)
	err = srv.ListenAndServe(ctx, func(actualPort int) {
		unregister, regErr = serve.Register(ctx, dir, serve.Registration{
			Port:       actualPort,
			PID:        os.Getpid(),
			StartedAt:  time.Now(),
			InstanceID: instanceID,
		})
		if regErr != nil {
			cancel()
			return
		}

		stderr := cmd.ErrOrStderr()
		fmt.Fprintf(stderr, "postadmin serve listening on http://%s:%d\n", addr, actualPort)
		fmt.Fprintf(stderr, "  base dir:   %s\n", dir)
		fmt.Fprintf(stderr, "  database:   %s\n", db.Path(dir))
		fmt.Fprintf(stderr, "  instance:   %s\n", instanceID)
		fmt.Fprintf(stderr, "  port file:  %s\n", serve.RegistryPath(dir))
		if a.cfg.Token == "" {
			fmt.Fprintln(stderr, "  auth:       none (set --token to require a bearer token)")
		}
	})
	if unregister != nil {
		if uerr := unregister(); uerr != nil {
			logger.Warn("remove port file", "err", uerr)
		}
	}
	if regErr != nil {
		return fmt.Errorf("register server: %w", regErr)
	}
	if err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	fmt.Fprintln(cmd.ErrOrStderr(), "postadmin serve stopped")
	return nil
}
