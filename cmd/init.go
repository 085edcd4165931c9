package cmd

import (
	"github.com/spf13/cobra"

	"github.com/marcus/postadmin/internal/db"
	"github.com/marcus/postadmin/internal/output"
	"github.com/marcus/postadmin/internal/workdir"
)

func newInitCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create the post database in this directory",
		Long: `Create .posts/posts.db in the current directory (or --dir).

With --link, no database is created. Instead a .posts-root file is written
that points at an existing project, and every command run here uses that
project's posts.`,
		GroupID: "system",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if target, _ := cmd.Flags().GetString("link"); target != "" {
				if err := workdir.Link(a.startDir, target); err != nil {
					return err
				}
				output.Success(cmd.OutOrStdout(), "Linked %s to %s", a.startDir, workdir.Find(a.startDir))
				return nil
			}

			database, err := db.Initialize(a.startDir)
			if err != nil {
				return err
			}
			if err := database.Close(); err != nil {
				return err
			}
			output.Success(cmd.OutOrStdout(), "Initialized post database at %s", db.Path(a.startDir))
			return nil
		},
	}

	cmd.Flags().String("link", "", "Use the posts of another project directory")
	return cmd
}
