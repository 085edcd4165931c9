package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/marcus/postadmin/internal/config"
)

func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Read and write project settings",
		Long: `Read and write settings in .posts/config.json.

Keys: ` + fmt.Sprint(config.Keys()) + `

'config get' shows effective values, after POSTADMIN_* environment
variables and .env overrides. 'config set' writes the file only.`,
		GroupID: "system",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "get [key]",
		Short: "Print one setting, or all of them",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			keys := config.Keys()
			if len(args) == 1 {
				keys = args
			}
			for _, key := range keys {
				value, err := config.Get(a.cfg, key)
				if err != nil {
					return err
				}
				if len(args) == 1 {
					fmt.Fprintln(cmd.OutOrStdout(), value)
				} else {
					fmt.Fprintf(cmd.OutOrStdout(), "%s=%s\n", key, value)
				}
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "set <key> <value>",
		Short: "Write a setting to the config file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(a.baseDir)
			if err != nil {
				return err
			}
			if err := config.Set(cfg, args[0], args[1]); err != nil {
				return err
			}
			if err := config.Save(a.baseDir, cfg); err != nil {
				return fmt.Errorf("save config: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s=%s\n", args[0], args[1])
			return nil
		},
	})

	return cmd
}
