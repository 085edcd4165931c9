package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/marcus/postadmin/internal/db"
	"github.com/marcus/postadmin/internal/output"
)

func newSecurityCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "security",
		Short: "View rejected API requests",
		Long: `Shows the audit log of API requests 'postadmin serve' rejected for a
missing or wrong bearer token. The log lives in .posts/security_events.jsonl.`,
		GroupID: "system",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()

			if clearLog, _ := cmd.Flags().GetBool("clear"); clearLog {
				if err := db.ClearSecurityEvents(a.baseDir); err != nil {
					return fmt.Errorf("clear security events: %w", err)
				}
				output.Success(out, "Cleared security log")
				return nil
			}

			events, err := db.ReadSecurityEvents(a.baseDir)
			if err != nil {
				return fmt.Errorf("read security events: %w", err)
			}

			if jsonOut, _ := cmd.Flags().GetBool("json"); jsonOut {
				enc := json.NewEncoder(out)
				for _, e := range events {
					if err := enc.Encode(e); err != nil {
						return err
					}
				}
				return nil
			}

			if len(events) == 0 {
				fmt.Fprintln(out, "No rejected requests logged")
				return nil
			}

			fmt.Fprintf(out, "Rejected requests (%d):\n\n", len(events))
			for _, e := range events {
				ts := e.Timestamp.Local().Format("2006-01-02 15:04:05")
				fmt.Fprintf(out, "%s  %s %s from %s\n", ts, e.Method, e.Path, e.RemoteAddr)
				fmt.Fprintf(out, "  Reason: %s\n\n", e.Reason)
			}
			return nil
		},
	}

	cmd.Flags().Bool("clear", false, "Clear the security log")
	cmd.Flags().Bool("json", false, "Output as JSONL")
	return cmd
}
