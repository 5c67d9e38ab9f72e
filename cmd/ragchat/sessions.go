package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "List chat sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		store, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer store.Close()

		auth, err := openAuth(store)
		if err != nil {
			return err
		}

		client := newClient(cfg, auth)
		sessions, err := client.Sessions(cmd.Context(), auth.UserID())
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tFAV\tMESSAGES\tUPDATED")
		for _, s := range sessions {
			fav := ""
			if s.IsFavorite {
				fav = "★"
			}
			updated := ""
			if !s.UpdatedAt.IsZero() {
				updated = s.UpdatedAt.Format("2006-01-02 15:04")
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n", s.ID, s.SessionName, fav, s.MessageCount, updated)
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(sessionsCmd)
}
