package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Probe the assistant service",
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
		status, err := client.Status(cmd.Context())
		if err != nil {
			return err
		}
		if status.Model != "" {
			fmt.Fprintf(cmd.OutOrStdout(), "%s (%s)\n", status.Status, status.Model)
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), status.Status)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
