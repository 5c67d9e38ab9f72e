package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fwojciec/ragchat"
)

var (
	loginUser string
	loginKey  string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Store backend credentials",
	RunE: func(cmd *cobra.Command, args []string) error {
		userID := loginUser
		apiKey := loginKey
		reader := bufio.NewReader(cmd.InOrStdin())

		if userID == "" {
			fmt.Fprint(cmd.OutOrStdout(), "User ID: ")
			line, err := reader.ReadString('\n')
			if err != nil {
				return err
			}
			userID = strings.TrimSpace(line)
		}
		if apiKey == "" {
			fmt.Fprint(cmd.OutOrStdout(), "API key: ")
			line, err := reader.ReadString('\n')
			if err != nil {
				return err
			}
			apiKey = strings.TrimSpace(line)
		}

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		store, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer store.Close()

		auth, err := ragchat.NewAuth(store)
		if err != nil {
			return err
		}
		if err := auth.Login(userID, apiKey); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s\n", userID)
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Clear stored credentials and cached state",
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

		auth, err := ragchat.NewAuth(store)
		if err != nil {
			return err
		}
		if err := auth.Logout(); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
		return nil
	},
}

func init() {
	loginCmd.Flags().StringVar(&loginUser, "user", "", "User ID")
	loginCmd.Flags().StringVar(&loginKey, "key", "", "API key")
	rootCmd.AddCommand(loginCmd, logoutCmd)
}
