package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/fwojciec/ragchat"
	bt "github.com/fwojciec/ragchat/bubbletea"
	"github.com/fwojciec/ragchat/chat"
	"github.com/fwojciec/ragchat/websocket"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Open the chat TUI",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runChat(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(chatCmd)
}

func runChat(ctx context.Context) error {
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
	sessions := chat.NewSessionStore(client, auth.UserID())
	conv := chat.NewConversation(client, sessions, auth.UserID())
	m := bt.New(sessions, conv, ragchat.DefaultTheme())

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	updates := make(chan ragchat.ServiceStatus, 1)
	go func() {
		if status, err := client.Status(ctx); err == nil {
			updates <- status
		}
	}()
	if cfg.StatusURL != "" {
		listener := websocket.NewListener(cfg.StatusURL, func(s ragchat.ServiceStatus) {
			select {
			case updates <- s:
			case <-ctx.Done():
			}
		})
		go func() { _ = listener.Run(ctx) }()
	}

	return bt.Run(ctx, m, updates)
}
