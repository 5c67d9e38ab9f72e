// Package bubbletea provides the Bubble Tea TUI for the chat client.
package bubbletea

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/fwojciec/ragchat"
)

// Run creates and runs the Bubble Tea program. It blocks until the program
// exits. The context is used for graceful shutdown — when cancelled, the
// program quits. Service-status updates arriving on updates (may be nil)
// are forwarded to the model.
func Run(ctx context.Context, m Model, updates <-chan ragchat.ServiceStatus) error {
	p := tea.NewProgram(m, tea.WithAltScreen())
	if updates != nil {
		go func() {
			for {
				select {
				case <-ctx.Done():
					return
				case s, ok := <-updates:
					if !ok {
						return
					}
					p.Send(StatusMsg{Status: s})
				}
			}
		}()
	}
	go func() {
		<-ctx.Done()
		p.Quit()
	}()
	_, err := p.Run()
	return err
}

// SyncMsg signals that a store operation finished and the model should
// re-read its snapshots. Err carries the operation's failure, if any; the
// stores have already recorded a user-visible message for it.
type SyncMsg struct {
	Err error
}

// StatusMsg delivers a service-status update from the websocket feed or
// the startup probe.
type StatusMsg struct {
	Status ragchat.ServiceStatus
}
