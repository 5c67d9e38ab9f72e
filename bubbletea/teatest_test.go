package bubbletea_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/exp/teatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fwojciec/ragchat"
	bt "github.com/fwojciec/ragchat/bubbletea"
	"github.com/fwojciec/ragchat/mock"
)

func TestModel_Teatest(t *testing.T) {
	t.Parallel()

	t.Run("full send cycle", func(t *testing.T) {
		t.Parallel()

		api := &mock.API{
			SessionsFn: func(context.Context, string) ([]ragchat.Session, error) {
				return []ragchat.Session{{ID: "s-new", SessionName: "What is RAG?"}}, nil
			},
			NewChatFn: func(_ context.Context, _, _, title string) (ragchat.Session, error) {
				return ragchat.Session{ID: "s-new", SessionName: title}, nil
			},
			MessagesFn: func(context.Context, string, string, int, int) ([]ragchat.Message, error) {
				return []ragchat.Message{
					{ID: "m1", Content: "what is RAG?", SenderType: ragchat.SenderUser},
					{ID: "m2", Content: "Retrieval-augmented generation.", SenderType: ragchat.SenderAssistant},
				}, nil
			},
		}
		sessions, conv := testStores(api)
		m := bt.New(sessions, conv, ragchat.DefaultTheme())

		tm := teatest.NewTestModel(t, m,
			teatest.WithInitialTermSize(100, 30),
		)

		tm.Type("what is RAG?")
		tm.Send(tea.KeyMsg{Type: tea.KeyEnter})

		teatest.WaitFor(t, tm.Output(), func(out []byte) bool {
			return bytes.Contains(out, []byte("Retrieval-augmented generation."))
		}, teatest.WithDuration(5*time.Second))

		tm.Send(tea.KeyMsg{Type: tea.KeyCtrlC})

		fm := tm.FinalModel(t, teatest.WithFinalTimeout(5*time.Second))
		final, ok := fm.(bt.Model)
		require.True(t, ok)
		assert.False(t, final.Busy())
		require.NotNil(t, conv.Current())
		assert.Equal(t, "s-new", conv.Current().ID)
	})

	t.Run("session list renders on init", func(t *testing.T) {
		t.Parallel()

		sessions, conv := testStores(twoSessionAPI())
		m := bt.New(sessions, conv, ragchat.DefaultTheme())

		tm := teatest.NewTestModel(t, m,
			teatest.WithInitialTermSize(100, 30),
		)

		teatest.WaitFor(t, tm.Output(), func(out []byte) bool {
			return bytes.Contains(out, []byte("Quarterly report")) &&
				bytes.Contains(out, []byte("Infra questions"))
		}, teatest.WithDuration(5*time.Second))

		tm.Send(tea.KeyMsg{Type: tea.KeyCtrlC})
		tm.WaitFinished(t, teatest.WithFinalTimeout(5*time.Second))
	})
}
