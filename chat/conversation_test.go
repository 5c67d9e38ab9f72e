package chat_test

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/fwojciec/ragchat"
	"github.com/fwojciec/ragchat/chat"
	"github.com/fwojciec/ragchat/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func messageFixtures(sessionID string) []ragchat.Message {
	return []ragchat.Message{
		{ID: "m1", Content: "question", SenderType: ragchat.SenderUser, SessionID: sessionID},
		{ID: "m2", Content: "answer", SenderType: ragchat.SenderAssistant, SessionID: sessionID},
	}
}

func newConversation(t *testing.T, api *mock.API) (*chat.Conversation, *manualScheduler) {
	t.Helper()
	sched := &manualScheduler{}
	sessions := chat.NewSessionStore(api, "alice", chat.WithSessionScheduler(sched.schedule))
	conv := chat.NewConversation(api, sessions, "alice", chat.WithScheduler(sched.schedule))
	return conv, sched
}

func TestConversation_FetchMessages(t *testing.T) {
	t.Parallel()

	api := &mock.API{
		SessionsFn: func(context.Context, string) ([]ragchat.Session, error) {
			return sessionFixtures(), nil
		},
		MessagesFn: func(_ context.Context, sessionID, _ string, page, size int) ([]ragchat.Message, error) {
			assert.Equal(t, 0, page)
			assert.Equal(t, 100, size)
			return messageFixtures(sessionID), nil
		},
	}
	sched := &manualScheduler{}
	sessions := chat.NewSessionStore(api, "alice", chat.WithSessionScheduler(sched.schedule))
	require.NoError(t, sessions.List(context.Background()))
	conv := chat.NewConversation(api, sessions, "alice", chat.WithScheduler(sched.schedule))

	require.NoError(t, conv.FetchMessages(context.Background(), "s1", false))

	assert.Len(t, conv.Messages(), 2)
	assert.False(t, conv.Loading())
	require.NotNil(t, conv.Current())
	assert.Equal(t, "First", conv.Current().SessionName)
}

func TestConversation_FetchMessagesUnknownSessionPlaceholder(t *testing.T) {
	t.Parallel()

	api := &mock.API{
		SessionsFn: func(context.Context, string) ([]ragchat.Session, error) {
			return sessionFixtures(), nil
		},
		MessagesFn: func(_ context.Context, sessionID, _ string, _, _ int) ([]ragchat.Message, error) {
			return messageFixtures(sessionID), nil
		},
	}
	conv, sched := newConversation(t, api)

	require.NoError(t, conv.FetchMessages(context.Background(), "unlisted", false))

	cur := conv.Current()
	require.NotNil(t, cur)
	assert.Equal(t, "unlisted", cur.ID)
	assert.Equal(t, "Loading...", cur.SessionName)
	// The unknown ID schedules a session-list refresh to hydrate the stub.
	assert.Equal(t, 1, sched.pending())
}

func TestConversation_FetchMessagesSupersededIsDiscarded(t *testing.T) {
	t.Parallel()

	firstStarted := make(chan struct{})
	release := make(chan struct{})
	api := &mock.API{
		MessagesFn: func(ctx context.Context, sessionID, _ string, _, _ int) ([]ragchat.Message, error) {
			if sessionID == "slow" {
				close(firstStarted)
				select {
				case <-release:
				case <-ctx.Done():
					return nil, ctx.Err()
				}
				return []ragchat.Message{{ID: "stale", SessionID: "slow"}}, nil
			}
			return messageFixtures(sessionID), nil
		},
	}
	conv, _ := newConversation(t, api)

	done := make(chan error, 1)
	go func() { done <- conv.FetchMessages(context.Background(), "slow", false) }()
	<-firstStarted

	// The second fetch supersedes and cancels the first.
	require.NoError(t, conv.FetchMessages(context.Background(), "s2", false))
	close(release)
	require.NoError(t, <-done)

	msgs := conv.Messages()
	require.Len(t, msgs, 2)
	for _, m := range msgs {
		assert.NotEqual(t, "stale", m.ID)
	}
	require.NotNil(t, conv.Current())
	assert.Equal(t, "s2", conv.Current().ID)
}

func TestConversation_FetchMessagesFailure(t *testing.T) {
	t.Parallel()

	calls := 0
	api := &mock.API{
		MessagesFn: func(_ context.Context, sessionID, _ string, _, _ int) ([]ragchat.Message, error) {
			calls++
			if calls == 1 {
				return messageFixtures(sessionID), nil
			}
			return nil, &ragchat.ServerError{StatusCode: 500, Message: "backend down"}
		},
	}
	conv, _ := newConversation(t, api)
	require.NoError(t, conv.FetchMessages(context.Background(), "s1", false))
	require.Len(t, conv.Messages(), 2)

	require.Error(t, conv.FetchMessages(context.Background(), "s1", false))
	assert.Empty(t, conv.Messages())
	assert.Equal(t, "backend down", conv.Err())
	assert.False(t, conv.Loading())
}

func TestConversation_SendMessageWithoutSessionStartsNewChat(t *testing.T) {
	t.Parallel()

	var gotTitle string
	api := &mock.API{
		NewChatFn: func(_ context.Context, _, message, title string) (ragchat.Session, error) {
			gotTitle = title
			return ragchat.Session{ID: "s-new", SessionName: title, MessageCount: 2}, nil
		},
		MessagesFn: func(_ context.Context, sessionID, _ string, _, _ int) ([]ragchat.Message, error) {
			return messageFixtures(sessionID), nil
		},
		SessionsFn: func(context.Context, string) ([]ragchat.Session, error) {
			return []ragchat.Session{{ID: "s-new"}}, nil
		},
	}
	conv, sched := newConversation(t, api)

	require.NoError(t, conv.SendMessage(context.Background(), "what is retrieval augmented generation?"))

	assert.Equal(t, "What is retrieval augmented generation?", gotTitle)
	require.NotNil(t, conv.Current())
	assert.Equal(t, "s-new", conv.Current().ID)
	assert.Len(t, conv.Messages(), 2)

	// The session-list refresh is deferred, not immediate.
	assert.Equal(t, 1, sched.pending())
	sched.runAll()
}

func TestConversation_StartNewChatFailure(t *testing.T) {
	t.Parallel()

	api := &mock.API{
		NewChatFn: func(context.Context, string, string, string) (ragchat.Session, error) {
			return ragchat.Session{}, &ragchat.ServerError{StatusCode: 503, Message: "no capacity"}
		},
	}
	conv, sched := newConversation(t, api)

	_, err := conv.StartNewChat(context.Background(), "hello", "")
	require.Error(t, err)
	assert.Nil(t, conv.Current())
	assert.Equal(t, "no capacity", conv.Err())
	assert.False(t, conv.Loading())
	assert.Zero(t, sched.pending())
}

func TestConversation_SendMessageEchoesTempThenReconciles(t *testing.T) {
	t.Parallel()

	var observedTemp bool
	var conv *chat.Conversation
	api := &mock.API{
		ChatFn: func(_ context.Context, sessionID, _, content string) (ragchat.Message, error) {
			// While the call is in flight the temp echo must be visible.
			msgs := conv.Messages()
			if len(msgs) > 0 {
				last := msgs[len(msgs)-1]
				observedTemp = last.IsTemp &&
					last.SenderType == ragchat.SenderUser &&
					last.Content == content &&
					strings.HasPrefix(last.ID, "temp-user-")
			}
			return ragchat.Message{ID: "m2", Content: "answer", SenderType: ragchat.SenderAssistant}, nil
		},
		MessagesFn: func(_ context.Context, sessionID, _ string, _, _ int) ([]ragchat.Message, error) {
			return messageFixtures(sessionID), nil
		},
		SessionsFn: func(context.Context, string) ([]ragchat.Session, error) {
			return sessionFixtures(), nil
		},
	}
	var sched *manualScheduler
	conv, sched = newConversation(t, api)
	conv.SetCurrent(&ragchat.Session{ID: "s1", SessionName: "First"})

	require.NoError(t, conv.SendMessage(context.Background(), "question"))

	assert.True(t, observedTemp, "temp echo must be visible during the chat call")
	for _, m := range conv.Messages() {
		assert.False(t, m.IsTemp, "reload must replace the temp echo")
	}
	assert.Equal(t, 1, sched.pending())
	sched.runAll()
}

func TestConversation_SendMessageFailureStripsTemp(t *testing.T) {
	t.Parallel()

	api := &mock.API{
		ChatFn: func(context.Context, string, string, string) (ragchat.Message, error) {
			return ragchat.Message{}, &ragchat.ServerError{StatusCode: 500}
		},
	}
	conv, sched := newConversation(t, api)
	conv.SetCurrent(&ragchat.Session{ID: "s1"})

	require.Error(t, conv.SendMessage(context.Background(), "doomed"))

	assert.Empty(t, conv.Messages(), "failed send must leave no temp messages")
	assert.NotEmpty(t, conv.Err())
	assert.False(t, conv.Loading())
	assert.Zero(t, sched.pending())
}

func TestConversation_SendMessageTargetsPinnedSession(t *testing.T) {
	t.Parallel()

	var chatSession string
	fetched := make(map[string]bool)
	var mu sync.Mutex
	var conv *chat.Conversation
	api := &mock.API{
		ChatFn: func(_ context.Context, sessionID, _, _ string) (ragchat.Message, error) {
			chatSession = sessionID
			// The user switches sessions while the call is outstanding.
			conv.SetCurrent(&ragchat.Session{ID: "s2", SessionName: "Second"})
			return ragchat.Message{ID: "m2"}, nil
		},
		MessagesFn: func(_ context.Context, sessionID, _ string, _, _ int) ([]ragchat.Message, error) {
			mu.Lock()
			fetched[sessionID] = true
			mu.Unlock()
			return messageFixtures(sessionID), nil
		},
	}
	conv, _ = newConversation(t, api)
	conv.SetCurrent(&ragchat.Session{ID: "s1", SessionName: "First"})

	require.NoError(t, conv.SendMessage(context.Background(), "question"))

	assert.Equal(t, "s1", chatSession)
	assert.True(t, fetched["s1"], "reload must target the session the send went to")
	assert.False(t, fetched["s2"])
}

func TestConversation_RetryMessage(t *testing.T) {
	t.Parallel()

	var retried string
	api := &mock.API{
		ChatFn: func(_ context.Context, _, _, content string) (ragchat.Message, error) {
			retried = content
			return ragchat.Message{ID: "m3"}, nil
		},
		MessagesFn: func(_ context.Context, sessionID, _ string, _, _ int) ([]ragchat.Message, error) {
			return messageFixtures(sessionID), nil
		},
	}
	conv, _ := newConversation(t, api)
	conv.SetCurrent(&ragchat.Session{ID: "s1"})
	require.NoError(t, conv.FetchMessages(context.Background(), "s1", true))

	require.NoError(t, conv.RetryMessage(context.Background(), "m2"))
	assert.Equal(t, "question", retried, "retry must resend the preceding user message")
}

func TestConversation_RetryMessageNoOps(t *testing.T) {
	t.Parallel()

	chatCalled := false
	api := &mock.API{
		ChatFn: func(context.Context, string, string, string) (ragchat.Message, error) {
			chatCalled = true
			return ragchat.Message{}, nil
		},
		MessagesFn: func(_ context.Context, sessionID, _ string, _, _ int) ([]ragchat.Message, error) {
			return []ragchat.Message{
				{ID: "a1", SenderType: ragchat.SenderAssistant, SessionID: sessionID},
				{ID: "u1", Content: "hi", SenderType: ragchat.SenderUser, SessionID: sessionID},
				{ID: "a2", SenderType: ragchat.SenderAssistant, SessionID: sessionID},
				{ID: "u2", SenderType: ragchat.SenderUser, SessionID: sessionID},
			}, nil
		},
	}
	conv, _ := newConversation(t, api)
	conv.SetCurrent(&ragchat.Session{ID: "s1"})
	require.NoError(t, conv.FetchMessages(context.Background(), "s1", true))

	t.Run("first message", func(t *testing.T) {
		require.NoError(t, conv.RetryMessage(context.Background(), "a1"))
		assert.False(t, chatCalled)
	})
	t.Run("user message", func(t *testing.T) {
		require.NoError(t, conv.RetryMessage(context.Background(), "u2"))
		assert.False(t, chatCalled)
	})
	t.Run("unknown id", func(t *testing.T) {
		require.NoError(t, conv.RetryMessage(context.Background(), "nope"))
		assert.False(t, chatCalled)
	})
	t.Run("list intact", func(t *testing.T) {
		assert.Len(t, conv.Messages(), 4)
	})
}

func TestConversation_RetryMessageFailureRestores(t *testing.T) {
	t.Parallel()

	api := &mock.API{
		ChatFn: func(context.Context, string, string, string) (ragchat.Message, error) {
			return ragchat.Message{}, &ragchat.ServerError{StatusCode: 500}
		},
		MessagesFn: func(_ context.Context, sessionID, _ string, _, _ int) ([]ragchat.Message, error) {
			return messageFixtures(sessionID), nil
		},
	}
	conv, _ := newConversation(t, api)
	conv.SetCurrent(&ragchat.Session{ID: "s1"})
	require.NoError(t, conv.FetchMessages(context.Background(), "s1", true))

	require.Error(t, conv.RetryMessage(context.Background(), "m2"))

	// The reload restored the removed assistant reply.
	assert.Len(t, conv.Messages(), 2)
}

func TestConversation_EditMessageForksConversation(t *testing.T) {
	t.Parallel()

	var sent string
	var visibleAtSend int
	var conv *chat.Conversation
	api := &mock.API{
		ChatFn: func(_ context.Context, _, _, content string) (ragchat.Message, error) {
			sent = content
			visibleAtSend = len(conv.Messages())
			return ragchat.Message{ID: "m3"}, nil
		},
		MessagesFn: func(_ context.Context, sessionID, _ string, _, _ int) ([]ragchat.Message, error) {
			return messageFixtures(sessionID), nil
		},
	}
	conv, _ = newConversation(t, api)
	conv.SetCurrent(&ragchat.Session{ID: "s1"})
	require.NoError(t, conv.FetchMessages(context.Background(), "s1", true))
	conv.SetEditingID("m1")

	require.NoError(t, conv.EditMessage(context.Background(), "m1", "better question"))

	assert.Equal(t, "better question", sent)
	// The fork dropped the edited message and its reply, leaving only the
	// temp echo visible while the send was in flight.
	assert.Equal(t, 1, visibleAtSend)
	assert.Empty(t, conv.EditingID())
}

func TestConversation_EditMessageNoOpOnAssistant(t *testing.T) {
	t.Parallel()

	api := &mock.API{
		ChatFn: func(context.Context, string, string, string) (ragchat.Message, error) {
			t.Fatal("edit of an assistant message must not send")
			return ragchat.Message{}, nil
		},
		MessagesFn: func(_ context.Context, sessionID, _ string, _, _ int) ([]ragchat.Message, error) {
			return messageFixtures(sessionID), nil
		},
	}
	conv, _ := newConversation(t, api)
	conv.SetCurrent(&ragchat.Session{ID: "s1"})
	require.NoError(t, conv.FetchMessages(context.Background(), "s1", true))
	conv.SetEditingID("m2")

	require.NoError(t, conv.EditMessage(context.Background(), "m2", "rewrite"))

	assert.Len(t, conv.Messages(), 2)
	assert.Empty(t, conv.EditingID(), "editing marker clears even on no-op")
}

func TestConversation_DeleteMessage(t *testing.T) {
	t.Parallel()

	deleted := ""
	api := &mock.API{
		DeleteMessageFn: func(_ context.Context, sessionID, messageID, _ string) error {
			assert.Equal(t, "s1", sessionID)
			deleted = messageID
			return nil
		},
		MessagesFn: func(_ context.Context, sessionID, _ string, _, _ int) ([]ragchat.Message, error) {
			if deleted != "" {
				return messageFixtures(sessionID)[:1], nil
			}
			return messageFixtures(sessionID), nil
		},
		SessionsFn: func(context.Context, string) ([]ragchat.Session, error) {
			return nil, nil
		},
	}
	conv, sched := newConversation(t, api)
	conv.SetCurrent(&ragchat.Session{ID: "s1"})
	require.NoError(t, conv.FetchMessages(context.Background(), "s1", true))

	require.NoError(t, conv.DeleteMessage(context.Background(), "m2"))

	assert.Equal(t, "m2", deleted)
	assert.Len(t, conv.Messages(), 1)
	assert.Equal(t, 1, sched.pending())
	sched.runAll()
}

func TestConversation_DeleteSessionClearsCurrentAndDraft(t *testing.T) {
	t.Parallel()

	api := &mock.API{
		DeleteSessionFn: func(context.Context, string, string) error { return nil },
		SessionsFn: func(context.Context, string) ([]ragchat.Session, error) {
			return []ragchat.Session{{ID: "s2", SessionName: "Second"}}, nil
		},
	}
	conv, _ := newConversation(t, api)
	conv.SetCurrent(&ragchat.Session{ID: "s1"})
	conv.Drafts().Set("s1", "half-typed thought")
	conv.Drafts().Set("s2", "keep me")

	require.NoError(t, conv.DeleteSession(context.Background(), "s1"))

	assert.Nil(t, conv.Current())
	assert.Empty(t, conv.Messages())
	assert.Empty(t, conv.Drafts().Get("s1"), "deleting a session evicts its draft")
	assert.Equal(t, "keep me", conv.Drafts().Get("s2"))
}

func TestConversation_DeleteSessionOtherKeepsCurrent(t *testing.T) {
	t.Parallel()

	api := &mock.API{
		DeleteSessionFn: func(context.Context, string, string) error { return nil },
		SessionsFn: func(context.Context, string) ([]ragchat.Session, error) {
			return sessionFixtures(), nil
		},
	}
	conv, _ := newConversation(t, api)
	conv.SetCurrent(&ragchat.Session{ID: "s1"})

	require.NoError(t, conv.DeleteSession(context.Background(), "s2"))

	require.NotNil(t, conv.Current())
	assert.Equal(t, "s1", conv.Current().ID)
}

func TestConversation_ClearMessages(t *testing.T) {
	t.Parallel()

	api := &mock.API{
		MessagesFn: func(_ context.Context, sessionID, _ string, _, _ int) ([]ragchat.Message, error) {
			return messageFixtures(sessionID), nil
		},
	}
	conv, _ := newConversation(t, api)
	conv.SetCurrent(&ragchat.Session{ID: "s1"})
	require.NoError(t, conv.FetchMessages(context.Background(), "s1", true))
	conv.SetEditingID("m1")

	conv.ClearMessages()

	assert.Empty(t, conv.Messages())
	assert.Empty(t, conv.EditingID())
}

func TestConversation_ClearMessagesResetsLoading(t *testing.T) {
	t.Parallel()

	started := make(chan struct{})
	release := make(chan struct{})
	api := &mock.API{
		MessagesFn: func(ctx context.Context, _, _ string, _, _ int) ([]ragchat.Message, error) {
			close(started)
			<-release
			return nil, ctx.Err()
		},
	}
	conv, _ := newConversation(t, api)

	done := make(chan error, 1)
	go func() { done <- conv.FetchMessages(context.Background(), "s1", false) }()
	<-started

	conv.ClearMessages()
	close(release)
	require.NoError(t, <-done)

	assert.False(t, conv.Loading(), "loading resets when clearing cancels a fetch")
	assert.Empty(t, conv.Messages())
}

func TestConversation_DeferredRefreshDelay(t *testing.T) {
	t.Parallel()

	var delays []time.Duration
	var mu sync.Mutex
	sched := func(d time.Duration, fn func()) {
		mu.Lock()
		delays = append(delays, d)
		mu.Unlock()
	}
	api := &mock.API{
		NewChatFn: func(context.Context, string, string, string) (ragchat.Session, error) {
			return ragchat.Session{ID: "s-new"}, nil
		},
		MessagesFn: func(context.Context, string, string, int, int) ([]ragchat.Message, error) {
			return nil, nil
		},
	}
	sessions := chat.NewSessionStore(api, "alice", chat.WithSessionScheduler(sched))
	conv := chat.NewConversation(api, sessions, "alice", chat.WithScheduler(sched))

	_, err := conv.StartNewChat(context.Background(), "hello", "")
	require.NoError(t, err)

	mu.Lock()
	defer mu.Unlock()
	require.NotEmpty(t, delays)
	assert.Equal(t, 500*time.Millisecond, delays[len(delays)-1])
}
