package bubbletea

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/fwojciec/ragchat"
	"github.com/fwojciec/ragchat/chat"
)

var _ tea.Model = Model{}

const (
	sidebarWidth = 26
	minListWidth = 10
)

// Model is the Bubble Tea model for the chat TUI. The session list sits in
// a left sidebar; the active conversation fills the rest of the screen.
type Model struct {
	// Input is the message input component. Exported for test access.
	Input textinput.Model
	// Viewport is the scrollable transcript area. Exported for test access.
	Viewport viewport.Model

	sessions *chat.SessionStore
	conv     *chat.Conversation
	theme    ragchat.Theme
	styles   Styles

	status ragchat.ServiceStatus
	busy   bool
	ready  bool
	width  int
	height int
}

// New creates a TUI Model over the given stores.
func New(sessions *chat.SessionStore, conv *chat.Conversation, theme ragchat.Theme) Model {
	ti := textinput.New()
	ti.Placeholder = "Ask a question..."
	ti.Prompt = ""
	ti.Focus()
	ti.CharLimit = ragchat.MaxMessageLength

	return Model{
		Input:    ti,
		sessions: sessions,
		conv:     conv,
		theme:    theme,
		styles:   NewStyles(theme),
	}
}

// Busy returns whether a remote operation is in flight.
func (m Model) Busy() bool { return m.busy }

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.loadSessions())
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleWindowSize(msg), nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case SyncMsg:
		m.busy = false
		m = m.refresh()
		return m, nil

	case StatusMsg:
		m.status = msg.Status
		return m, nil
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.Viewport, cmd = m.Viewport.Update(msg)
	cmds = append(cmds, cmd)
	m.Input, cmd = m.Input.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	main := lipgloss.JoinHorizontal(lipgloss.Top,
		m.styles.Sidebar.Render(m.renderSidebar()),
		m.Viewport.View(),
	)

	var b strings.Builder
	b.WriteString(main)
	b.WriteString("\n")
	b.WriteString(m.statusLine())
	b.WriteString("\n")
	b.WriteString(m.Input.View())
	return b.String()
}

func (m Model) handleWindowSize(msg tea.WindowSizeMsg) Model {
	m.width = msg.Width
	m.height = msg.Height

	// Input and status each take one line; the border adds nothing vertical.
	vpHeight := msg.Height - 2
	if vpHeight < 1 {
		vpHeight = 1
	}
	vpWidth := msg.Width - sidebarWidth - 1
	if vpWidth < minListWidth {
		vpWidth = minListWidth
	}

	if !m.ready {
		m.Viewport = viewport.New(vpWidth, vpHeight)
		m.ready = true
	} else {
		m.Viewport.Width = vpWidth
		m.Viewport.Height = vpHeight
	}
	m.Viewport.SetContent(m.renderTranscript())
	m.Viewport.GotoBottom()
	m.Input.Width = msg.Width
	return m
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return m, tea.Quit

	case tea.KeyEnter:
		if m.busy {
			return m, nil
		}
		text := strings.TrimSpace(m.Input.Value())
		if text == "" {
			return m, nil
		}
		if err := ragchat.ValidateMessageContent(text); err != nil {
			return m, nil
		}
		m.Input.SetValue("")
		m.conv.Drafts().Evict(ragchat.DraftKey(m.conv.Current()))
		m.busy = true
		m = m.refresh()
		return m, m.send(text)

	case tea.KeyCtrlN:
		m = m.stashDraft()
		m.conv.SetCurrent(nil)
		m.conv.ClearMessages()
		m.Input.SetValue(m.conv.Drafts().Get(ragchat.DraftKeyNew))
		return m.refresh(), nil

	case tea.KeyCtrlP:
		return m.switchSession(-1)

	case tea.KeyCtrlO:
		return m.switchSession(+1)

	case tea.KeyCtrlF:
		cur := m.conv.Current()
		if cur == nil || m.busy {
			return m, nil
		}
		id := cur.ID
		return m, func() tea.Msg {
			return SyncMsg{Err: m.sessions.ToggleFavorite(context.Background(), id)}
		}

	case tea.KeyCtrlX:
		cur := m.conv.Current()
		if cur == nil || m.busy {
			return m, nil
		}
		id := cur.ID
		m.busy = true
		return m, func() tea.Msg {
			return SyncMsg{Err: m.conv.DeleteSession(context.Background(), id)}
		}

	case tea.KeyEsc:
		m.conv.ClearErr()
		m.sessions.ClearErr()
		return m.refresh(), nil
	}

	// Forward non-character keys to the viewport for scrolling; characters
	// would conflict with typing.
	var cmds []tea.Cmd
	var cmd tea.Cmd
	if msg.Type != tea.KeyRunes {
		m.Viewport, cmd = m.Viewport.Update(msg)
		cmds = append(cmds, cmd)
	}
	m.Input, cmd = m.Input.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

// switchSession moves the active session by delta within the session list,
// stashing the visible draft and restoring the target's.
func (m Model) switchSession(delta int) (tea.Model, tea.Cmd) {
	if m.busy {
		return m, nil
	}
	list := m.sessions.Sessions()
	if len(list) == 0 {
		return m, nil
	}

	idx := 0
	if cur := m.conv.Current(); cur != nil {
		for i, s := range list {
			if s.ID == cur.ID {
				idx = (i + delta + len(list)) % len(list)
				break
			}
		}
	}
	target := list[idx]

	m = m.stashDraft()
	m.Input.SetValue(m.conv.Drafts().Get(target.ID))
	m.busy = true
	return m, m.openSession(target.ID)
}

// stashDraft saves the input under the active session's draft key.
func (m Model) stashDraft() Model {
	m.conv.Drafts().Set(ragchat.DraftKey(m.conv.Current()), m.Input.Value())
	return m
}

// refresh re-reads store snapshots into the viewport.
func (m Model) refresh() Model {
	if m.ready {
		m.Viewport.SetContent(m.renderTranscript())
		m.Viewport.GotoBottom()
	}
	return m
}

func (m Model) renderTranscript() string {
	msgs := m.conv.Messages()
	if len(msgs) == 0 {
		if m.conv.Current() == nil {
			return m.styles.Muted.Render("Start a new conversation. Enter sends; Ctrl+N starts a fresh chat.")
		}
		return m.styles.Muted.Render("No messages yet.")
	}

	var b strings.Builder
	for i, msg := range msgs {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(newMessageBlock(msg, m.theme, m.styles).View(m.Viewport.Width))
	}
	return b.String()
}

func (m Model) renderSidebar() string {
	innerWidth := sidebarWidth - 1
	var b strings.Builder
	b.WriteString(m.styles.Accent.Render("Sessions"))
	b.WriteString("\n")

	cur := m.conv.Current()
	for _, s := range m.sessions.Sessions() {
		marker := "  "
		if s.IsFavorite {
			marker = m.styles.Favorite.Render("★ ")
		}
		name := runewidth.Truncate(s.SessionName, innerWidth-2, "…")
		line := marker + name
		if cur != nil && cur.ID == s.ID {
			line = marker + m.styles.Selected.Render(name)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	height := m.Viewport.Height
	return lipgloss.NewStyle().Width(innerWidth).Height(height).Render(b.String())
}

func (m Model) statusLine() string {
	if errMsg := m.conv.Err(); errMsg != "" {
		return m.styles.Error.Render("Error: " + errMsg)
	}
	if errMsg := m.sessions.Err(); errMsg != "" {
		return m.styles.Error.Render("Error: " + errMsg)
	}
	if m.busy {
		return m.styles.Muted.Render("Thinking...")
	}

	hints := "Enter send · Ctrl+N new · Ctrl+P/O switch · Ctrl+F fav · Ctrl+X delete · Ctrl+C quit"
	if m.status.Status != "" {
		return m.styles.Muted.Render(fmt.Sprintf("[%s %s] %s", m.status.Status, m.status.Model, hints))
	}
	return m.styles.Muted.Render(hints)
}

func (m Model) loadSessions() tea.Cmd {
	return func() tea.Msg {
		return SyncMsg{Err: m.sessions.List(context.Background())}
	}
}

func (m Model) openSession(id string) tea.Cmd {
	return func() tea.Msg {
		return SyncMsg{Err: m.conv.FetchMessages(context.Background(), id, false)}
	}
}

func (m Model) send(text string) tea.Cmd {
	return func() tea.Msg {
		return SyncMsg{Err: m.conv.SendMessage(context.Background(), text)}
	}
}
