package bubbletea

import "github.com/charmbracelet/lipgloss"

var _ MessageBlock = (*UserMessageBlock)(nil)

// UserMessageBlock renders a user message with a "> " prefix. Temp
// messages — local echoes the backend has not confirmed yet — render
// muted so the user can tell them from persisted history.
type UserMessageBlock struct {
	text   string
	temp   bool
	styles Styles
}

// NewUserMessageBlock creates a UserMessageBlock.
func NewUserMessageBlock(text string, temp bool, styles Styles) *UserMessageBlock {
	return &UserMessageBlock{text: text, temp: temp, styles: styles}
}

func (b *UserMessageBlock) View(width int) string {
	content := b.styles.UserMsg.Render("> ") + b.text
	if b.temp {
		content = b.styles.Muted.Render("> " + b.text)
	}
	return lipgloss.NewStyle().Width(width).Render(content)
}
