package bubbletea

import (
	"github.com/fwojciec/ragchat"
	"github.com/fwojciec/ragchat/goldmark"
)

var _ MessageBlock = (*AssistantMessageBlock)(nil)

// AssistantMessageBlock renders an assistant reply as ANSI-styled markdown.
type AssistantMessageBlock struct {
	content string
	theme   ragchat.Theme
}

// NewAssistantMessageBlock creates an AssistantMessageBlock.
func NewAssistantMessageBlock(content string, theme ragchat.Theme, _ Styles) *AssistantMessageBlock {
	return &AssistantMessageBlock{content: content, theme: theme}
}

func (b *AssistantMessageBlock) View(width int) string {
	return goldmark.Render(b.content, width, b.theme)
}
