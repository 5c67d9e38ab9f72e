package bubbletea

import "github.com/fwojciec/ragchat"

// MessageBlock is a renderable element in the transcript. View takes a
// width parameter so the root model controls layout and blocks are
// testable in isolation.
type MessageBlock interface {
	View(width int) string
}

// newMessageBlock builds the block for a message based on its sender.
func newMessageBlock(msg ragchat.Message, theme ragchat.Theme, styles Styles) MessageBlock {
	switch msg.SenderType {
	case ragchat.SenderAssistant:
		return NewAssistantMessageBlock(msg.Content, theme, styles)
	case ragchat.SenderSystem:
		return NewSystemMessageBlock(msg.Content, styles)
	default:
		return NewUserMessageBlock(msg.Content, msg.IsTemp, styles)
	}
}
