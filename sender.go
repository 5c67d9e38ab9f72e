package ragchat

// SenderType represents the originator of a message.
type SenderType string

const (
	SenderUser      SenderType = "USER"
	SenderAssistant SenderType = "ASSISTANT"
	SenderSystem    SenderType = "SYSTEM"
)
