package ragchat

import (
	"fmt"
	"regexp"
	"unicode/utf8"
)

// Input constraints mirrored from the backend's contract.
const (
	MaxSessionNameLength = 255
	MaxMessageLength     = 5000
)

var (
	userIDPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]{1,100}$`)
	apiKeyPattern = regexp.MustCompile(`^[a-zA-Z0-9]{40,}$`)
)

// ValidateUserID checks that userID is non-empty, at most 100 characters,
// and contains only letters, digits, underscores, and hyphens.
func ValidateUserID(userID string) error {
	if userID == "" {
		return fmt.Errorf("user id is required: %w", ErrValidation)
	}
	if !userIDPattern.MatchString(userID) {
		return fmt.Errorf("user id may only contain letters, digits, underscores, and hyphens (max 100 characters): %w", ErrValidation)
	}
	return nil
}

// ValidateAPIKey checks that apiKey is at least 40 alphanumeric characters.
func ValidateAPIKey(apiKey string) error {
	if apiKey == "" {
		return fmt.Errorf("api key is required: %w", ErrValidation)
	}
	if !apiKeyPattern.MatchString(apiKey) {
		return fmt.Errorf("api key must be at least 40 alphanumeric characters: %w", ErrValidation)
	}
	return nil
}

// ValidateSessionName checks that name is non-empty and within the
// backend's length limit.
func ValidateSessionName(name string) error {
	if name == "" {
		return fmt.Errorf("session name is required: %w", ErrValidation)
	}
	if utf8.RuneCountInString(name) > MaxSessionNameLength {
		return fmt.Errorf("session name exceeds %d characters: %w", MaxSessionNameLength, ErrValidation)
	}
	return nil
}

// ValidateMessageContent checks that content has non-whitespace text and is
// within the backend's length limit.
func ValidateMessageContent(content string) error {
	trimmed := false
	for _, r := range content {
		if r != ' ' && r != '\t' && r != '\n' && r != '\r' {
			trimmed = true
			break
		}
	}
	if !trimmed {
		return fmt.Errorf("message content is required: %w", ErrValidation)
	}
	if utf8.RuneCountInString(content) > MaxMessageLength {
		return fmt.Errorf("message exceeds %d characters: %w", MaxMessageLength, ErrValidation)
	}
	return nil
}
