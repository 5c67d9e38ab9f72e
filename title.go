package ragchat

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// DefaultTitle is used when no usable title can be derived from a message.
const DefaultTitle = "New Chat"

// titleBudget is the maximum title length in runes.
const titleBudget = 50

// GenerateTitle derives a session title from the first message, the way
// hosted chat UIs do. Whitespace is collapsed first. Questions are kept
// verbatim up to the budget (with an ellipsis when cut). Statements
// accumulate whole words within the budget, get their first letter
// capitalized, and gain an ellipsis when shorter than the cleaned input.
func GenerateTitle(message string) string {
	cleaned := strings.Join(strings.Fields(message), " ")
	if cleaned == "" {
		return DefaultTitle
	}

	if strings.HasSuffix(cleaned, "?") {
		r := []rune(cleaned)
		if len(r) > titleBudget {
			return string(r[:titleBudget-3]) + "..."
		}
		return cleaned
	}

	// The separator is counted even before the first word, so a lone word
	// tops out one rune under the budget.
	var title string
	for _, word := range strings.Fields(cleaned) {
		if utf8.RuneCountInString(title)+1+utf8.RuneCountInString(word) > titleBudget {
			break
		}
		if title == "" {
			title = word
		} else {
			title += " " + word
		}
	}
	if title == "" {
		return DefaultTitle
	}

	r := []rune(title)
	r[0] = unicode.ToUpper(r[0])
	title = string(r)

	if utf8.RuneCountInString(title) < utf8.RuneCountInString(cleaned) {
		title += "..."
	}
	return title
}
