package parser

import (
	"fmt"
	"strings"

	"github.com/balkashynov/healthmate/internal/models"
)

// Emoji is a quick-mood token understood by the service
type Emoji string

const (
	EmojiHappy   Emoji = "😃"
	EmojiNeutral Emoji = "😐"
	EmojiSad     Emoji = "😞"
)

// QuickMoods lists the tokens in the order they are offered to the user
var QuickMoods = []Emoji{EmojiHappy, EmojiNeutral, EmojiSad}

// ParseEmoji accepts either the emoji itself or a word alias
func ParseEmoji(input string) (Emoji, error) {
	switch strings.ToLower(strings.TrimSpace(input)) {
	case string(EmojiHappy), "happy", "good", "great", "1":
		return EmojiHappy, nil
	case string(EmojiNeutral), "neutral", "ok", "meh", "2":
		return EmojiNeutral, nil
	case string(EmojiSad), "sad", "bad", "low", "3":
		return EmojiSad, nil
	default:
		return "", fmt.Errorf("unknown mood %q. Use: happy, neutral, sad", input)
	}
}

// SentimentIcon renders a server sentiment label as an emoji
func SentimentIcon(label string) string {
	switch label {
	case models.SentimentPositive:
		return "😊"
	case models.SentimentNegative:
		return "😔"
	default:
		return "😐"
	}
}
