package models

// Sentiment labels attached by the server
const (
	SentimentPositive = "positive"
	SentimentNeutral  = "neutral"
	SentimentNegative = "negative"
)

// MoodLog is a mood entry with its server-derived sentiment
type MoodLog struct {
	ID             int64     `json:"id"`
	UserID         int64     `json:"user_id"`
	MoodText       string    `json:"mood_text"`
	SentimentLabel string    `json:"sentiment_label"`
	SentimentScore float64   `json:"sentiment_score"` // confidence in [0,1]
	CreatedAt      Timestamp `json:"created_at"`
}

// NewMoodLog is the request body for a free-text mood log
type NewMoodLog struct {
	UserID   int64  `json:"user_id"`
	MoodText string `json:"mood_text"`
}

// NewQuickMoodLog is the request body for a single-tap emoji mood log
type NewQuickMoodLog struct {
	UserID    int64  `json:"user_id"`
	MoodEmoji string `json:"mood_emoji"`
}

// Confidence returns the sentiment score as a whole percentage
func (m MoodLog) Confidence() int {
	score := m.SentimentScore
	if score < 0 {
		score = 0
	}
	if score > 1 {
		score = 1
	}
	return int(score*100 + 0.5)
}
