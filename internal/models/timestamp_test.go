package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestTimestampUnmarshal(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected time.Time
	}{
		{
			name:     "rfc3339 with offset",
			input:    `"2024-07-01T10:00:00+08:00"`,
			expected: time.Date(2024, 7, 1, 2, 0, 0, 0, time.UTC),
		},
		{
			name:     "naive iso with microseconds",
			input:    `"2024-07-01T10:00:00.123456"`,
			expected: time.Date(2024, 7, 1, 10, 0, 0, 123456000, time.UTC),
		},
		{
			name:     "space separated",
			input:    `"2024-07-01 10:00:00"`,
			expected: time.Date(2024, 7, 1, 10, 0, 0, 0, time.UTC),
		},
		{
			name:  "null",
			input: `null`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ts Timestamp
			require.NoError(t, json.Unmarshal([]byte(tt.input), &ts))
			require.True(t, tt.expected.Equal(ts.Time), "got %s", ts.Time)
		})
	}
}

func TestTimestampUnmarshalRejectsGarbage(t *testing.T) {
	var ts Timestamp
	require.Error(t, json.Unmarshal([]byte(`"yesterday"`), &ts))
}

func TestNewVitalOmitsAbsentFields(t *testing.T) {
	sugar := 110.5
	payload, err := json.Marshal(NewVital{UserID: 7, BloodSugar: &sugar})
	require.NoError(t, err)
	require.JSONEq(t, `{"user_id":7,"blood_sugar":110.5}`, string(payload))
}

func TestMoodLogConfidence(t *testing.T) {
	require.Equal(t, 87, MoodLog{SentimentScore: 0.87}.Confidence())
	require.Equal(t, 100, MoodLog{SentimentScore: 1.4}.Confidence())
	require.Equal(t, 0, MoodLog{SentimentScore: -0.2}.Confidence())
}
