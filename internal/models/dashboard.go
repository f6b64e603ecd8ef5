package models

// Insights are the server-generated mood and medication observations
type Insights struct {
	MoodInsight       string `json:"mood_insight"`
	MedicationInsight string `json:"medication_insight"`
	StreakCount       int    `json:"streak_count"`
	StreakType        string `json:"streak_type"` // medication, mood
}

// DashboardSummary is the payload of the dashboard endpoint
type DashboardSummary struct {
	User         *User        `json:"user"`
	Medications  []Medication `json:"medications"`
	RecentMood   *MoodLog     `json:"recent_mood"`
	RecentVitals []Vital      `json:"recent_vitals"`
	Insights     *Insights    `json:"insights"`
}
