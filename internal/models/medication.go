package models

// Medication is a medication with its daily reminder schedule
type Medication struct {
	ID            int64     `json:"id"`
	UserID        int64     `json:"user_id"`
	Name          string    `json:"name"`
	Dosage        string    `json:"dosage"`        // free text, e.g. "500mg twice daily"
	ReminderTimes []string  `json:"reminder_times"` // distinct HH:MM values
	IsActive      bool      `json:"is_active"`
	CreatedAt     Timestamp `json:"created_at"`
}

// NewMedication is the request body for medication creation
type NewMedication struct {
	UserID        int64    `json:"user_id"`
	Name          string   `json:"name"`
	Dosage        string   `json:"dosage"`
	ReminderTimes []string `json:"reminder_times"`
}

// Reminder is a server-computed, possibly mood-adapted, medication reminder
type Reminder struct {
	Medication string `json:"medication"`
	Time       string `json:"time"`
	Text       string `json:"reminder"`
	MoodBased  bool   `json:"mood_based"`
}

// ReminderList is the envelope returned by the reminders endpoint
type ReminderList struct {
	Reminders []Reminder `json:"reminders"`
}
