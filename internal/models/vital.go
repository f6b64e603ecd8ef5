package models

// Vital is a set of measurements taken at one point in time. Every
// measurement is optional.
type Vital struct {
	ID                     int64     `json:"id"`
	UserID                 int64     `json:"user_id"`
	BloodPressureSystolic  *int      `json:"blood_pressure_systolic"`
	BloodPressureDiastolic *int      `json:"blood_pressure_diastolic"`
	BloodSugar             *float64  `json:"blood_sugar"`
	SleepHours             *float64  `json:"sleep_hours"`
	CreatedAt              Timestamp `json:"created_at"`
}

// NewVital is the request body for a vitals entry. A field is sent iff it
// is non-nil.
type NewVital struct {
	UserID                 int64    `json:"user_id"`
	BloodPressureSystolic  *int     `json:"blood_pressure_systolic,omitempty"`
	BloodPressureDiastolic *int     `json:"blood_pressure_diastolic,omitempty"`
	BloodSugar             *float64 `json:"blood_sugar,omitempty"`
	SleepHours             *float64 `json:"sleep_hours,omitempty"`
}

// Empty reports whether no measurement is present
func (v NewVital) Empty() bool {
	return v.BloodPressureSystolic == nil &&
		v.BloodPressureDiastolic == nil &&
		v.BloodSugar == nil &&
		v.SleepHours == nil
}
