package models

// User is an account on the remote service
type User struct {
	ID             int64     `json:"id"`
	Name           string    `json:"name"`
	Age            int       `json:"age"`
	CaregiverEmail string    `json:"caregiver_email"`
	CreatedAt      Timestamp `json:"created_at"`
}

// NewUser is the request body for account creation
type NewUser struct {
	Name           string `json:"name"`
	Age            int    `json:"age"`
	CaregiverEmail string `json:"caregiver_email"`
}

// Notification is a message forwarded to the user's caregiver
type Notification struct {
	UserID   int64  `json:"user_id"`
	Message  string `json:"message"`
	IsUrgent bool   `json:"is_urgent"`
}

// NotificationAck is the delivery acknowledgment for a Notification
type NotificationAck struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
