package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/balkashynov/healthmate/internal/models"
)

// Resource names carried by RemoteFailure
const (
	ResourceUser         = "user"
	ResourceMedication   = "medication"
	ResourceMedications  = "medications"
	ResourceMoodLog      = "mood log"
	ResourceQuickMoodLog = "quick mood log"
	ResourceVital        = "vital"
	ResourceVitals       = "vitals"
	ResourceDashboard    = "dashboard"
	ResourceReminders    = "reminders"
	ResourceInsights     = "insights"
	ResourceNotification = "notification"
)

// CreateUser registers a new account
func (c *Client) CreateUser(ctx context.Context, in models.NewUser) (models.User, error) {
	var out models.User
	err := c.do(ctx, ResourceUser, http.MethodPost, "/users", in, &out)
	return out, err
}

// GetUser fetches an existing account
func (c *Client) GetUser(ctx context.Context, userID int64) (models.User, error) {
	var out models.User
	err := c.do(ctx, ResourceUser, http.MethodGet, fmt.Sprintf("/users/%d", userID), nil, &out)
	return out, err
}

// CreateMedication adds a medication with its reminder schedule
func (c *Client) CreateMedication(ctx context.Context, in models.NewMedication) (models.Medication, error) {
	var out models.Medication
	err := c.do(ctx, ResourceMedication, http.MethodPost, "/medications", in, &out)
	return out, err
}

// ListMedications returns the user's active medications
func (c *Client) ListMedications(ctx context.Context, userID int64) ([]models.Medication, error) {
	out := []models.Medication{}
	err := c.do(ctx, ResourceMedications, http.MethodGet, fmt.Sprintf("/medications/%d", userID), nil, &out)
	return out, err
}

// CreateMoodLog logs free-text mood; the server attaches the sentiment
func (c *Client) CreateMoodLog(ctx context.Context, in models.NewMoodLog) (models.MoodLog, error) {
	var out models.MoodLog
	err := c.do(ctx, ResourceMoodLog, http.MethodPost, "/mood-logs", in, &out)
	return out, err
}

// CreateQuickMoodLog logs a single emoji mood
func (c *Client) CreateQuickMoodLog(ctx context.Context, in models.NewQuickMoodLog) (models.MoodLog, error) {
	var out models.MoodLog
	err := c.do(ctx, ResourceQuickMoodLog, http.MethodPost, "/mood-logs/quick", in, &out)
	return out, err
}

// CreateVital logs the measurements present in in
func (c *Client) CreateVital(ctx context.Context, in models.NewVital) (models.Vital, error) {
	var out models.Vital
	err := c.do(ctx, ResourceVital, http.MethodPost, "/vitals", in, &out)
	return out, err
}

// ListVitals returns the user's vitals, newest first
func (c *Client) ListVitals(ctx context.Context, userID int64) ([]models.Vital, error) {
	out := []models.Vital{}
	err := c.do(ctx, ResourceVitals, http.MethodGet, fmt.Sprintf("/vitals/%d", userID), nil, &out)
	return out, err
}

// GetDashboard returns the dashboard summary
func (c *Client) GetDashboard(ctx context.Context, userID int64) (models.DashboardSummary, error) {
	var out models.DashboardSummary
	err := c.do(ctx, ResourceDashboard, http.MethodGet, fmt.Sprintf("/dashboard/%d", userID), nil, &out)
	return out, err
}

// GetReminders returns mood-adaptive reminders in server order
func (c *Client) GetReminders(ctx context.Context, userID int64) ([]models.Reminder, error) {
	var out models.ReminderList
	if err := c.do(ctx, ResourceReminders, http.MethodGet, fmt.Sprintf("/reminders/%d", userID), nil, &out); err != nil {
		return nil, err
	}
	if out.Reminders == nil {
		return []models.Reminder{}, nil
	}
	return out.Reminders, nil
}

// GetInsights returns the server's insight record
func (c *Client) GetInsights(ctx context.Context, userID int64) (models.Insights, error) {
	var out models.Insights
	err := c.do(ctx, ResourceInsights, http.MethodGet, fmt.Sprintf("/insights/%d", userID), nil, &out)
	return out, err
}

// SendNotification forwards a message to the user's caregiver
func (c *Client) SendNotification(ctx context.Context, in models.Notification) (models.NotificationAck, error) {
	var out models.NotificationAck
	err := c.do(ctx, ResourceNotification, http.MethodPost, "/notifications/send", in, &out)
	return out, err
}
