package forms

import (
	"context"
	"log/slog"
	"strings"

	"github.com/balkashynov/healthmate/internal/dashboard"
	"github.com/balkashynov/healthmate/internal/models"
	"github.com/balkashynov/healthmate/internal/session"
)

// MoodFields are the editable fields of the mood form
type MoodFields struct {
	Text string
}

// MoodGateway is the remote surface the mood form needs
type MoodGateway interface {
	CreateMoodLog(ctx context.Context, in models.NewMoodLog) (models.MoodLog, error)
}

// Refresher reloads the dashboard after a mood changes it
type Refresher interface {
	Refresh(ctx context.Context) (dashboard.View, error)
}

// MoodForm logs free-text mood. The server attaches a sentiment to the
// returned entry.
type MoodForm struct {
	*Controller[MoodFields, models.NewMoodLog, models.MoodLog]
}

// NewMoodForm builds the form. refresher may be nil.
func NewMoodForm(gateway MoodGateway, sessions SessionSource, refresher Refresher, logger *slog.Logger) *MoodForm {
	spec := Spec[MoodFields, models.NewMoodLog, models.MoodLog]{
		Name:     "mood",
		Initial:  func() MoodFields { return MoodFields{} },
		Validate: ValidateMood,
		Send: func(ctx context.Context, sess session.Session, req models.NewMoodLog) (models.MoodLog, error) {
			req.UserID = sess.UserID
			return gateway.CreateMoodLog(ctx, req)
		},
		SuccessMessage: "Mood logged successfully! Your sentiment has been analyzed.",
		FailureMessage: "Failed to log mood. Please try again.",
	}
	if refresher != nil {
		spec.SideEffects = append(spec.SideEffects, SideEffect[models.MoodLog]{
			Name: "refresh dashboard",
			Run: func(ctx context.Context, _ models.MoodLog) error {
				_, err := refresher.Refresh(ctx)
				return err
			},
		})
	}
	return &MoodForm{Controller: NewController(spec, sessions, logger)}
}

// ValidateMood requires non-blank text
func ValidateMood(fields MoodFields) (models.NewMoodLog, error) {
	text := strings.TrimSpace(fields.Text)
	if text == "" {
		return models.NewMoodLog{}, &ValidationError{Field: "mood_text", Message: "Please describe how you feel"}
	}
	return models.NewMoodLog{MoodText: text}, nil
}
