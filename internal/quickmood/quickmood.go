// Package quickmood logs a mood with a single emoji and brings the
// dashboard up to date before accepting another one.
package quickmood

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/balkashynov/healthmate/internal/dashboard"
	"github.com/balkashynov/healthmate/internal/forms"
	"github.com/balkashynov/healthmate/internal/models"
	"github.com/balkashynov/healthmate/internal/parser"
	"github.com/balkashynov/healthmate/internal/session"
)

// ErrInFlight is returned while an earlier quick log is still settling
var ErrInFlight = forms.ErrInFlight

// Gateway posts quick mood logs
type Gateway interface {
	CreateQuickMoodLog(ctx context.Context, in models.NewQuickMoodLog) (models.MoodLog, error)
}

// Dashboard is reloaded after every logged mood
type Dashboard interface {
	Refresh(ctx context.Context) (dashboard.View, error)
	ReloadReminders(ctx context.Context) (dashboard.View, error)
}

// Result of a quick log. RefreshErr reports a failed dashboard reload; the
// mood itself was still logged.
type Result struct {
	Log        models.MoodLog
	View       dashboard.View
	RefreshErr error
}

// Flow is the single-tap mood control
type Flow struct {
	controller *forms.Controller[parser.Emoji, models.NewQuickMoodLog, models.MoodLog]
	dashboard  Dashboard
	logger     *slog.Logger

	mu       sync.Mutex
	inFlight bool
}

func New(gateway Gateway, sessions forms.SessionSource, dash Dashboard, logger *slog.Logger) *Flow {
	if logger == nil {
		logger = slog.Default()
	}
	controller := forms.NewController(forms.Spec[parser.Emoji, models.NewQuickMoodLog, models.MoodLog]{
		Name:    "quick mood",
		Initial: func() parser.Emoji { return "" },
		Validate: func(e parser.Emoji) (models.NewQuickMoodLog, error) {
			parsed, err := parser.ParseEmoji(string(e))
			if err != nil {
				return models.NewQuickMoodLog{}, &forms.ValidationError{Field: "mood_emoji", Message: err.Error()}
			}
			return models.NewQuickMoodLog{MoodEmoji: string(parsed)}, nil
		},
		Send: func(ctx context.Context, sess session.Session, req models.NewQuickMoodLog) (models.MoodLog, error) {
			req.UserID = sess.UserID
			return gateway.CreateQuickMoodLog(ctx, req)
		},
		SuccessMessage: "Mood logged!",
		FailureMessage: "Failed to log mood. Please try again.",
	}, sessions, logger)

	return &Flow{
		controller: controller,
		dashboard:  dash,
		logger:     logger.With("component", "quickmood"),
	}
}

// InFlight reports whether a log is still settling
func (f *Flow) InFlight() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.inFlight
}

// Status of the last quick log
func (f *Flow) Status() forms.Status {
	return f.controller.Status()
}

// Log posts emoji, then refreshes the dashboard and its reminders in that
// order. The guard is held until both reloads finish.
func (f *Flow) Log(ctx context.Context, emoji parser.Emoji) (Result, error) {
	f.mu.Lock()
	if f.inFlight {
		f.mu.Unlock()
		return Result{}, ErrInFlight
	}
	f.inFlight = true
	f.mu.Unlock()
	defer func() {
		f.mu.Lock()
		f.inFlight = false
		f.mu.Unlock()
	}()

	logged, err := f.controller.SubmitWith(ctx, emoji)
	if err != nil {
		return Result{}, err
	}
	f.logger.Debug("quick mood logged", "emoji", string(emoji), "sentiment", logged.SentimentLabel)

	res := Result{Log: logged}
	var errs []error
	if view, err := f.dashboard.Refresh(ctx); err != nil {
		errs = append(errs, err)
	} else {
		res.View = view
	}
	if view, err := f.dashboard.ReloadReminders(ctx); err != nil {
		errs = append(errs, err)
	} else {
		res.View = view
	}
	if len(errs) > 0 {
		res.RefreshErr = errors.Join(errs...)
		f.logger.Warn("dashboard reload after quick mood failed", "error", res.RefreshErr)
	}

	return res, nil
}
