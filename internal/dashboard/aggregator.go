// Package dashboard merges the dashboard summary and the adaptive reminders
// into a single view model.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/balkashynov/healthmate/internal/models"
	"github.com/balkashynov/healthmate/internal/session"
)

var (
	// ErrNotBound is returned by Refresh when no user is bound
	ErrNotBound = errors.New("dashboard has no bound user")
	// ErrSessionChanged is returned when the bound user changed while a load
	// was in flight. The result is discarded.
	ErrSessionChanged = errors.New("session changed during dashboard load")
)

// Source is the subset of the gateway the aggregator reads from
type Source interface {
	GetDashboard(ctx context.Context, userID int64) (models.DashboardSummary, error)
	GetReminders(ctx context.Context, userID int64) ([]models.Reminder, error)
}

// Aggregator owns the current dashboard View
type Aggregator struct {
	source Source
	limits Limits
	logger *slog.Logger
	now    func() time.Time

	mu         sync.Mutex
	userID     int64
	generation uint64
	view       *View
}

// NewAggregator builds an aggregator with no bound user
func NewAggregator(source Source, limits Limits, logger *slog.Logger) *Aggregator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Aggregator{
		source: source,
		limits: limits,
		logger: logger.With("component", "dashboard"),
		now:    time.Now,
	}
}

// Bind follows the session store. A different user, or logout, drops the
// current view.
func (a *Aggregator) Bind(s *session.Session) {
	var userID int64
	if s != nil {
		userID = s.UserID
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if userID == a.userID {
		return
	}
	a.userID = userID
	a.generation++
	a.view = nil
}

// View returns a copy of the current snapshot
func (a *Aggregator) View() (View, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.view == nil {
		return View{}, false
	}
	return a.view.clone(), true
}

// Load loads the dashboard of userID, which must be the bound user. It never
// rebinds: a different user yields ErrSessionChanged without any fetch.
func (a *Aggregator) Load(ctx context.Context, userID int64) (View, error) {
	a.mu.Lock()
	bound, gen := a.userID, a.generation
	a.mu.Unlock()

	switch {
	case bound == 0:
		return View{}, ErrNotBound
	case userID != bound:
		a.logger.Debug("load for unbound user refused", "user_id", userID, "bound_user_id", bound)
		return View{}, ErrSessionChanged
	}
	return a.load(ctx, userID, gen)
}

// load fetches the summary and reminders for the user bound at generation
// gen concurrently and publishes the merged view. A failed summary drops the
// view and returns an error; a failed reminder fetch only empties the
// reminder list.
func (a *Aggregator) load(ctx context.Context, userID int64, gen uint64) (View, error) {
	var (
		summary     models.DashboardSummary
		reminders   []models.Reminder
		reminderErr error
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s, err := a.source.GetDashboard(gctx, userID)
		if err != nil {
			return fmt.Errorf("load dashboard: %w", err)
		}
		summary = s
		return nil
	})
	g.Go(func() error {
		r, err := a.source.GetReminders(gctx, userID)
		if err != nil {
			reminderErr = err
			return nil
		}
		reminders = r
		return nil
	})

	if err := g.Wait(); err != nil {
		a.logger.Warn("dashboard load failed", "user_id", userID, "error", err)
		a.mu.Lock()
		if a.generation == gen {
			a.view = nil
		}
		a.mu.Unlock()
		return View{}, err
	}

	degraded := reminderErr != nil
	if degraded {
		a.logger.Warn("reminders unavailable, showing dashboard without them", "user_id", userID, "error", reminderErr)
	}

	view := a.compose(userID, summary, reminders, degraded)
	if err := a.publish(gen, view); err != nil {
		return View{}, err
	}
	return view.clone(), nil
}

// Refresh reloads the dashboard for the bound user
func (a *Aggregator) Refresh(ctx context.Context) (View, error) {
	a.mu.Lock()
	userID, gen := a.userID, a.generation
	a.mu.Unlock()

	if userID == 0 {
		return View{}, ErrNotBound
	}
	return a.load(ctx, userID, gen)
}

// ReloadReminders refetches only the reminders and republishes the current
// summary with them. Without a current view it falls back to Refresh.
func (a *Aggregator) ReloadReminders(ctx context.Context) (View, error) {
	a.mu.Lock()
	userID, gen := a.userID, a.generation
	var current View
	hasView := a.view != nil
	if hasView {
		current = a.view.clone()
	}
	a.mu.Unlock()

	if userID == 0 {
		return View{}, ErrNotBound
	}
	if !hasView {
		return a.Refresh(ctx)
	}

	reminders, err := a.source.GetReminders(ctx, userID)
	current.RemindersDegraded = err != nil
	if err != nil {
		a.logger.Warn("reminders unavailable", "user_id", userID, "error", err)
		reminders = nil
	}
	current.Reminders = nonNil(reminders)
	current.LoadedAt = a.now()

	if err := a.publish(gen, current); err != nil {
		return View{}, err
	}
	return current.clone(), nil
}

func (a *Aggregator) compose(userID int64, summary models.DashboardSummary, reminders []models.Reminder, degraded bool) View {
	view := View{
		UserID:            userID,
		Medications:       summary.Medications,
		RecentMood:        summary.RecentMood,
		RecentVitals:      summary.RecentVitals,
		Insights:          summary.Insights,
		Reminders:         nonNil(reminders),
		RemindersDegraded: degraded,
		LoadedAt:          a.now(),
		limits:            a.limits,
	}
	if summary.User != nil {
		view.UserName = summary.User.Name
	}
	return view.clone()
}

func (a *Aggregator) publish(gen uint64, view View) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.generation != gen {
		return ErrSessionChanged
	}
	a.view = &view
	return nil
}

func nonNil(reminders []models.Reminder) []models.Reminder {
	if reminders == nil {
		return []models.Reminder{}
	}
	return reminders
}
