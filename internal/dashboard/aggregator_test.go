package dashboard

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/balkashynov/healthmate/internal/api"
	"github.com/balkashynov/healthmate/internal/models"
	"github.com/balkashynov/healthmate/internal/session"
)

type stubSource struct {
	mu             sync.Mutex
	dashboardFn    func(ctx context.Context, userID int64) (models.DashboardSummary, error)
	remindersFn    func(ctx context.Context, userID int64) ([]models.Reminder, error)
	dashboardCalls int
	reminderCalls  int
}

func (s *stubSource) GetDashboard(ctx context.Context, userID int64) (models.DashboardSummary, error) {
	s.mu.Lock()
	s.dashboardCalls++
	s.mu.Unlock()
	return s.dashboardFn(ctx, userID)
}

func (s *stubSource) GetReminders(ctx context.Context, userID int64) ([]models.Reminder, error) {
	s.mu.Lock()
	s.reminderCalls++
	s.mu.Unlock()
	return s.remindersFn(ctx, userID)
}

func newTestAggregator(source Source) *Aggregator {
	agg := NewAggregator(source, DefaultLimits, slog.New(slog.NewTextHandler(io.Discard, nil)))
	agg.now = func() time.Time { return time.Date(2024, 7, 1, 9, 0, 0, 0, time.UTC) }
	return agg
}

// refreshAs binds userID and loads its dashboard
func refreshAs(agg *Aggregator, userID int64) (View, error) {
	agg.Bind(&session.Session{UserID: userID})
	return agg.Refresh(context.Background())
}

func sampleSummary() models.DashboardSummary {
	return models.DashboardSummary{
		User: &models.User{ID: 42, Name: "Ana"},
		Medications: []models.Medication{
			{ID: 1, Name: "Metformin", ReminderTimes: []string{"08:00"}},
			{ID: 2, Name: "Lisinopril"},
			{ID: 3, Name: "Aspirin"},
			{ID: 4, Name: "Vitamin D"},
		},
		RecentMood: &models.MoodLog{ID: 9, SentimentLabel: models.SentimentNeutral, SentimentScore: 0.5},
		Insights:   &models.Insights{StreakCount: 5},
	}
}

func sampleReminders(n int) []models.Reminder {
	out := make([]models.Reminder, n)
	for i := range out {
		out[i] = models.Reminder{Medication: "Metformin", Time: time.Date(0, 1, 1, 8+i, 0, 0, 0, time.UTC).Format("15:04")}
	}
	return out
}

func TestLoadMergesSummaryAndReminders(t *testing.T) {
	source := &stubSource{
		dashboardFn: func(context.Context, int64) (models.DashboardSummary, error) { return sampleSummary(), nil },
		remindersFn: func(context.Context, int64) ([]models.Reminder, error) { return sampleReminders(5), nil },
	}
	agg := newTestAggregator(source)

	view, err := refreshAs(agg, 42)
	require.NoError(t, err)
	require.Equal(t, int64(42), view.UserID)
	require.Equal(t, "Ana", view.UserName)
	require.Len(t, view.Reminders, 5)
	require.False(t, view.RemindersDegraded)
	require.Equal(t, 5, view.StreakCount())

	top := view.TopReminders()
	require.Len(t, top, 3)
	require.Equal(t, []string{"08:00", "09:00", "10:00"}, []string{top[0].Time, top[1].Time, top[2].Time})

	meds, hidden := view.VisibleMedications()
	require.Len(t, meds, 3)
	require.Equal(t, 1, hidden)

	published, ok := agg.View()
	require.True(t, ok)
	require.Equal(t, view.LoadedAt, published.LoadedAt)
}

func TestLoadFetchesConcurrently(t *testing.T) {
	summaryStarted := make(chan struct{})
	remindersStarted := make(chan struct{})
	wait := func(ch chan struct{}) error {
		select {
		case <-ch:
			return nil
		case <-time.After(2 * time.Second):
			return errors.New("fetches were serialized")
		}
	}

	source := &stubSource{
		dashboardFn: func(context.Context, int64) (models.DashboardSummary, error) {
			close(summaryStarted)
			if err := wait(remindersStarted); err != nil {
				return models.DashboardSummary{}, err
			}
			return sampleSummary(), nil
		},
		remindersFn: func(context.Context, int64) ([]models.Reminder, error) {
			close(remindersStarted)
			if err := wait(summaryStarted); err != nil {
				return nil, err
			}
			return sampleReminders(1), nil
		},
	}

	view, err := refreshAs(newTestAggregator(source), 42)
	require.NoError(t, err)
	require.Len(t, view.Reminders, 1)
}

func TestReminderFailureYieldsEmptyReminders(t *testing.T) {
	source := &stubSource{
		dashboardFn: func(context.Context, int64) (models.DashboardSummary, error) { return sampleSummary(), nil },
		remindersFn: func(context.Context, int64) ([]models.Reminder, error) {
			return nil, &api.RemoteFailure{Resource: api.ResourceReminders, StatusCode: 500}
		},
	}
	agg := newTestAggregator(source)

	view, err := refreshAs(agg, 42)
	require.NoError(t, err)
	require.NotNil(t, view.Reminders)
	require.Empty(t, view.Reminders)
	require.True(t, view.RemindersDegraded)
	require.Len(t, view.Medications, 4)
	require.NotNil(t, view.RecentMood)
}

func TestSummaryFailureSuppressesView(t *testing.T) {
	fail := false
	source := &stubSource{
		dashboardFn: func(context.Context, int64) (models.DashboardSummary, error) {
			if fail {
				return models.DashboardSummary{}, &api.RemoteFailure{Resource: api.ResourceDashboard, StatusCode: 500}
			}
			return sampleSummary(), nil
		},
		remindersFn: func(context.Context, int64) ([]models.Reminder, error) { return sampleReminders(2), nil },
	}
	agg := newTestAggregator(source)

	_, err := refreshAs(agg, 42)
	require.NoError(t, err)

	fail = true
	_, err = agg.Refresh(context.Background())
	failure, ok := api.IsRemoteFailure(err)
	require.True(t, ok)
	require.Equal(t, api.ResourceDashboard, failure.Resource)

	_, ok = agg.View()
	require.False(t, ok, "no partial dashboard after a failed summary")
}

func TestRefreshRequiresBoundUser(t *testing.T) {
	agg := newTestAggregator(&stubSource{})
	_, err := agg.Refresh(context.Background())
	require.ErrorIs(t, err, ErrNotBound)
}

func TestBindFollowsSession(t *testing.T) {
	source := &stubSource{
		dashboardFn: func(context.Context, int64) (models.DashboardSummary, error) { return sampleSummary(), nil },
		remindersFn: func(context.Context, int64) ([]models.Reminder, error) { return nil, nil },
	}
	agg := newTestAggregator(source)

	agg.Bind(&session.Session{UserID: 42})
	view, err := agg.Refresh(context.Background())
	require.NoError(t, err)
	require.NotNil(t, view.Reminders)

	agg.Bind(&session.Session{UserID: 42})
	_, ok := agg.View()
	require.True(t, ok, "rebinding the same user keeps the view")

	agg.Bind(nil)
	_, ok = agg.View()
	require.False(t, ok)
	_, err = agg.Refresh(context.Background())
	require.ErrorIs(t, err, ErrNotBound)
}

func TestLoadDiscardedWhenSessionChanges(t *testing.T) {
	agg := (*Aggregator)(nil)
	source := &stubSource{
		dashboardFn: func(context.Context, int64) (models.DashboardSummary, error) {
			agg.Bind(nil) // logout while the request is in flight
			return sampleSummary(), nil
		},
		remindersFn: func(context.Context, int64) ([]models.Reminder, error) { return nil, nil },
	}
	agg = newTestAggregator(source)

	_, err := refreshAs(agg, 42)
	require.ErrorIs(t, err, ErrSessionChanged)
	_, ok := agg.View()
	require.False(t, ok)
}

func TestReloadRemindersKeepsSummary(t *testing.T) {
	reminders := sampleReminders(1)
	var remindersErr error
	source := &stubSource{
		dashboardFn: func(context.Context, int64) (models.DashboardSummary, error) { return sampleSummary(), nil },
		remindersFn: func(context.Context, int64) ([]models.Reminder, error) { return reminders, remindersErr },
	}
	agg := newTestAggregator(source)
	_, err := refreshAs(agg, 42)
	require.NoError(t, err)

	reminders = sampleReminders(2)
	view, err := agg.ReloadReminders(context.Background())
	require.NoError(t, err)
	require.Len(t, view.Reminders, 2)
	require.Len(t, view.Medications, 4)
	require.Equal(t, 1, source.dashboardCalls)
	require.Equal(t, 2, source.reminderCalls)

	remindersErr = errors.New("timeout")
	view, err = agg.ReloadReminders(context.Background())
	require.NoError(t, err)
	require.Empty(t, view.Reminders)
	require.True(t, view.RemindersDegraded)
}

func TestViewIsACopy(t *testing.T) {
	source := &stubSource{
		dashboardFn: func(context.Context, int64) (models.DashboardSummary, error) { return sampleSummary(), nil },
		remindersFn: func(context.Context, int64) ([]models.Reminder, error) { return sampleReminders(1), nil },
	}
	agg := newTestAggregator(source)
	view, err := refreshAs(agg, 42)
	require.NoError(t, err)

	view.Medications[0].Name = "changed"
	view.Medications[0].ReminderTimes[0] = "23:59"
	view.Reminders[0].Time = "23:59"

	again, ok := agg.View()
	require.True(t, ok)
	require.Equal(t, "Metformin", again.Medications[0].Name)
	require.Equal(t, "08:00", again.Medications[0].ReminderTimes[0])
	require.Equal(t, "08:00", again.Reminders[0].Time)
}

func TestRefreshFetchesOnlyTheBoundUser(t *testing.T) {
	var mu sync.Mutex
	var requested []int64
	source := &stubSource{
		dashboardFn: func(_ context.Context, userID int64) (models.DashboardSummary, error) {
			mu.Lock()
			requested = append(requested, userID)
			mu.Unlock()
			return models.DashboardSummary{User: &models.User{ID: userID}}, nil
		},
		remindersFn: func(context.Context, int64) ([]models.Reminder, error) { return nil, nil },
	}
	agg := newTestAggregator(source)

	view, err := refreshAs(agg, 42)
	require.NoError(t, err)
	require.Equal(t, int64(42), view.UserID)

	agg.Bind(&session.Session{UserID: 7})
	_, ok := agg.View()
	require.False(t, ok, "switching users drops the previous view")

	view, err = agg.Refresh(context.Background())
	require.NoError(t, err)
	require.Equal(t, int64(7), view.UserID)
	require.Equal(t, []int64{42, 7}, requested)
}

func TestLoadDoesNotRebind(t *testing.T) {
	source := &stubSource{
		dashboardFn: func(context.Context, int64) (models.DashboardSummary, error) { return sampleSummary(), nil },
		remindersFn: func(context.Context, int64) ([]models.Reminder, error) { return nil, nil },
	}
	agg := newTestAggregator(source)

	_, err := agg.Load(context.Background(), 42)
	require.ErrorIs(t, err, ErrNotBound)

	_, err = refreshAs(agg, 42)
	require.NoError(t, err)

	_, err = agg.Load(context.Background(), 7)
	require.ErrorIs(t, err, ErrSessionChanged)
	require.Equal(t, 1, source.dashboardCalls)

	view, ok := agg.View()
	require.True(t, ok, "a refused load keeps the bound user's view")
	require.Equal(t, int64(42), view.UserID)

	view, err = agg.Load(context.Background(), 42)
	require.NoError(t, err)
	require.Equal(t, int64(42), view.UserID)
}
