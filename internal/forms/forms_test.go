package forms

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/balkashynov/healthmate/internal/api"
	"github.com/balkashynov/healthmate/internal/dashboard"
	"github.com/balkashynov/healthmate/internal/models"
	"github.com/balkashynov/healthmate/internal/session"
)

type fakeGateway struct {
	mu sync.Mutex

	medications []models.NewMedication
	moods       []models.NewMoodLog
	vitals      []models.NewVital
	users       []models.NewUser
	listCalls   int

	createErr error
	listErr   error
	listed    []models.Vital
	block     chan struct{}
	entered   chan struct{}
}

func (g *fakeGateway) wait() {
	if g.entered != nil {
		close(g.entered)
	}
	if g.block != nil {
		<-g.block
	}
}

func (g *fakeGateway) CreateMedication(_ context.Context, in models.NewMedication) (models.Medication, error) {
	g.mu.Lock()
	g.medications = append(g.medications, in)
	g.mu.Unlock()
	g.wait()
	if g.createErr != nil {
		return models.Medication{}, g.createErr
	}
	return models.Medication{ID: 7, UserID: in.UserID, Name: in.Name, Dosage: in.Dosage, ReminderTimes: in.ReminderTimes, IsActive: true}, nil
}

func (g *fakeGateway) ListMedications(_ context.Context, userID int64) ([]models.Medication, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.listCalls++
	if g.listErr != nil {
		return nil, g.listErr
	}
	out := make([]models.Medication, 0, len(g.medications))
	for i, m := range g.medications {
		out = append(out, models.Medication{ID: int64(i + 1), UserID: userID, Name: m.Name, Dosage: m.Dosage, ReminderTimes: m.ReminderTimes})
	}
	return out, nil
}

func (g *fakeGateway) CreateMoodLog(_ context.Context, in models.NewMoodLog) (models.MoodLog, error) {
	g.mu.Lock()
	g.moods = append(g.moods, in)
	g.mu.Unlock()
	if g.createErr != nil {
		return models.MoodLog{}, g.createErr
	}
	return models.MoodLog{ID: 3, UserID: in.UserID, MoodText: in.MoodText, SentimentLabel: models.SentimentPositive, SentimentScore: 0.9}, nil
}

func (g *fakeGateway) CreateVital(_ context.Context, in models.NewVital) (models.Vital, error) {
	g.mu.Lock()
	g.vitals = append(g.vitals, in)
	g.mu.Unlock()
	if g.createErr != nil {
		return models.Vital{}, g.createErr
	}
	return models.Vital{ID: 4, UserID: in.UserID, BloodSugar: in.BloodSugar}, nil
}

func (g *fakeGateway) ListVitals(_ context.Context, _ int64) ([]models.Vital, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.listCalls++
	if g.listErr != nil {
		return nil, g.listErr
	}
	return g.listed, nil
}

func (g *fakeGateway) CreateUser(_ context.Context, in models.NewUser) (models.User, error) {
	g.mu.Lock()
	g.users = append(g.users, in)
	g.mu.Unlock()
	if g.createErr != nil {
		return models.User{}, g.createErr
	}
	return models.User{ID: 42, Name: in.Name, Age: in.Age, CaregiverEmail: in.CaregiverEmail}, nil
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func loggedIn(t *testing.T) *session.Store {
	t.Helper()
	store := session.NewStore(session.NewMemoryPersister(), "healthmate_user", quietLogger())
	require.NoError(t, store.Login(context.Background(), session.Session{UserID: 42, Name: "Ana"}))
	return store
}

func TestMedicationSubmitSuccess(t *testing.T) {
	gw := &fakeGateway{}
	form := NewMedicationForm(gw, loggedIn(t), quietLogger())

	require.NoError(t, form.Edit(func(f *MedicationFields) {
		f.Name = "Metformin"
		f.Dosage = "500mg"
	}))
	require.NoError(t, form.AddReminderTime("8:00"))

	med, err := form.Submit(context.Background())
	require.NoError(t, err)
	require.Equal(t, int64(7), med.ID)

	require.Len(t, gw.medications, 1)
	require.Equal(t, models.NewMedication{UserID: 42, Name: "Metformin", Dosage: "500mg", ReminderTimes: []string{"08:00"}}, gw.medications[0])

	status := form.Status()
	require.Equal(t, StateSuccess, status.State)
	require.Equal(t, "Medication added successfully!", status.Message)
	require.False(t, status.Busy)
	require.Empty(t, status.SideEffectErrors)
	require.Equal(t, MedicationFields{}, form.Fields())

	require.Equal(t, 1, gw.listCalls)
	require.Len(t, form.Items(), 1)
}

func TestMedicationDuplicateTimeIgnored(t *testing.T) {
	form := NewMedicationForm(&fakeGateway{}, loggedIn(t), quietLogger())

	require.NoError(t, form.AddReminderTime("08:00"))
	require.NoError(t, form.AddReminderTime("08:00"))
	require.NoError(t, form.AddReminderTime("20:00"))
	require.Equal(t, []string{"08:00", "20:00"}, form.Fields().ReminderTimes)

	require.NoError(t, form.RemoveReminderTime("08:00"))
	require.Equal(t, []string{"20:00"}, form.Fields().ReminderTimes)

	var verr *ValidationError
	require.ErrorAs(t, form.AddReminderTime("25:00"), &verr)
	require.Equal(t, "reminder_times", verr.Field)
}

func TestValidateMedication(t *testing.T) {
	tests := []struct {
		name      string
		fields    MedicationFields
		wantField string
		wantTimes []string
	}{
		{name: "missing name", fields: MedicationFields{Dosage: "5mg", ReminderTimes: []string{"08:00"}}, wantField: "name"},
		{name: "blank dosage", fields: MedicationFields{Name: "Aspirin", Dosage: "  ", ReminderTimes: []string{"08:00"}}, wantField: "dosage"},
		{name: "no times", fields: MedicationFields{Name: "Aspirin", Dosage: "5mg"}, wantField: "reminder_times"},
		{name: "bad time", fields: MedicationFields{Name: "Aspirin", Dosage: "5mg", ReminderTimes: []string{"noon"}}, wantField: "reminder_times"},
		{name: "duplicates collapse", fields: MedicationFields{Name: "Metformin", Dosage: "500mg", ReminderTimes: []string{"08:00", "08:00", "20:00"}}, wantTimes: []string{"08:00", "20:00"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := ValidateMedication(tt.fields)
			if tt.wantField != "" {
				var verr *ValidationError
				require.ErrorAs(t, err, &verr)
				require.Equal(t, tt.wantField, verr.Field)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.wantTimes, req.ReminderTimes)
		})
	}
}

func TestValidationFailureMakesNoCall(t *testing.T) {
	gw := &fakeGateway{}
	form := NewVitalsForm(gw, loggedIn(t), 0, quietLogger())

	_, err := form.Submit(context.Background())
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	require.Equal(t, "vitals", verr.Field)

	require.Empty(t, gw.vitals)
	status := form.Status()
	require.Equal(t, StateError, status.State)
	require.Equal(t, "Please enter at least one vital sign", status.Message)
}

func TestNonFiniteVitalsStayLocal(t *testing.T) {
	gw := &fakeGateway{}
	form := NewVitalsForm(gw, loggedIn(t), 0, quietLogger())

	_, err := form.SubmitWith(context.Background(), VitalsFields{BloodSugar: "NaN", SleepHours: "7"})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	require.Equal(t, "blood_sugar", verr.Field)

	require.Empty(t, gw.vitals)
	status := form.Status()
	require.Equal(t, StateError, status.State)
	require.Equal(t, `Blood sugar "NaN" is not a number`, status.Message)
	require.Equal(t, "NaN", form.Fields().BloodSugar)
}

func TestVitalsOmitsAbsentFields(t *testing.T) {
	gw := &fakeGateway{}
	form := NewVitalsForm(gw, loggedIn(t), 0, quietLogger())

	_, err := form.SubmitWith(context.Background(), VitalsFields{BloodSugar: "110.5"})
	require.NoError(t, err)

	require.Len(t, gw.vitals, 1)
	sent := gw.vitals[0]
	require.Nil(t, sent.BloodPressureSystolic)
	require.Nil(t, sent.BloodPressureDiastolic)
	require.Nil(t, sent.SleepHours)
	require.NotNil(t, sent.BloodSugar)
	require.InDelta(t, 110.5, *sent.BloodSugar, 1e-9)
}

func TestValidateVitals(t *testing.T) {
	tests := []struct {
		name      string
		fields    VitalsFields
		wantField string
	}{
		{name: "all blank", fields: VitalsFields{Systolic: " "}, wantField: "vitals"},
		{name: "systolic not int", fields: VitalsFields{Systolic: "120.5"}, wantField: "blood_pressure_systolic"},
		{name: "diastolic low", fields: VitalsFields{Diastolic: "10"}, wantField: "blood_pressure_diastolic"},
		{name: "sugar high", fields: VitalsFields{BloodSugar: "900"}, wantField: "blood_sugar"},
		{name: "sleep text", fields: VitalsFields{SleepHours: "lots"}, wantField: "sleep_hours"},
		{name: "sugar NaN", fields: VitalsFields{BloodSugar: "NaN"}, wantField: "blood_sugar"},
		{name: "sleep Inf", fields: VitalsFields{SleepHours: "Inf"}, wantField: "sleep_hours"},
		{name: "full reading", fields: VitalsFields{Systolic: "120", Diastolic: "80", BloodSugar: "95", SleepHours: "7.5"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ValidateVitals(tt.fields)
			if tt.wantField == "" {
				require.NoError(t, err)
				return
			}
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			require.Equal(t, tt.wantField, verr.Field)
		})
	}
}

func TestVitalsKeepsNewestFive(t *testing.T) {
	base := time.Date(2024, 7, 1, 8, 0, 0, 0, time.UTC)
	var listed []models.Vital
	for i := 0; i < 7; i++ {
		listed = append(listed, models.Vital{ID: int64(i + 1), CreatedAt: models.Timestamp{Time: base.Add(time.Duration(i) * time.Hour)}})
	}
	gw := &fakeGateway{listed: listed}
	form := NewVitalsForm(gw, loggedIn(t), 0, quietLogger())

	_, err := form.SubmitWith(context.Background(), VitalsFields{SleepHours: "8"})
	require.NoError(t, err)

	recent := form.Recent()
	require.Len(t, recent, 5)
	require.Equal(t, int64(7), recent[0].ID)
	require.Equal(t, int64(3), recent[4].ID)
}

func TestSubmitWhileInFlightIsNoop(t *testing.T) {
	gw := &fakeGateway{block: make(chan struct{}), entered: make(chan struct{})}
	form := NewMedicationForm(gw, loggedIn(t), quietLogger())
	fields := MedicationFields{Name: "Aspirin", Dosage: "81mg", ReminderTimes: []string{"09:00"}}

	done := make(chan error, 1)
	go func() {
		_, err := form.SubmitWith(context.Background(), fields)
		done <- err
	}()
	<-gw.entered

	require.True(t, form.Status().Busy)
	_, err := form.SubmitWith(context.Background(), fields)
	require.ErrorIs(t, err, ErrInFlight)
	require.ErrorIs(t, form.Edit(func(f *MedicationFields) { f.Name = "x" }), ErrInFlight)

	close(gw.block)
	require.NoError(t, <-done)

	gw.mu.Lock()
	require.Len(t, gw.medications, 1)
	gw.mu.Unlock()
}

func TestRemoteFailurePreservesFields(t *testing.T) {
	gw := &fakeGateway{createErr: &api.RemoteFailure{Resource: "medication", StatusCode: http.StatusInternalServerError}}
	form := NewMedicationForm(gw, loggedIn(t), quietLogger())
	fields := MedicationFields{Name: "Aspirin", Dosage: "81mg", ReminderTimes: []string{"09:00"}}

	_, err := form.SubmitWith(context.Background(), fields)
	_, ok := api.IsRemoteFailure(err)
	require.True(t, ok)

	status := form.Status()
	require.Equal(t, StateError, status.State)
	require.Equal(t, "Failed to add medication. Please try again.", status.Message)
	require.Equal(t, fields, form.Fields())
	require.Zero(t, gw.listCalls)

	require.NoError(t, form.Edit(func(f *MedicationFields) { f.Dosage = "100mg" }))
	require.Equal(t, StateIdle, form.Status().State)
}

func TestSideEffectFailureKeepsSuccess(t *testing.T) {
	gw := &fakeGateway{listErr: errors.New("list down")}
	form := NewMedicationForm(gw, loggedIn(t), quietLogger())

	_, err := form.SubmitWith(context.Background(), MedicationFields{Name: "Aspirin", Dosage: "81mg", ReminderTimes: []string{"09:00"}})
	require.NoError(t, err)

	status := form.Status()
	require.Equal(t, StateSuccess, status.State)
	require.Len(t, status.SideEffectErrors, 1)
	require.ErrorContains(t, status.SideEffectErrors[0], "list down")
}

func TestSubmitRequiresSession(t *testing.T) {
	gw := &fakeGateway{}
	store := session.NewStore(session.NewMemoryPersister(), "healthmate_user", quietLogger())
	form := NewMoodForm(gw, store, nil, quietLogger())

	_, err := form.SubmitWith(context.Background(), MoodFields{Text: "fine"})
	require.ErrorIs(t, err, session.ErrNoSession)
	require.Empty(t, gw.moods)
	require.Equal(t, StateError, form.Status().State)
}

type countingRefresher struct{ calls int }

func (r *countingRefresher) Refresh(context.Context) (dashboard.View, error) {
	r.calls++
	return dashboard.View{}, nil
}

func TestMoodRefreshesDashboard(t *testing.T) {
	gw := &fakeGateway{}
	refresher := &countingRefresher{}
	form := NewMoodForm(gw, loggedIn(t), refresher, quietLogger())

	_, err := form.SubmitWith(context.Background(), MoodFields{Text: "   "})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)

	mood, err := form.SubmitWith(context.Background(), MoodFields{Text: "  Feeling great today  "})
	require.NoError(t, err)
	require.Equal(t, models.SentimentPositive, mood.SentimentLabel)
	require.Equal(t, "Feeling great today", gw.moods[0].MoodText)
	require.Equal(t, 1, refresher.calls)
}

func TestSessionChangeResetsForm(t *testing.T) {
	store := loggedIn(t)
	form := NewMedicationForm(&fakeGateway{}, store, quietLogger())
	store.Subscribe(form.OnSessionChange)

	require.NoError(t, form.Edit(func(f *MedicationFields) { f.Name = "Aspirin" }))
	require.NoError(t, store.Logout(context.Background()))
	require.Equal(t, MedicationFields{}, form.Fields())
}

func TestOnboardingCreatesAndLogsIn(t *testing.T) {
	ctx := context.Background()
	persister := session.NewMemoryPersister()
	store := session.NewStore(persister, "healthmate_user", quietLogger())
	require.NoError(t, store.Restore(ctx))

	gw := &fakeGateway{}
	form := NewOnboardingForm(gw, store, store, quietLogger())

	user, err := form.SubmitWith(ctx, OnboardingFields{Name: "Ana", Age: "70", CaregiverEmail: "c@x.com"})
	require.NoError(t, err)
	require.Equal(t, int64(42), user.ID)
	require.Equal(t, []models.NewUser{{Name: "Ana", Age: 70, CaregiverEmail: "c@x.com"}}, gw.users)

	sess, ok := store.Current()
	require.True(t, ok)
	require.Equal(t, int64(42), sess.UserID)

	restarted := session.NewStore(persister, "healthmate_user", quietLogger())
	require.NoError(t, restarted.Restore(ctx))
	sess, ok = restarted.Current()
	require.True(t, ok)
	require.Equal(t, session.Session{UserID: 42, Name: "Ana", Age: 70, CaregiverEmail: "c@x.com"}, sess)
}

func TestValidateOnboarding(t *testing.T) {
	tests := []struct {
		name      string
		fields    OnboardingFields
		wantField string
	}{
		{name: "no name", fields: OnboardingFields{Age: "70", CaregiverEmail: "c@x.com"}, wantField: "name"},
		{name: "age text", fields: OnboardingFields{Name: "Ana", Age: "old", CaregiverEmail: "c@x.com"}, wantField: "age"},
		{name: "age zero", fields: OnboardingFields{Name: "Ana", Age: "0", CaregiverEmail: "c@x.com"}, wantField: "age"},
		{name: "age too high", fields: OnboardingFields{Name: "Ana", Age: "131", CaregiverEmail: "c@x.com"}, wantField: "age"},
		{name: "bad email", fields: OnboardingFields{Name: "Ana", Age: "70", CaregiverEmail: "caregiver"}, wantField: "caregiver_email"},
		{name: "display name email", fields: OnboardingFields{Name: "Ana", Age: "70", CaregiverEmail: "Bob <b@x.com>"}, wantField: "caregiver_email"},
		{name: "valid", fields: OnboardingFields{Name: " Ana ", Age: " 70", CaregiverEmail: "c@x.com"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := ValidateOnboarding(tt.fields)
			if tt.wantField == "" {
				require.NoError(t, err)
				require.Equal(t, "Ana", req.Name)
				return
			}
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			require.Equal(t, tt.wantField, verr.Field)
		})
	}
}
