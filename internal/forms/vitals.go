package forms

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/balkashynov/healthmate/internal/models"
	"github.com/balkashynov/healthmate/internal/parser"
	"github.com/balkashynov/healthmate/internal/session"
)

// DefaultVitalsHistory is how many recent vitals entries are kept
const DefaultVitalsHistory = 5

// VitalsFields hold the raw text of each measurement. Empty means absent.
type VitalsFields struct {
	Systolic   string
	Diastolic  string
	BloodSugar string
	SleepHours string
}

// VitalsGateway is the remote surface the vitals form needs
type VitalsGateway interface {
	CreateVital(ctx context.Context, in models.NewVital) (models.Vital, error)
	ListVitals(ctx context.Context, userID int64) ([]models.Vital, error)
}

// VitalsForm records any subset of the supported measurements
type VitalsForm struct {
	*Controller[VitalsFields, models.NewVital, models.Vital]

	gateway  VitalsGateway
	sessions SessionSource
	history  int

	mu     sync.Mutex
	recent []models.Vital
}

// NewVitalsForm builds the form; history <= 0 uses DefaultVitalsHistory
func NewVitalsForm(gateway VitalsGateway, sessions SessionSource, history int, logger *slog.Logger) *VitalsForm {
	if history <= 0 {
		history = DefaultVitalsHistory
	}
	f := &VitalsForm{gateway: gateway, sessions: sessions, history: history}
	f.Controller = NewController(Spec[VitalsFields, models.NewVital, models.Vital]{
		Name:     "vitals",
		Initial:  func() VitalsFields { return VitalsFields{} },
		Validate: ValidateVitals,
		Send: func(ctx context.Context, sess session.Session, req models.NewVital) (models.Vital, error) {
			req.UserID = sess.UserID
			return gateway.CreateVital(ctx, req)
		},
		SideEffects: []SideEffect[models.Vital]{
			{Name: "list vitals", Run: func(ctx context.Context, _ models.Vital) error {
				return f.LoadRecent(ctx)
			}},
		},
		SuccessMessage: "Vitals logged successfully!",
		FailureMessage: "Failed to log vitals. Please try again.",
	}, sessions, logger)
	return f
}

// Recent returns the newest entries as of the last reload, newest first
func (f *VitalsForm) Recent() []models.Vital {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.Vital(nil), f.recent...)
}

// LoadRecent re-fetches the vitals of the current user
func (f *VitalsForm) LoadRecent(ctx context.Context) error {
	sess, ok := f.sessions.Current()
	if !ok {
		return session.ErrNoSession
	}
	vitals, err := f.gateway.ListVitals(ctx, sess.UserID)
	if err != nil {
		return err
	}
	vitals = newestVitals(vitals, f.history)
	f.mu.Lock()
	f.recent = vitals
	f.mu.Unlock()
	return nil
}

// OnSessionChange clears the form and the cached history
func (f *VitalsForm) OnSessionChange(s *session.Session) {
	f.Controller.OnSessionChange(s)
	f.mu.Lock()
	f.recent = nil
	f.mu.Unlock()
}

// ValidateVitals requires at least one measurement and every present one
// to parse within its range. Absent measurements are left out of the
// request.
func ValidateVitals(fields VitalsFields) (models.NewVital, error) {
	if strings.TrimSpace(fields.Systolic) == "" &&
		strings.TrimSpace(fields.Diastolic) == "" &&
		strings.TrimSpace(fields.BloodSugar) == "" &&
		strings.TrimSpace(fields.SleepHours) == "" {
		return models.NewVital{}, &ValidationError{Field: "vitals", Message: "Please enter at least one vital sign"}
	}

	var (
		req models.NewVital
		err error
	)
	if req.BloodPressureSystolic, err = parser.ParseOptionalInt(fields.Systolic, parser.SystolicRange); err != nil {
		return models.NewVital{}, &ValidationError{Field: "blood_pressure_systolic", Message: "Systolic " + err.Error()}
	}
	if req.BloodPressureDiastolic, err = parser.ParseOptionalInt(fields.Diastolic, parser.DiastolicRange); err != nil {
		return models.NewVital{}, &ValidationError{Field: "blood_pressure_diastolic", Message: "Diastolic " + err.Error()}
	}
	if req.BloodSugar, err = parser.ParseOptionalFloat(fields.BloodSugar, parser.BloodSugarRange); err != nil {
		return models.NewVital{}, &ValidationError{Field: "blood_sugar", Message: "Blood sugar " + err.Error()}
	}
	if req.SleepHours, err = parser.ParseOptionalFloat(fields.SleepHours, parser.SleepHoursRange); err != nil {
		return models.NewVital{}, &ValidationError{Field: "sleep_hours", Message: "Sleep hours " + err.Error()}
	}

	return req, nil
}

// newestVitals orders by creation time, newest first, and keeps n
func newestVitals(vitals []models.Vital, n int) []models.Vital {
	out := append([]models.Vital(nil), vitals...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt.Time)
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}
