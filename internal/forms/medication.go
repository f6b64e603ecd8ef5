package forms

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/balkashynov/healthmate/internal/models"
	"github.com/balkashynov/healthmate/internal/parser"
	"github.com/balkashynov/healthmate/internal/session"
)

// MedicationFields are the editable fields of the medication form
type MedicationFields struct {
	Name          string
	Dosage        string
	ReminderTimes []string
}

// MedicationGateway is the remote surface the medication form needs
type MedicationGateway interface {
	CreateMedication(ctx context.Context, in models.NewMedication) (models.Medication, error)
	ListMedications(ctx context.Context, userID int64) ([]models.Medication, error)
}

// MedicationForm adds a medication and keeps the user's medication list
// current afterwards.
type MedicationForm struct {
	*Controller[MedicationFields, models.NewMedication, models.Medication]

	gateway  MedicationGateway
	sessions SessionSource

	mu    sync.Mutex
	items []models.Medication
}

func NewMedicationForm(gateway MedicationGateway, sessions SessionSource, logger *slog.Logger) *MedicationForm {
	f := &MedicationForm{gateway: gateway, sessions: sessions}
	f.Controller = NewController(Spec[MedicationFields, models.NewMedication, models.Medication]{
		Name:     "medication",
		Initial:  func() MedicationFields { return MedicationFields{} },
		Validate: ValidateMedication,
		Send: func(ctx context.Context, sess session.Session, req models.NewMedication) (models.Medication, error) {
			req.UserID = sess.UserID
			return gateway.CreateMedication(ctx, req)
		},
		SideEffects: []SideEffect[models.Medication]{
			{Name: "list medications", Run: func(ctx context.Context, _ models.Medication) error {
				return f.LoadItems(ctx)
			}},
		},
		SuccessMessage: "Medication added successfully!",
		FailureMessage: "Failed to add medication. Please try again.",
	}, sessions, logger)
	return f
}

// AddReminderTime parses input as HH:MM and adds it. Duplicates are ignored.
func (f *MedicationForm) AddReminderTime(input string) error {
	t, err := parser.ParseReminderTime(input)
	if err != nil {
		return &ValidationError{Field: "reminder_times", Message: err.Error()}
	}
	return f.Edit(func(fields *MedicationFields) {
		fields.ReminderTimes = parser.AddReminderTime(fields.ReminderTimes, t)
	})
}

func (f *MedicationForm) RemoveReminderTime(t string) error {
	return f.Edit(func(fields *MedicationFields) {
		fields.ReminderTimes = parser.RemoveReminderTime(fields.ReminderTimes, t)
	})
}

// Items returns the medication list as of the last successful reload
func (f *MedicationForm) Items() []models.Medication {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.Medication(nil), f.items...)
}

// LoadItems re-fetches the medication list of the current user
func (f *MedicationForm) LoadItems(ctx context.Context) error {
	sess, ok := f.sessions.Current()
	if !ok {
		return session.ErrNoSession
	}
	items, err := f.gateway.ListMedications(ctx, sess.UserID)
	if err != nil {
		return err
	}
	f.mu.Lock()
	f.items = items
	f.mu.Unlock()
	return nil
}

// OnSessionChange clears the form and the cached list
func (f *MedicationForm) OnSessionChange(s *session.Session) {
	f.Controller.OnSessionChange(s)
	f.mu.Lock()
	f.items = nil
	f.mu.Unlock()
}

// ValidateMedication requires a name, a dosage and at least one reminder
// time. Times are normalized and deduplicated.
func ValidateMedication(fields MedicationFields) (models.NewMedication, error) {
	name := strings.TrimSpace(fields.Name)
	if name == "" {
		return models.NewMedication{}, &ValidationError{Field: "name", Message: "Medication name is required"}
	}
	dosage := strings.TrimSpace(fields.Dosage)
	if dosage == "" {
		return models.NewMedication{}, &ValidationError{Field: "dosage", Message: "Dosage is required"}
	}

	times := make([]string, 0, len(fields.ReminderTimes))
	for _, raw := range fields.ReminderTimes {
		t, err := parser.ParseReminderTime(raw)
		if err != nil {
			return models.NewMedication{}, &ValidationError{Field: "reminder_times", Message: err.Error()}
		}
		times = append(times, t)
	}
	times = parser.DedupeReminderTimes(times)
	if len(times) == 0 {
		return models.NewMedication{}, &ValidationError{Field: "reminder_times", Message: "Add at least one reminder time"}
	}

	return models.NewMedication{Name: name, Dosage: dosage, ReminderTimes: times}, nil
}
