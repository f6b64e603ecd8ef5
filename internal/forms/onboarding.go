package forms

import (
	"context"
	"log/slog"
	"net/mail"
	"strconv"
	"strings"

	"github.com/balkashynov/healthmate/internal/models"
	"github.com/balkashynov/healthmate/internal/session"
)

// OnboardingFields are the account fields collected on first run
type OnboardingFields struct {
	Name           string
	Age            string
	CaregiverEmail string
}

// UserGateway creates accounts
type UserGateway interface {
	CreateUser(ctx context.Context, in models.NewUser) (models.User, error)
}

// Loginer binds a session to the client
type Loginer interface {
	Login(ctx context.Context, sess session.Session) error
}

// OnboardingForm creates an account and logs into it
type OnboardingForm struct {
	*Controller[OnboardingFields, models.NewUser, models.User]
}

func NewOnboardingForm(gateway UserGateway, sessions SessionSource, loginer Loginer, logger *slog.Logger) *OnboardingForm {
	return &OnboardingForm{Controller: NewController(Spec[OnboardingFields, models.NewUser, models.User]{
		Name:      "onboarding",
		Anonymous: true,
		Initial:   func() OnboardingFields { return OnboardingFields{} },
		Validate:  ValidateOnboarding,
		Send: func(ctx context.Context, _ session.Session, req models.NewUser) (models.User, error) {
			return gateway.CreateUser(ctx, req)
		},
		SideEffects: []SideEffect[models.User]{
			{Name: "login", Run: func(ctx context.Context, user models.User) error {
				return loginer.Login(ctx, session.FromUser(user))
			}},
		},
		SuccessMessage: "Welcome to HealthMate!",
		FailureMessage: "Failed to create account. Please try again.",
	}, sessions, logger)}
}

// ValidateOnboarding requires a name, an age between 1 and 130 and a
// well-formed caregiver email.
func ValidateOnboarding(fields OnboardingFields) (models.NewUser, error) {
	name := strings.TrimSpace(fields.Name)
	if name == "" {
		return models.NewUser{}, &ValidationError{Field: "name", Message: "Name is required"}
	}

	age, err := strconv.Atoi(strings.TrimSpace(fields.Age))
	if err != nil {
		return models.NewUser{}, &ValidationError{Field: "age", Message: "Age must be a whole number"}
	}
	if age < 1 || age > 130 {
		return models.NewUser{}, &ValidationError{Field: "age", Message: "Age must be between 1 and 130"}
	}

	email := strings.TrimSpace(fields.CaregiverEmail)
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return models.NewUser{}, &ValidationError{Field: "caregiver_email", Message: "Enter a valid caregiver email"}
	}

	return models.NewUser{Name: name, Age: age, CaregiverEmail: email}, nil
}
