package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/valkey-io/valkey-go"
	"gorm.io/gorm"

	"github.com/balkashynov/healthmate/internal/api"
	"github.com/balkashynov/healthmate/internal/config"
	"github.com/balkashynov/healthmate/internal/dashboard"
	"github.com/balkashynov/healthmate/internal/db"
	"github.com/balkashynov/healthmate/internal/forms"
	"github.com/balkashynov/healthmate/internal/quickmood"
	"github.com/balkashynov/healthmate/internal/session"
)

type appOptions struct {
	verbose   bool
	ephemeral bool
}

// app is everything a command needs, wired once per invocation
type app struct {
	cfg        *config.Config
	logger     *slog.Logger
	sessions   *session.Store
	client     *api.Client
	aggregator *dashboard.Aggregator

	database *gorm.DB
	valkey   valkey.Client
}

func newApp(ctx context.Context, opts appOptions) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	level, _ := cfg.Log.SlogLevel()
	if opts.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	a := &app{cfg: cfg, logger: logger}

	persister, err := a.openPersister(ctx, opts.ephemeral)
	if err != nil {
		a.Close()
		return nil, err
	}

	a.sessions = session.NewStore(persister, cfg.Session.Key, logger)
	a.client = api.NewClient(cfg.API.BaseURL, cfg.API.Timeout, logger)
	a.aggregator = dashboard.NewAggregator(a.client, dashboard.Limits{
		MaxReminders:   cfg.Dashboard.MaxReminders,
		MaxMedications: cfg.Dashboard.MaxMedications,
		MaxVitals:      cfg.Dashboard.MaxVitals,
	}, logger)
	a.sessions.Subscribe(a.aggregator.Bind)

	if err := a.sessions.Restore(ctx); err != nil {
		a.Close()
		return nil, err
	}

	logger.Debug("client ready", "api", cfg.API.BaseURL, "backend", cfg.Session.Backend)
	return a, nil
}

func (a *app) openPersister(ctx context.Context, ephemeral bool) (session.Persister, error) {
	backend := a.cfg.Session.Backend
	if ephemeral {
		backend = config.BackendMemory
	}

	switch backend {
	case config.BackendMemory:
		return session.NewMemoryPersister(), nil
	case config.BackendValkey:
		client, err := session.DialValkey(ctx, a.cfg.Session.Valkey.Addr)
		if err != nil {
			return nil, fmt.Errorf("connect to valkey: %w", err)
		}
		a.valkey = client
		return session.NewValkeyPersister(client, a.cfg.Session.Valkey.Prefix), nil
	default:
		database, err := db.Open(a.cfg.Storage.Path)
		if err != nil {
			return nil, err
		}
		a.database = database
		return db.NewSessionRecords(database), nil
	}
}

// Close releases storage connections
func (a *app) Close() error {
	if a.valkey != nil {
		a.valkey.Close()
		a.valkey = nil
	}
	if a.database != nil {
		err := db.Close(a.database)
		a.database = nil
		return err
	}
	return nil
}

// requireSession returns the logged in user or an error telling how to
// log in
func (a *app) requireSession() (session.Session, error) {
	sess, err := a.sessions.Require()
	if err != nil {
		return session.Session{}, fmt.Errorf("%w. Run 'healthmate onboard' or 'healthmate login --user-id <id>'", err)
	}
	return sess, nil
}

func (a *app) medicationForm() *forms.MedicationForm {
	f := forms.NewMedicationForm(a.client, a.sessions, a.logger)
	a.sessions.Subscribe(f.OnSessionChange)
	return f
}

func (a *app) moodForm() *forms.MoodForm {
	f := forms.NewMoodForm(a.client, a.sessions, a.aggregator, a.logger)
	a.sessions.Subscribe(f.OnSessionChange)
	return f
}

func (a *app) vitalsForm() *forms.VitalsForm {
	f := forms.NewVitalsForm(a.client, a.sessions, a.cfg.Dashboard.VitalsHistory, a.logger)
	a.sessions.Subscribe(f.OnSessionChange)
	return f
}

func (a *app) onboardingForm() *forms.OnboardingForm {
	return forms.NewOnboardingForm(a.client, a.sessions, a.sessions, a.logger)
}

func (a *app) quickMood() *quickmood.Flow {
	return quickmood.New(a.client, a.sessions, a.aggregator, a.logger)
}
