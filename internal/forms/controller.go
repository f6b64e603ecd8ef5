// Package forms implements the submission state machine shared by every
// create-style form, and the concrete forms built on it.
package forms

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/balkashynov/healthmate/internal/api"
	"github.com/balkashynov/healthmate/internal/session"
)

// ErrInFlight is returned when a submission is already running
var ErrInFlight = errors.New("submission already in flight")

// State of a form
type State int

const (
	StateIdle State = iota
	StateValidating
	StateSubmitting
	StateSuccess
	StateError
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateValidating:
		return "validating"
	case StateSubmitting:
		return "submitting"
	case StateSuccess:
		return "success"
	case StateError:
		return "error"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// ValidationError is a local, user-correctable input problem
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// SessionSource is read to find the user a submission belongs to
type SessionSource interface {
	Current() (session.Session, bool)
}

// SideEffect runs, in declaration order, after a successful submission.
// Failures are recorded but never undo the success.
type SideEffect[R any] struct {
	Name string
	Run  func(ctx context.Context, result R) error
}

// Spec declares one form: its fields F, the validated request Req and the
// created record R.
type Spec[F, Req, R any] struct {
	Name           string
	Initial        func() F
	Validate       func(F) (Req, error)
	Send           func(ctx context.Context, sess session.Session, req Req) (R, error)
	SideEffects    []SideEffect[R]
	SuccessMessage string
	FailureMessage string
	// Anonymous forms (onboarding) may be submitted without a session
	Anonymous bool
}

// Status is a snapshot of a controller
type Status struct {
	State            State
	Message          string
	Busy             bool
	SideEffectErrors []error
}

// Controller drives one form through idle → validating → submitting →
// success|error. At most one submission is in flight, and the in-flight
// guard also covers the declared side effects.
type Controller[F, Req, R any] struct {
	spec     Spec[F, Req, R]
	sessions SessionSource
	logger   *slog.Logger

	mu         sync.Mutex
	state      State
	busy       bool
	fields     F
	message    string
	result     R
	hasResult  bool
	effectErrs []error
}

// NewController builds a controller in the idle state with initial fields
func NewController[F, Req, R any](spec Spec[F, Req, R], sessions SessionSource, logger *slog.Logger) *Controller[F, Req, R] {
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller[F, Req, R]{
		spec:     spec,
		sessions: sessions,
		logger:   logger.With("component", "forms", "form", spec.Name),
		fields:   spec.Initial(),
	}
}

// Fields returns the current field values
func (c *Controller[F, Req, R]) Fields() F {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fields
}

// Edit changes the fields. Success and error states return to idle.
func (c *Controller[F, Req, R]) Edit(fn func(*F)) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.busy {
		return ErrInFlight
	}
	fn(&c.fields)
	c.toIdle()
	return nil
}

// Reset restores the initial fields and the idle state
func (c *Controller[F, Req, R]) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fields = c.spec.Initial()
	if !c.busy {
		c.toIdle()
	}
}

// Status returns the current state and message
func (c *Controller[F, Req, R]) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Status{
		State:            c.state,
		Message:          c.message,
		Busy:             c.busy,
		SideEffectErrors: append([]error(nil), c.effectErrs...),
	}
}

// Result returns the record created by the last successful submission
func (c *Controller[F, Req, R]) Result() (R, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.result, c.hasResult
}

// OnSessionChange resets the form when the bound identity changes
func (c *Controller[F, Req, R]) OnSessionChange(*session.Session) {
	c.Reset()
}

// Submit validates the current fields and sends them
func (c *Controller[F, Req, R]) Submit(ctx context.Context) (R, error) {
	return c.submit(ctx, nil)
}

// SubmitWith replaces the fields and submits them as one step
func (c *Controller[F, Req, R]) SubmitWith(ctx context.Context, fields F) (R, error) {
	return c.submit(ctx, &fields)
}

func (c *Controller[F, Req, R]) submit(ctx context.Context, replace *F) (R, error) {
	var zero R

	c.mu.Lock()
	if c.busy {
		c.mu.Unlock()
		c.logger.Debug("submit ignored, already in flight")
		return zero, ErrInFlight
	}
	if replace != nil {
		c.fields = *replace
	}
	c.busy = true
	c.state = StateValidating
	c.message = ""
	c.effectErrs = nil
	fields := c.fields
	c.mu.Unlock()

	req, err := c.spec.Validate(fields)
	if err != nil {
		c.finish(StateError, userMessage(err))
		return zero, err
	}

	var sess session.Session
	if !c.spec.Anonymous {
		current, ok := c.sessions.Current()
		if !ok {
			c.finish(StateError, "Please log in first.")
			return zero, session.ErrNoSession
		}
		sess = current
	}

	c.setState(StateSubmitting)
	result, err := c.spec.Send(ctx, sess, req)
	if err != nil {
		c.logger.Warn("submission failed", "error", err)
		c.finish(StateError, c.failureMessage(err))
		return zero, err
	}

	c.mu.Lock()
	c.state = StateSuccess
	c.message = c.spec.SuccessMessage
	c.fields = c.spec.Initial()
	c.result = result
	c.hasResult = true
	c.mu.Unlock()
	c.logger.Debug("submission succeeded")

	var effectErrs []error
	for _, effect := range c.spec.SideEffects {
		if err := effect.Run(ctx, result); err != nil {
			c.logger.Warn("side effect failed", "effect", effect.Name, "error", err)
			effectErrs = append(effectErrs, fmt.Errorf("%s: %w", effect.Name, err))
		}
	}

	c.mu.Lock()
	c.effectErrs = effectErrs
	c.busy = false
	c.mu.Unlock()

	return result, nil
}

func (c *Controller[F, Req, R]) setState(state State) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = state
}

func (c *Controller[F, Req, R]) finish(state State, message string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = state
	c.message = message
	c.busy = false
}

func (c *Controller[F, Req, R]) toIdle() {
	c.state = StateIdle
	c.message = ""
	c.effectErrs = nil
}

func (c *Controller[F, Req, R]) failureMessage(err error) string {
	if errors.Is(err, context.Canceled) {
		return "Cancelled."
	}
	msg := c.spec.FailureMessage
	if msg == "" {
		msg = "Submission failed. Please try again."
	}
	if failure, ok := api.IsRemoteFailure(err); ok && failure.Detail != "" {
		msg += " (" + failure.Detail + ")"
	}
	return msg
}

func userMessage(err error) string {
	var validation *ValidationError
	if errors.As(err, &validation) {
		return validation.Message
	}
	return err.Error()
}
