package prompt

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/goliatone/go-formclient/internal/logging"
	"github.com/goliatone/go-formclient/pkg/dispatcher"
	"github.com/goliatone/go-formclient/pkg/formstate"
	"github.com/goliatone/go-formclient/pkg/model"
)

// QuitOption is the last entry of the action menu.
const QuitOption = "quit"

// Dispatcher is the part of *dispatcher.Dispatcher a session needs.
type Dispatcher interface {
	Dispatch(ctx context.Context, name string, state formstate.State) (formstate.State, error)
	Registry() *dispatcher.Registry
}

// SessionOption customises a Session.
type SessionOption func(*Session)

// WithLogger sets the session logger.
func WithLogger(logger logrus.FieldLogger) SessionOption {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithState seeds the session with an existing form state.
func WithState(state formstate.State) SessionOption {
	return func(s *Session) {
		s.state = state.Clone()
	}
}

// Session loops: choose an action, fill the fields it reads, dispatch and
// print the flash message and any result table.
type Session struct {
	driver     PromptDriver
	dispatcher Dispatcher
	logger     logrus.FieldLogger
	state      formstate.State
}

// NewSession wires a driver to a dispatcher.
func NewSession(driver PromptDriver, d Dispatcher, opts ...SessionOption) *Session {
	s := &Session{
		driver:     driver,
		dispatcher: d,
		logger:     logging.Discard(),
		state:      formstate.New(nil),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// State returns the current form state.
func (s *Session) State() formstate.State {
	return s.state.Clone()
}

// Run loops until the user picks quit (nil error) or aborts (ErrAborted).
// Action failures are shown and the loop continues.
func (s *Session) Run(ctx context.Context) (formstate.State, error) {
	if s.driver == nil || s.dispatcher == nil {
		return s.state, fmt.Errorf("prompt: session needs a driver and a dispatcher")
	}
	for {
		done, err := s.Step(ctx)
		if err != nil {
			return s.State(), err
		}
		if done {
			return s.State(), nil
		}
	}
}

// Step runs one menu round. done is true when the user chose quit.
func (s *Session) Step(ctx context.Context) (done bool, err error) {
	actions := s.dispatcher.Registry().Actions()
	options := make([]string, 0, len(actions)+1)
	for _, action := range actions {
		options = append(options, action.Name)
	}
	options = append(options, QuitOption)

	idx, err := s.driver.Select(ctx, SelectConfig{Message: "Action", Options: options, PageSize: len(options)})
	if err != nil {
		return false, err
	}
	if idx < 0 || idx >= len(options) {
		return false, fmt.Errorf("prompt: invalid selection %d", idx)
	}
	if options[idx] == QuitOption {
		return true, nil
	}
	action := actions[idx]

	filled, err := FillFields(ctx, s.driver, s.state, FieldsFor(action.Name, action.Kind))
	if err != nil {
		return false, err
	}

	next, dispatchErr := s.dispatcher.Dispatch(ctx, action.Name, filled)
	if dispatchErr != nil {
		if errors.Is(dispatchErr, context.Canceled) {
			return false, dispatchErr
		}
		s.logger.WithError(dispatchErr).WithField("action", action.Name).Debug("action failed")
	}
	s.state = next

	if err := s.show(ctx, action.Kind, next, action.Name); err != nil {
		return false, err
	}
	return false, nil
}

func (s *Session) show(ctx context.Context, kind model.Kind, state formstate.State, action string) error {
	if state.Flash != "" {
		if err := s.driver.Info(ctx, state.Flash); err != nil {
			return err
		}
	}
	if strings.HasPrefix(action, "search") && state.Results != "" {
		if err := s.driver.Info(ctx, strings.TrimRight(state.Results, "\n")); err != nil {
			return err
		}
	}
	return s.driver.Info(ctx, summary(kind, state))
}

func summary(kind model.Kind, state formstate.State) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s:", kind.Label())
	for _, name := range EditableFields(kind) {
		if name == model.FieldPassword {
			continue
		}
		fmt.Fprintf(&b, " %s=%q", name, state.Get(name))
	}
	if kind == model.KindCustomer {
		for _, name := range []string{model.FieldCustomerID, model.FieldActive} {
			fmt.Fprintf(&b, " %s=%q", name, state.Get(name))
		}
	}
	return b.String()
}
