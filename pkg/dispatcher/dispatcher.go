// Package dispatcher implements the form actions. Each action reads the
// fields it needs through the binder, performs at most one API call and
// reconciles the outcome back into the form: on success the response is
// written into the fields (or rendered as a result table), on failure the
// server message is flashed and, for retrieves, the form is cleared.
package dispatcher

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/goliatone/go-formclient/internal/logging"
	"github.com/goliatone/go-formclient/pkg/formstate"
	"github.com/goliatone/go-formclient/pkg/render"
	"github.com/goliatone/go-formclient/pkg/renderers/text"
	"github.com/goliatone/go-formclient/pkg/transport"
)

// Caller performs one API request. *transport.Client satisfies it.
type Caller interface {
	Do(ctx context.Context, req transport.Request, out any) error
}

// Dispatcher runs actions by name. Handlers share no mutable state, so a
// Dispatcher is safe for concurrent use.
type Dispatcher struct {
	api      Caller
	renderer render.TableRenderer
	registry *Registry
	logger   logrus.FieldLogger
}

// New creates a dispatcher with every built-in action registered.
func New(api Caller, opts ...Option) (*Dispatcher, error) {
	if api == nil {
		return nil, fmt.Errorf("dispatcher: api caller is required")
	}
	d := &Dispatcher{
		api:      api,
		renderer: text.New(),
		registry: NewRegistry(),
		logger:   logging.Discard(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(d)
		}
	}
	for _, action := range d.builtinActions() {
		if err := d.registry.Register(action); err != nil {
			return nil, err
		}
	}
	return d, nil
}

// Registry exposes the action registry, e.g. to list or add actions.
func (d *Dispatcher) Registry() *Registry {
	return d.registry
}

// Renderer returns the renderer used for search results.
func (d *Dispatcher) Renderer() render.TableRenderer {
	return d.renderer
}

// Dispatch runs the named action. Unknown names return ErrUnknownAction and
// the state unchanged.
func (d *Dispatcher) Dispatch(ctx context.Context, name string, state formstate.State) (formstate.State, error) {
	action, err := d.registry.Get(name)
	if err != nil {
		d.logger.WithField("action", name).Warn("unknown action")
		return state, err
	}

	start := time.Now()
	out, err := action.Handler(ctx, state)
	entry := d.logger.WithFields(logrus.Fields{
		"action":   name,
		"kind":     action.Kind,
		"flash":    out.Flash,
		"duration": time.Since(start),
	})
	switch {
	case err == nil:
		entry.Info("action succeeded")
	case errors.Is(err, ErrNotFound):
		entry.Info("action found nothing")
	default:
		entry.WithError(err).Warn("action failed")
	}
	return out, err
}

// Outcome is the single completion of an asynchronous dispatch.
type Outcome struct {
	Action string
	State  formstate.State
	Err    error
}

// Go runs the action in its own goroutine. The returned channel yields
// exactly one Outcome and is then closed. There is no retry; cancelling ctx
// is the only way to abandon the call.
func (d *Dispatcher) Go(ctx context.Context, name string, state formstate.State) <-chan Outcome {
	ch := make(chan Outcome, 1)
	go func() {
		defer close(ch)
		out, err := d.Dispatch(ctx, name, state)
		ch <- Outcome{Action: name, State: out, Err: err}
	}()
	return ch
}
