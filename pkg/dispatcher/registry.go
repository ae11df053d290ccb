package dispatcher

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/goliatone/go-formclient/pkg/formstate"
	"github.com/goliatone/go-formclient/pkg/model"
)

// Handler runs one action against the form. The returned state always
// carries the flash message; the error is the call outcome (nil on success).
type Handler func(ctx context.Context, state formstate.State) (formstate.State, error)

// Action binds a name to its handler. Method and Route describe the API call
// the action makes and are empty for local actions such as clear.
type Action struct {
	Name    string
	Kind    model.Kind
	Method  string
	Route   string
	Handler Handler
}

// Local reports whether the action runs without calling the API.
func (a Action) Local() bool {
	return a.Method == ""
}

// Registry stores actions by name, providing discovery and duplication
// safeguards.
type Registry struct {
	mu      sync.RWMutex
	actions map[string]Action
}

// NewRegistry creates an empty registry instance.
func NewRegistry() *Registry {
	return &Registry{
		actions: make(map[string]Action),
	}
}

// Register adds an action by name. Duplicate names return an error.
func (r *Registry) Register(action Action) error {
	if action.Name == "" {
		return fmt.Errorf("dispatcher: action name is required")
	}
	if action.Handler == nil {
		return fmt.Errorf("dispatcher: action %q has no handler", action.Name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.actions[action.Name]; exists {
		return fmt.Errorf("dispatcher: action %q already registered", action.Name)
	}
	r.actions[action.Name] = action
	return nil
}

// MustRegister panics on registration failure. Useful for init-time wiring.
func (r *Registry) MustRegister(action Action) {
	if err := r.Register(action); err != nil {
		panic(err)
	}
}

// Get retrieves an action by name.
func (r *Registry) Get(name string) (Action, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	action, ok := r.actions[name]
	if !ok {
		return Action{}, fmt.Errorf("%w: %q", ErrUnknownAction, name)
	}
	return action, nil
}

// List returns a sorted list of action names.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.actions))
	for name := range r.actions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Actions returns every registered action sorted by name.
func (r *Registry) Actions() []Action {
	names := r.List()

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Action, 0, len(names))
	for _, name := range names {
		out = append(out, r.actions[name])
	}
	return out
}

// Has reports whether an action is registered.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.actions[name]
	return ok
}
