package formstate

import (
	"net/url"
	"sort"
	"strings"
)

// State is the explicit value of the form between actions: the named field
// values, the flash message shown after the last action and the rendered
// result set (if any). Handlers receive a State and return a new one; the
// methods below never mutate their receiver.
type State struct {
	Fields  map[string]string `json:"fields" yaml:"fields"`
	Flash   string            `json:"flash,omitempty" yaml:"flash,omitempty"`
	Results string            `json:"results,omitempty" yaml:"results,omitempty"`
}

// New seeds a state with prefilled field values.
func New(prefill map[string]string) State {
	return State{Fields: cloneFields(prefill)}
}

// FromValues builds a state from submitted form values. Only the first value
// of each name is kept; names are trimmed, values are not.
func FromValues(values url.Values) State {
	fields := make(map[string]string, len(values))
	for name, vals := range values {
		key := strings.TrimSpace(name)
		if key == "" || len(vals) == 0 {
			continue
		}
		fields[key] = vals[0]
	}
	return State{Fields: fields}
}

// Get returns the field value, or "" when the field is absent.
func (s State) Get(name string) string {
	if s.Fields == nil {
		return ""
	}
	return s.Fields[name]
}

// Has reports whether the field is present (even if empty).
func (s State) Has(name string) bool {
	if s.Fields == nil {
		return false
	}
	_, ok := s.Fields[name]
	return ok
}

// With returns a copy with the field set.
func (s State) With(name, value string) State {
	out := s.Clone()
	out.Fields[name] = value
	return out
}

// WithFields returns a copy with every provided field set.
func (s State) WithFields(values map[string]string) State {
	out := s.Clone()
	for name, value := range values {
		out.Fields[name] = value
	}
	return out
}

// Reset returns a copy with the named fields set to "".
func (s State) Reset(names ...string) State {
	out := s.Clone()
	for _, name := range names {
		out.Fields[name] = ""
	}
	return out
}

// WithFlash returns a copy carrying msg as the flash message.
func (s State) WithFlash(msg string) State {
	out := s.Clone()
	out.Flash = msg
	return out
}

// WithResults returns a copy carrying the rendered result set.
func (s State) WithResults(body string) State {
	out := s.Clone()
	out.Results = body
	return out
}

// Clone deep-copies the state.
func (s State) Clone() State {
	return State{
		Fields:  cloneFields(s.Fields),
		Flash:   s.Flash,
		Results: s.Results,
	}
}

// Names returns the field names in sorted order.
func (s State) Names() []string {
	names := make([]string, 0, len(s.Fields))
	for name := range s.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Values converts the fields back into form values.
func (s State) Values() url.Values {
	out := make(url.Values, len(s.Fields))
	for name, value := range s.Fields {
		out.Set(name, value)
	}
	return out
}

func cloneFields(src map[string]string) map[string]string {
	if len(src) == 0 {
		return make(map[string]string)
	}
	out := make(map[string]string, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}
