package dispatcher

import (
	"github.com/sirupsen/logrus"

	"github.com/goliatone/go-formclient/pkg/render"
)

// Option customises a Dispatcher.
type Option func(*Dispatcher)

// WithRenderer sets the renderer used for search result tables.
func WithRenderer(r render.TableRenderer) Option {
	return func(d *Dispatcher) {
		if r != nil {
			d.renderer = r
		}
	}
}

// WithLogger sets the logger used for per-action entries.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(d *Dispatcher) {
		if logger != nil {
			d.logger = logger
		}
	}
}
