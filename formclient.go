// Package formclient wires the transport, the result renderers and the action
// dispatcher into a single client. Callers that only want to run actions can
// start from New; the web UI and the terminal session are built from the same
// client so every surface shares one API connection and one renderer registry.
package formclient

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"github.com/goliatone/go-formclient/internal/config"
	"github.com/goliatone/go-formclient/internal/logging"
	"github.com/goliatone/go-formclient/pkg/dispatcher"
	"github.com/goliatone/go-formclient/pkg/formstate"
	"github.com/goliatone/go-formclient/pkg/prompt"
	"github.com/goliatone/go-formclient/pkg/render"
	"github.com/goliatone/go-formclient/pkg/renderers/html"
	"github.com/goliatone/go-formclient/pkg/renderers/text"
	"github.com/goliatone/go-formclient/pkg/transport"
	"github.com/goliatone/go-formclient/pkg/webui"
)

// DefaultRenderer is the renderer used when none is configured.
const DefaultRenderer = text.Name

// State aliases formstate.State for callers that only import the root package.
type State = formstate.State

// Option customises the client configuration.
type Option func(*Client)

// WithTransportOptions forwards options to the transport constructor.
func WithTransportOptions(opts ...transport.Option) Option {
	return func(c *Client) {
		c.transportOpts = append(c.transportOpts, opts...)
	}
}

// WithCaller replaces the transport entirely.
func WithCaller(api dispatcher.Caller) Option {
	return func(c *Client) {
		c.api = api
	}
}

// WithRegistry injects a renderer registry.
func WithRegistry(registry *render.Registry) Option {
	return func(c *Client) {
		c.registry = registry
	}
}

// WithDefaultRenderer selects the renderer Do uses for result tables.
func WithDefaultRenderer(name string) Option {
	return func(c *Client) {
		c.defaultRenderer = name
	}
}

// WithLogger sets the logger handed to every component.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithMetrics records transport metrics in reg. The same registry is served
// by the web UI when it is also a prometheus.Gatherer.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(c *Client) {
		c.metricsReg = reg
	}
}

// Client coordinates the form client components.
type Client struct {
	baseURL         string
	api             dispatcher.Caller
	transportOpts   []transport.Option
	registry        *render.Registry
	pages           *html.Renderer
	defaultRenderer string
	logger          logrus.FieldLogger
	metricsReg      prometheus.Registerer

	mu          sync.Mutex
	dispatchers map[string]*dispatcher.Dispatcher
}

// New constructs a client for the API at baseURL. Missing dependencies are
// initialised with the built-in implementations: an HTTP transport and a
// registry holding the html and text renderers.
func New(baseURL string, options ...Option) (*Client, error) {
	c := &Client{
		baseURL:         baseURL,
		defaultRenderer: DefaultRenderer,
		logger:          logging.Discard(),
		dispatchers:     make(map[string]*dispatcher.Dispatcher),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(c)
	}
	if err := c.applyDefaults(); err != nil {
		return nil, err
	}
	return c, nil
}

// FromConfig builds a client from loaded configuration.
func FromConfig(cfg config.Config, options ...Option) (*Client, error) {
	topts := []transport.Option{transport.WithTimeout(cfg.API.Timeout)}
	if len(cfg.API.Headers) > 0 {
		topts = append(topts, transport.WithHeaders(cfg.API.Headers))
	}
	if cfg.API.APIKey != "" {
		topts = append(topts, transport.WithAPIKey(cfg.API.APIKey))
	}
	if cfg.API.RateLimit.Enabled {
		topts = append(topts, transport.WithRateLimit(cfg.API.RateLimit.RPS, cfg.API.RateLimit.Burst))
	}

	opts := []Option{
		WithTransportOptions(topts...),
		WithDefaultRenderer(cfg.UI.Renderer),
	}
	return New(cfg.API.BaseURL, append(opts, options...)...)
}

func (c *Client) applyDefaults() error {
	if c.registry == nil {
		c.registry = render.NewRegistry()
	}

	pages, err := html.New()
	if err != nil {
		return fmt.Errorf("formclient: html renderer: %w", err)
	}
	c.pages = pages
	if !c.registry.Has(html.Name) {
		c.registry.MustRegister(pages)
	}
	if !c.registry.Has(text.Name) {
		c.registry.MustRegister(text.New())
	}
	if c.defaultRenderer == "" {
		c.defaultRenderer = DefaultRenderer
	}
	if !c.registry.Has(c.defaultRenderer) {
		return fmt.Errorf("formclient: default renderer %q: %w", c.defaultRenderer, render.ErrRendererNotFound)
	}

	if c.api == nil {
		opts := append([]transport.Option{transport.WithLogger(c.logger)}, c.transportOpts...)
		if c.metricsReg != nil {
			opts = append(opts, transport.WithMetrics(transport.NewMetrics(c.metricsReg)))
		}
		api, err := transport.New(c.baseURL, opts...)
		if err != nil {
			return fmt.Errorf("formclient: transport: %w", err)
		}
		c.api = api
	}
	return nil
}

// Registry exposes the renderer registry.
func (c *Client) Registry() *render.Registry {
	return c.registry
}

// Dispatcher returns the dispatcher whose result tables are rendered with the
// named renderer. An empty name selects the default renderer.
func (c *Client) Dispatcher(rendererName string) (*dispatcher.Dispatcher, error) {
	if rendererName == "" {
		rendererName = c.defaultRenderer
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if d, ok := c.dispatchers[rendererName]; ok {
		return d, nil
	}
	renderer, err := c.registry.Get(rendererName)
	if err != nil {
		return nil, err
	}
	d, err := dispatcher.New(c.api,
		dispatcher.WithRenderer(renderer),
		dispatcher.WithLogger(c.logger),
	)
	if err != nil {
		return nil, err
	}
	c.dispatchers[rendererName] = d
	return d, nil
}

// Do runs one action against state using the default renderer.
func (c *Client) Do(ctx context.Context, action string, state State) (State, error) {
	d, err := c.Dispatcher("")
	if err != nil {
		return state, err
	}
	return d.Dispatch(ctx, action, state)
}

// Actions lists the registered action names.
func (c *Client) Actions() []string {
	d, err := c.Dispatcher("")
	if err != nil {
		return nil
	}
	return d.Registry().List()
}

// WebUI builds the HTML front end. Result tables are rendered as HTML
// regardless of the default renderer. When the registered html renderer can
// also render pages it renders the page as well.
func (c *Client) WebUI(opts ...webui.Option) (*webui.Server, error) {
	d, err := c.Dispatcher(html.Name)
	if err != nil {
		return nil, err
	}
	var pages webui.PageRenderer = c.pages
	if p, ok := d.Renderer().(webui.PageRenderer); ok {
		pages = p
	}
	base := []webui.Option{webui.WithLogger(c.logger)}
	if gatherer, ok := c.metricsReg.(prometheus.Gatherer); ok {
		base = append(base, webui.WithMetrics("", gatherer))
	}
	return webui.New(d, pages, append(base, opts...)...)
}

// Session builds a terminal session driven by driver. Result tables are
// rendered as text.
func (c *Client) Session(driver prompt.PromptDriver, opts ...prompt.SessionOption) (*prompt.Session, error) {
	if driver == nil {
		return nil, errors.New("formclient: prompt driver is nil")
	}
	d, err := c.Dispatcher(text.Name)
	if err != nil {
		return nil, err
	}
	base := []prompt.SessionOption{prompt.WithLogger(c.logger)}
	return prompt.NewSession(driver, d, append(base, opts...)...), nil
}
