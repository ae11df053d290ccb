// Package webui serves the form client as an HTML page. Every action button
// posts the whole form to /actions/{action}; the handler rebuilds the form
// state from the posted values, dispatches the action and renders the page
// again from the returned state.
package webui

import (
	"context"
	"errors"
	"fmt"
	"html"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/goliatone/go-formclient/internal/httpmw"
	"github.com/goliatone/go-formclient/internal/logging"
	"github.com/goliatone/go-formclient/pkg/dispatcher"
	"github.com/goliatone/go-formclient/pkg/formstate"
	"github.com/goliatone/go-formclient/pkg/render"
)

const maxFormBytes = 1 << 20

// Dispatcher is the part of *dispatcher.Dispatcher the web UI needs.
type Dispatcher interface {
	Dispatch(ctx context.Context, name string, state formstate.State) (formstate.State, error)
	Renderer() render.TableRenderer
}

// PageRenderer renders the full form page.
type PageRenderer interface {
	RenderPage(ctx context.Context, state formstate.State, opts render.PageOptions) ([]byte, error)
	ContentType() string
}

// Option customises a Server.
type Option func(*Server)

// WithLogger sets the logger used by the request middleware and handlers.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithTitle overrides the page title.
func WithTitle(title string) Option {
	return func(s *Server) {
		s.page.Title = title
	}
}

// WithMetrics exposes gatherer in the Prometheus text format at path.
func WithMetrics(path string, gatherer prometheus.Gatherer) Option {
	return func(s *Server) {
		if gatherer == nil {
			return
		}
		if path == "" {
			path = "/metrics"
		}
		s.metricsPath = path
		s.metrics = promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
	}
}

// Server is the HTTP front end.
type Server struct {
	dispatcher  Dispatcher
	pages       PageRenderer
	logger      logrus.FieldLogger
	page        render.PageOptions
	metricsPath string
	metrics     http.Handler
	router      chi.Router
}

// New wires a dispatcher and a page renderer into a router.
func New(d Dispatcher, pages PageRenderer, opts ...Option) (*Server, error) {
	if d == nil {
		return nil, fmt.Errorf("webui: dispatcher is nil")
	}
	if pages == nil {
		return nil, fmt.Errorf("webui: page renderer is nil")
	}
	s := &Server{
		dispatcher: d,
		pages:      pages,
		logger:     logging.Discard(),
		page:       render.PageOptions{ActionPath: render.DefaultActionPath},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	s.page = s.page.WithDefaults()
	s.router = s.routes()
	return s, nil
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(httpmw.RequestLogger(s.logger))
	r.Use(middleware.Recoverer)

	r.Get("/", s.index)
	r.Post("/", s.redisplay)
	r.Post(s.page.ActionPath+"/{action}", s.action)
	if s.metrics != nil {
		r.Handle(s.metricsPath, s.metrics)
	}
	return r
}

func (s *Server) index(w http.ResponseWriter, r *http.Request) {
	s.writePage(w, r, http.StatusOK, formstate.New(nil))
}

func (s *Server) redisplay(w http.ResponseWriter, r *http.Request) {
	state, err := parseForm(w, r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	s.writePage(w, r, http.StatusOK, state)
}

func (s *Server) action(w http.ResponseWriter, r *http.Request) {
	state, err := parseForm(w, r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	name := chi.URLParam(r, "action")
	next, err := s.dispatcher.Dispatch(r.Context(), name, state)
	if errors.Is(err, dispatcher.ErrUnknownAction) {
		s.writePage(w, r, http.StatusNotFound, state.WithFlash(fmt.Sprintf("Unknown action %q", name)))
		return
	}
	if err != nil {
		s.logger.WithError(err).WithFields(logrus.Fields{
			"action":     name,
			"request_id": middleware.GetReqID(r.Context()),
		}).Debug("action failed")
	}
	s.writePage(w, r, http.StatusOK, next)
}

func (s *Server) writePage(w http.ResponseWriter, r *http.Request, status int, state formstate.State) {
	state.Results = s.pageResults(state.Results)
	body, err := s.pages.RenderPage(r.Context(), state, s.page)
	if err != nil {
		s.logger.WithError(err).Error("render page")
		http.Error(w, "render page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", s.pages.ContentType())
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

// pageResults escapes result bodies that were not rendered as HTML.
func (s *Server) pageResults(results string) string {
	if results == "" {
		return ""
	}
	if renderer := s.dispatcher.Renderer(); renderer != nil && strings.HasPrefix(renderer.ContentType(), "text/html") {
		return results
	}
	return "<pre>" + html.EscapeString(results) + "</pre>"
}

func parseForm(w http.ResponseWriter, r *http.Request) (formstate.State, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := r.ParseForm(); err != nil {
		return formstate.State{}, fmt.Errorf("webui: parse form: %w", err)
	}
	return formstate.FromValues(r.PostForm), nil
}
