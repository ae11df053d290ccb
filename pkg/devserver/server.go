// Package devserver is an in-memory implementation of the customer and pet
// REST API the form client consumes. It follows the response conventions of
// the production service: 201 with a Location header on create, 204 on
// delete, one-element arrays on lookup by key and JSON error bodies.
package devserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	"github.com/goliatone/go-formclient/internal/httpmw"
	"github.com/goliatone/go-formclient/internal/logging"
	"github.com/goliatone/go-formclient/pkg/model"
)

const maxBodyBytes = 1 << 20

// Option customises a Server.
type Option func(*Server)

// WithLogger sets the server logger.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithStore shares an existing store.
func WithStore(store *Store) Option {
	return func(s *Server) {
		if store != nil {
			s.store = store
		}
	}
}

// WithAPIKey makes every API route require the X-Api-Key header.
func WithAPIKey(key string) Option {
	return func(s *Server) {
		s.apiKey = key
	}
}

// Server serves the REST API over a Store.
type Server struct {
	store  *Store
	logger logrus.FieldLogger
	apiKey string
	router chi.Router
}

// New builds a server with its routes mounted.
func New(opts ...Option) *Server {
	s := &Server{
		store:  NewStore(),
		logger: logging.Discard(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	s.router = s.routes()
	return s
}

// Store exposes the backing store.
func (s *Server) Store() *Store {
	return s.store
}

// Routes exposes the mounted routes for inspection.
func (s *Server) Routes() chi.Routes {
	return s.router
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(httpmw.RequestLogger(s.logger))
	r.Use(middleware.Recoverer)

	r.Get("/healthcheck", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, healthBody{Status: http.StatusOK, Message: "Healthy"})
	})

	r.Group(func(r chi.Router) {
		r.Use(s.requireAPIKey)

		r.Route("/customers", func(cr chi.Router) {
			cr.Get("/", s.listCustomers)
			cr.Post("/", s.createCustomer)
			cr.Delete("/reset", s.resetCustomers)
			cr.Get("/{user_id}", s.getCustomer)
			cr.Put("/{user_id}", s.updateCustomer)
			cr.Delete("/{user_id}", s.deleteCustomer)
			cr.Put("/{user_id}/activate", s.setActive(true))
			cr.Put("/{user_id}/deactivate", s.setActive(false))
		})

		r.Route("/pets", func(pr chi.Router) {
			pr.Get("/", s.listPets)
			pr.Post("/", s.createPet)
			pr.Get("/{pet_id}", s.getPet)
			pr.Put("/{pet_id}", s.updatePet)
			pr.Delete("/{pet_id}", s.deletePet)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, fmt.Sprintf("The requested URL %s was not found on the server.", r.URL.Path))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, fmt.Sprintf("The method %s is not allowed for the requested URL.", r.Method))
	})
	return r
}

func (s *Server) requireAPIKey(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.apiKey != "" && r.Header.Get("X-Api-Key") != s.apiKey {
			writeJSON(w, http.StatusUnauthorized, errorBody{Message: "Invalid or missing token"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) listCustomers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	customers := s.store.ListCustomers(model.CustomerFilter{
		FirstName: q.Get("fname"),
		LastName:  q.Get("lname"),
		City:      q.Get("city"),
		State:     q.Get("state"),
		Zip:       q.Get("zip"),
	})
	writeJSON(w, http.StatusOK, customers)
}

func (s *Server) getCustomer(w http.ResponseWriter, r *http.Request) {
	customer, err := s.store.GetCustomer(chi.URLParam(r, "user_id"))
	if err != nil {
		writeJSON(w, http.StatusNotFound, errorBody{Error: "Customer not found"})
		return
	}
	writeJSON(w, http.StatusOK, []CustomerView{customer})
}

func (s *Server) createCustomer(w http.ResponseWriter, r *http.Request) {
	if !requireJSON(w, r) {
		return
	}
	payload, err := decodeCustomer(w, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	customer, err := s.store.CreateCustomer(payload)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.logger.WithField("user_id", customer.UserID).Info("customer created")
	w.Header().Set("Location", fmt.Sprintf("/customers/%s", customer.UserID))
	writeJSON(w, http.StatusCreated, customer)
}

func (s *Server) updateCustomer(w http.ResponseWriter, r *http.Request) {
	if !requireJSON(w, r) {
		return
	}
	userID := chi.URLParam(r, "user_id")
	payload, err := decodeCustomer(w, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	customer, err := s.store.UpdateCustomer(userID, payload)
	if err != nil {
		writeCustomerNotFound(w, userID)
		return
	}
	writeJSON(w, http.StatusOK, customer)
}

func (s *Server) setActive(active bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := chi.URLParam(r, "user_id")
		customer, err := s.store.SetActive(userID, active)
		if err != nil {
			writeCustomerNotFound(w, userID)
			return
		}
		writeJSON(w, http.StatusOK, customer)
	}
}

func (s *Server) deleteCustomer(w http.ResponseWriter, r *http.Request) {
	s.store.DeleteCustomer(chi.URLParam(r, "user_id"))
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) resetCustomers(w http.ResponseWriter, _ *http.Request) {
	s.store.ResetCustomers()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) listPets(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	pets := s.store.ListPets(model.PetFilter{
		Name:      q.Get("name"),
		Category:  q.Get("category"),
		Available: q.Get("available") == "true",
	})
	writeJSON(w, http.StatusOK, pets)
}

func (s *Server) getPet(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "pet_id")
	pet, err := s.store.GetPet(id)
	if err != nil {
		writePetNotFound(w, id)
		return
	}
	writeJSON(w, http.StatusOK, []model.Pet{pet})
}

func (s *Server) createPet(w http.ResponseWriter, r *http.Request) {
	if !requireJSON(w, r) {
		return
	}
	payload, err := decodePet(w, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	pet := s.store.CreatePet(payload)
	s.logger.WithField("pet_id", pet.ID).Info("pet created")
	w.Header().Set("Location", fmt.Sprintf("/pets/%s", pet.ID))
	writeJSON(w, http.StatusCreated, pet)
}

func (s *Server) updatePet(w http.ResponseWriter, r *http.Request) {
	if !requireJSON(w, r) {
		return
	}
	id := chi.URLParam(r, "pet_id")
	payload, err := decodePet(w, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	pet, err := s.store.UpdatePet(id, payload)
	if err != nil {
		writePetNotFound(w, id)
		return
	}
	writeJSON(w, http.StatusOK, pet)
}

func (s *Server) deletePet(w http.ResponseWriter, r *http.Request) {
	s.store.DeletePet(chi.URLParam(r, "pet_id"))
	w.WriteHeader(http.StatusNoContent)
}

// requireJSON answers 415 unless the request declares a JSON body.
func requireJSON(w http.ResponseWriter, r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err == nil && mediaType == "application/json" {
		return true
	}
	writeError(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json")
	return false
}

func decodeCustomer(w http.ResponseWriter, r *http.Request) (model.CustomerPayload, error) {
	var raw map[string]json.RawMessage
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&raw); err != nil {
		return model.CustomerPayload{}, errors.New("Invalid customer: body of request contained bad or no data")
	}
	if missing := missingKey(raw, "first_name", "last_name", "user_id", "password", "address"); missing != "" {
		return model.CustomerPayload{}, fmt.Errorf("Invalid customer: missing %s", missing)
	}
	var address map[string]json.RawMessage
	if err := json.Unmarshal(raw["address"], &address); err != nil {
		return model.CustomerPayload{}, errors.New("Invalid address: body of request contained bad or no data")
	}
	if missing := missingKey(address, "street", "apartment", "city", "state", "zip_code"); missing != "" {
		return model.CustomerPayload{}, fmt.Errorf("Invalid address: missing %s", missing)
	}

	var payload model.CustomerPayload
	if err := remarshal(raw, &payload); err != nil {
		return model.CustomerPayload{}, errors.New("Invalid customer: body of request contained bad or no data")
	}
	return payload, nil
}

func decodePet(w http.ResponseWriter, r *http.Request) (model.PetPayload, error) {
	var raw map[string]json.RawMessage
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&raw); err != nil {
		return model.PetPayload{}, errors.New("Invalid pet: body of request contained bad or no data")
	}
	if missing := missingKey(raw, "name", "category", "available"); missing != "" {
		return model.PetPayload{}, fmt.Errorf("Invalid pet: missing %s", missing)
	}
	var payload model.PetPayload
	if err := remarshal(raw, &payload); err != nil {
		return model.PetPayload{}, errors.New("Invalid pet: body of request contained bad or no data")
	}
	return payload, nil
}

func missingKey(raw map[string]json.RawMessage, keys ...string) string {
	for _, key := range keys {
		if _, ok := raw[key]; !ok {
			return key
		}
	}
	return ""
}

func remarshal(raw map[string]json.RawMessage, out any) error {
	data, err := json.Marshal(raw)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}

func writeCustomerNotFound(w http.ResponseWriter, userID string) {
	writeError(w, http.StatusNotFound, fmt.Sprintf("Customer with id '%s' was not found.", userID))
}

func writePetNotFound(w http.ResponseWriter, id string) {
	writeError(w, http.StatusNotFound, fmt.Sprintf("Pet with id '%s' was not found.", id))
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorBody{
		Status:  status,
		Error:   http.StatusText(status),
		Message: message,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
