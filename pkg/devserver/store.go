package devserver

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/goliatone/go-formclient/pkg/model"
)

var (
	// ErrNotFound is returned when no record has the requested key.
	ErrNotFound = errors.New("devserver: not found")
	// ErrConflict is returned when a customer user id is already taken.
	ErrConflict = errors.New("devserver: already exists")
)

type customerRecord struct {
	seq       int
	id        int
	addressID int
	customer  model.Customer
}

func (rec customerRecord) view() CustomerView {
	return CustomerView{
		CustomerID: rec.id,
		UserID:     rec.customer.UserID,
		FirstName:  rec.customer.FirstName,
		LastName:   rec.customer.LastName,
		Active:     rec.customer.Active,
		Address:    AddressView{ID: rec.addressID, Address: rec.customer.Address},
	}
}

type petRecord struct {
	seq int
	pet model.Pet
}

// Store keeps customers and pets in memory. Customers are keyed by user id,
// pets by a generated UUID. Listings come back in insertion order.
type Store struct {
	mu           sync.RWMutex
	customers    map[string]customerRecord
	pets         map[string]petRecord
	seq          int
	nextCustomer int
	nextAddress  int
}

// NewStore returns an empty store.
func NewStore() *Store {
	s := &Store{pets: make(map[string]petRecord)}
	s.resetCustomers()
	return s
}

func (s *Store) resetCustomers() {
	s.customers = make(map[string]customerRecord)
	s.nextCustomer = 1
	s.nextAddress = 1
}

func (s *Store) next() int {
	s.seq++
	return s.seq
}

// CreateCustomer stores a new active customer and assigns its ids.
func (s *Store) CreateCustomer(in model.CustomerPayload) (CustomerView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.customers[in.UserID]; exists {
		return CustomerView{}, fmt.Errorf("%w: customer with user_id '%s'", ErrConflict, in.UserID)
	}
	rec := customerRecord{
		seq:       s.next(),
		id:        s.nextCustomer,
		addressID: s.nextAddress,
		customer: model.Customer{
			UserID:    in.UserID,
			FirstName: in.FirstName,
			LastName:  in.LastName,
			Password:  in.Password,
			Address:   in.Address,
			Active:    true,
		},
	}
	s.nextCustomer++
	s.nextAddress++
	s.customers[in.UserID] = rec
	return rec.view(), nil
}

// GetCustomer returns the customer with userID.
func (s *Store) GetCustomer(userID string) (CustomerView, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.customers[userID]
	if !ok {
		return CustomerView{}, ErrNotFound
	}
	return rec.view(), nil
}

// UpdateCustomer replaces the editable attributes of the customer stored
// under userID. The path key wins over any user_id in the payload and the
// active flag is left alone.
func (s *Store) UpdateCustomer(userID string, in model.CustomerPayload) (CustomerView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.customers[userID]
	if !ok {
		return CustomerView{}, ErrNotFound
	}
	rec.customer.FirstName = in.FirstName
	rec.customer.LastName = in.LastName
	rec.customer.Password = in.Password
	rec.customer.Address = in.Address
	s.customers[userID] = rec
	return rec.view(), nil
}

// SetActive flips the active flag of the customer stored under userID.
func (s *Store) SetActive(userID string, active bool) (CustomerView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.customers[userID]
	if !ok {
		return CustomerView{}, ErrNotFound
	}
	rec.customer.Active = active
	s.customers[userID] = rec
	return rec.view(), nil
}

// DeleteCustomer removes the customer if present. Missing keys are not an
// error.
func (s *Store) DeleteCustomer(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.customers, userID)
}

// ResetCustomers drops every customer and restarts the id counters.
func (s *Store) ResetCustomers() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resetCustomers()
}

// ListCustomers honours only the first non-empty filter, in the order
// first name, last name, city, state, zip. Without filters every customer is
// returned.
func (s *Store) ListCustomers(filter model.CustomerFilter) []CustomerView {
	s.mu.RLock()
	records := lo.Values(s.customers)
	s.mu.RUnlock()

	var match func(model.Customer) bool
	switch {
	case filter.FirstName != "":
		match = func(c model.Customer) bool { return c.FirstName == filter.FirstName }
	case filter.LastName != "":
		match = func(c model.Customer) bool { return c.LastName == filter.LastName }
	case filter.City != "":
		match = func(c model.Customer) bool { return c.Address.City == filter.City }
	case filter.State != "":
		match = func(c model.Customer) bool { return c.Address.State == filter.State }
	case filter.Zip != "":
		match = func(c model.Customer) bool { return c.Address.ZipCode == filter.Zip }
	default:
		match = func(model.Customer) bool { return true }
	}

	records = lo.Filter(records, func(rec customerRecord, _ int) bool { return match(rec.customer) })
	slices.SortFunc(records, func(a, b customerRecord) int { return a.seq - b.seq })
	return lo.Map(records, func(rec customerRecord, _ int) CustomerView { return rec.view() })
}

// CreatePet stores a new pet under a generated id.
func (s *Store) CreatePet(in model.PetPayload) model.Pet {
	s.mu.Lock()
	defer s.mu.Unlock()

	pet := model.Pet{
		ID:        model.ID(uuid.NewString()),
		Name:      in.Name,
		Category:  in.Category,
		Available: in.Available,
	}
	s.pets[pet.ID.String()] = petRecord{seq: s.next(), pet: pet}
	return pet
}

// GetPet returns the pet with id.
func (s *Store) GetPet(id string) (model.Pet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.pets[id]
	if !ok {
		return model.Pet{}, ErrNotFound
	}
	return rec.pet, nil
}

// UpdatePet replaces the attributes of the pet stored under id.
func (s *Store) UpdatePet(id string, in model.PetPayload) (model.Pet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.pets[id]
	if !ok {
		return model.Pet{}, ErrNotFound
	}
	rec.pet.Name = in.Name
	rec.pet.Category = in.Category
	rec.pet.Available = in.Available
	s.pets[id] = rec
	return rec.pet, nil
}

// DeletePet removes the pet if present.
func (s *Store) DeletePet(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.pets, id)
}

// ListPets applies every non-empty filter. Available only narrows the
// listing when true.
func (s *Store) ListPets(filter model.PetFilter) []model.Pet {
	s.mu.RLock()
	records := lo.Values(s.pets)
	s.mu.RUnlock()

	records = lo.Filter(records, func(rec petRecord, _ int) bool {
		p := rec.pet
		switch {
		case filter.Name != "" && p.Name != filter.Name:
			return false
		case filter.Category != "" && p.Category != filter.Category:
			return false
		case filter.Available && !p.Available:
			return false
		}
		return true
	})
	slices.SortFunc(records, func(a, b petRecord) int { return a.seq - b.seq })
	return lo.Map(records, func(rec petRecord, _ int) model.Pet { return rec.pet })
}
