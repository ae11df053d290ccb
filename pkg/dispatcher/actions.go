package dispatcher

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/goliatone/go-formclient/pkg/binder"
	"github.com/goliatone/go-formclient/pkg/formstate"
	"github.com/goliatone/go-formclient/pkg/model"
	"github.com/goliatone/go-formclient/pkg/render"
	"github.com/goliatone/go-formclient/pkg/transport"
)

// Action names.
const (
	ActionCreateCustomer     = "create-customer"
	ActionUpdateCustomer     = "update-customer"
	ActionActivateCustomer   = "activate-customer"
	ActionDeactivateCustomer = "deactivate-customer"
	ActionRetrieveCustomer   = "retrieve-customer"
	ActionDeleteCustomer     = "delete-customer"
	ActionSearchCustomers    = "search-customers"
	ActionClearCustomer      = "clear-customer"
	ActionCreatePet          = "create-pet"
	ActionUpdatePet          = "update-pet"
	ActionRetrievePet        = "retrieve-pet"
	ActionDeletePet          = "delete-pet"
	ActionSearchPets         = "search-pets"
	ActionClearPet           = "clear-pet"
)

// API collections and route templates.
const (
	CustomersPath = "/customers"
	PetsPath      = "/pets"

	routeCustomer           = CustomersPath + "/{user_id}"
	routeCustomerActivate   = routeCustomer + "/activate"
	routeCustomerDeactivate = routeCustomer + "/deactivate"
	routePet                = PetsPath + "/{pet_id}"
)

func (d *Dispatcher) builtinActions() []Action {
	return []Action{
		{Name: ActionCreateCustomer, Kind: model.KindCustomer, Method: http.MethodPost, Route: CustomersPath, Handler: d.CreateCustomer},
		{Name: ActionUpdateCustomer, Kind: model.KindCustomer, Method: http.MethodPut, Route: routeCustomer, Handler: d.UpdateCustomer},
		{Name: ActionActivateCustomer, Kind: model.KindCustomer, Method: http.MethodPut, Route: routeCustomerActivate, Handler: d.ActivateCustomer},
		{Name: ActionDeactivateCustomer, Kind: model.KindCustomer, Method: http.MethodPut, Route: routeCustomerDeactivate, Handler: d.DeactivateCustomer},
		{Name: ActionRetrieveCustomer, Kind: model.KindCustomer, Method: http.MethodGet, Route: routeCustomer, Handler: d.RetrieveCustomer},
		{Name: ActionDeleteCustomer, Kind: model.KindCustomer, Method: http.MethodDelete, Route: routeCustomer, Handler: d.DeleteCustomer},
		{Name: ActionSearchCustomers, Kind: model.KindCustomer, Method: http.MethodGet, Route: CustomersPath, Handler: d.SearchCustomers},
		{Name: ActionClearCustomer, Kind: model.KindCustomer, Handler: clearHandler(model.KindCustomer)},
		{Name: ActionCreatePet, Kind: model.KindPet, Method: http.MethodPost, Route: PetsPath, Handler: d.CreatePet},
		{Name: ActionUpdatePet, Kind: model.KindPet, Method: http.MethodPut, Route: routePet, Handler: d.UpdatePet},
		{Name: ActionRetrievePet, Kind: model.KindPet, Method: http.MethodGet, Route: routePet, Handler: d.RetrievePet},
		{Name: ActionDeletePet, Kind: model.KindPet, Method: http.MethodDelete, Route: routePet, Handler: d.DeletePet},
		{Name: ActionSearchPets, Kind: model.KindPet, Method: http.MethodGet, Route: PetsPath, Handler: d.SearchPets},
		{Name: ActionClearPet, Kind: model.KindPet, Handler: clearHandler(model.KindPet)},
	}
}

// CreateCustomer posts the whole customer, password included. Failures keep
// the fields so the user can resubmit.
func (d *Dispatcher) CreateCustomer(ctx context.Context, state formstate.State) (formstate.State, error) {
	req := transport.Request{
		Method: http.MethodPost,
		Path:   CustomersPath,
		Route:  CustomersPath,
		Body:   binder.ReadCustomer(state).Payload(),
	}
	return d.saveCustomer(ctx, state, req, FlashSuccess)
}

// UpdateCustomer puts the whole customer to /customers/{user_id}.
func (d *Dispatcher) UpdateCustomer(ctx context.Context, state formstate.State) (formstate.State, error) {
	customer := binder.ReadCustomer(state)
	req := transport.Request{
		Method: http.MethodPut,
		Path:   transport.Path(CustomersPath, customer.UserID),
		Route:  routeCustomer,
		Body:   customer.Payload(),
	}
	return d.saveCustomer(ctx, state, req, FlashSuccess)
}

// ActivateCustomer sends a bodiless PUT and reflects the server's view of
// the customer, including its active flag.
func (d *Dispatcher) ActivateCustomer(ctx context.Context, state formstate.State) (formstate.State, error) {
	req := transport.Request{
		Method: http.MethodPut,
		Path:   transport.Path(CustomersPath, binder.ReadUserID(state), "activate"),
		Route:  routeCustomerActivate,
	}
	return d.saveCustomer(ctx, state, req, FlashCustomerActivated)
}

// DeactivateCustomer is ActivateCustomer for /deactivate.
func (d *Dispatcher) DeactivateCustomer(ctx context.Context, state formstate.State) (formstate.State, error) {
	req := transport.Request{
		Method: http.MethodPut,
		Path:   transport.Path(CustomersPath, binder.ReadUserID(state), "deactivate"),
		Route:  routeCustomerDeactivate,
	}
	return d.saveCustomer(ctx, state, req, FlashCustomerDeactivated)
}

func (d *Dispatcher) saveCustomer(ctx context.Context, state formstate.State, req transport.Request, flash string) (formstate.State, error) {
	var customer model.Customer
	if err := d.api.Do(ctx, req, &customer); err != nil {
		return state.WithFlash(FailureFlash(err)), err
	}
	return binder.WriteCustomer(state, customer).WithFlash(flash), nil
}

// RetrieveCustomer loads the first element of GET /customers/{user_id}.
// Any failure, an empty answer included, clears the customer fields first.
func (d *Dispatcher) RetrieveCustomer(ctx context.Context, state formstate.State) (formstate.State, error) {
	userID := binder.ReadUserID(state)
	req := transport.Request{
		Method: http.MethodGet,
		Path:   transport.Path(CustomersPath, userID),
		Route:  routeCustomer,
	}
	customer, err := retrieveFirst[model.Customer](ctx, d.api, req, model.KindCustomer, userID)
	if err != nil {
		return retrieveFailure(state, model.KindCustomer, err)
	}
	return binder.WriteCustomer(state, customer).WithFlash(FlashSuccess), nil
}

// DeleteCustomer clears the form on success whatever the body says. Failures
// flash the generic server error.
func (d *Dispatcher) DeleteCustomer(ctx context.Context, state formstate.State) (formstate.State, error) {
	req := transport.Request{
		Method: http.MethodDelete,
		Path:   transport.Path(CustomersPath, binder.ReadUserID(state)),
		Route:  routeCustomer,
	}
	return d.delete(ctx, state, req, model.KindCustomer, FlashCustomerDeleted)
}

// SearchCustomers lists customers matching the filled filters.
func (d *Dispatcher) SearchCustomers(ctx context.Context, state formstate.State) (formstate.State, error) {
	filter := binder.ReadCustomerFilter(state)
	query := (&transport.Query{}).
		Add("fname", filter.FirstName).
		Add("lname", filter.LastName).
		Add("city", filter.City).
		Add("state", filter.State).
		Add("zip", filter.Zip)

	var customers []model.Customer
	req := transport.Request{
		Method: http.MethodGet,
		Path:   transport.WithQuery(CustomersPath, query),
		Route:  CustomersPath,
	}
	if err := d.api.Do(ctx, req, &customers); err != nil {
		return state.WithFlash(FailureFlash(err)), err
	}

	next, err := d.showResults(ctx, state, render.CustomerTable(customers))
	if err != nil {
		return next, err
	}
	if len(customers) > 0 {
		next = binder.WriteCustomer(next, customers[0])
	}
	return next.WithFlash(FlashSuccess), nil
}

// CreatePet posts {name, category, available}.
func (d *Dispatcher) CreatePet(ctx context.Context, state formstate.State) (formstate.State, error) {
	req := transport.Request{
		Method: http.MethodPost,
		Path:   PetsPath,
		Route:  PetsPath,
		Body:   binder.ReadPet(state).Payload(),
	}
	return d.savePet(ctx, state, req)
}

// UpdatePet puts {name, category, available} to /pets/{pet_id}.
func (d *Dispatcher) UpdatePet(ctx context.Context, state formstate.State) (formstate.State, error) {
	req := transport.Request{
		Method: http.MethodPut,
		Path:   transport.Path(PetsPath, binder.ReadPetID(state)),
		Route:  routePet,
		Body:   binder.ReadPet(state).Payload(),
	}
	return d.savePet(ctx, state, req)
}

func (d *Dispatcher) savePet(ctx context.Context, state formstate.State, req transport.Request) (formstate.State, error) {
	var pet model.Pet
	if err := d.api.Do(ctx, req, &pet); err != nil {
		return state.WithFlash(FailureFlash(err)), err
	}
	return binder.WritePet(state, pet).WithFlash(FlashSuccess), nil
}

// RetrievePet loads the first element of GET /pets/{pet_id}.
func (d *Dispatcher) RetrievePet(ctx context.Context, state formstate.State) (formstate.State, error) {
	petID := binder.ReadPetID(state)
	req := transport.Request{
		Method: http.MethodGet,
		Path:   transport.Path(PetsPath, petID),
		Route:  routePet,
	}
	pet, err := retrieveFirst[model.Pet](ctx, d.api, req, model.KindPet, petID)
	if err != nil {
		return retrieveFailure(state, model.KindPet, err)
	}
	return binder.WritePet(state, pet).WithFlash(FlashSuccess), nil
}

// DeletePet clears the pet fields on success.
func (d *Dispatcher) DeletePet(ctx context.Context, state formstate.State) (formstate.State, error) {
	req := transport.Request{
		Method: http.MethodDelete,
		Path:   transport.Path(PetsPath, binder.ReadPetID(state)),
		Route:  routePet,
	}
	return d.delete(ctx, state, req, model.KindPet, FlashPetDeleted)
}

// SearchPets lists pets matching the filled filters. Availability only
// filters when the field is "true".
func (d *Dispatcher) SearchPets(ctx context.Context, state formstate.State) (formstate.State, error) {
	filter := binder.ReadPetFilter(state)
	query := (&transport.Query{}).
		Add("name", filter.Name).
		Add("category", filter.Category).
		AddBool("available", filter.Available)

	var pets []model.Pet
	req := transport.Request{
		Method: http.MethodGet,
		Path:   transport.WithQuery(PetsPath, query),
		Route:  PetsPath,
	}
	if err := d.api.Do(ctx, req, &pets); err != nil {
		return state.WithFlash(FailureFlash(err)), err
	}

	next, err := d.showResults(ctx, state, render.PetTable(pets))
	if err != nil {
		return next, err
	}
	if len(pets) > 0 {
		next = binder.WritePet(next, pets[0])
	}
	return next.WithFlash(FlashSuccess), nil
}

func (d *Dispatcher) delete(ctx context.Context, state formstate.State, req transport.Request, kind model.Kind, flash string) (formstate.State, error) {
	if err := d.api.Do(ctx, req, nil); err != nil {
		return state.WithFlash(FlashServerError), err
	}
	return binder.Clear(state, kind).WithFlash(flash), nil
}

// showResults renders the table into the results area. An empty result set
// clears the kind's fields; otherwise the caller promotes the first row.
func (d *Dispatcher) showResults(ctx context.Context, state formstate.State, table render.Table) (formstate.State, error) {
	result, err := render.RenderResult(ctx, d.renderer, table)
	if err != nil {
		return state.WithFlash(FlashServerError), fmt.Errorf("dispatcher: render %s results: %w", table.Kind, err)
	}
	next := state.WithResults(result.Body)
	if !result.HasRows {
		next = binder.Clear(next, table.Kind)
	}
	return next, nil
}

func clearHandler(kind model.Kind) Handler {
	return func(_ context.Context, state formstate.State) (formstate.State, error) {
		return binder.Clear(state, kind).WithFlash(""), nil
	}
}

func retrieveFailure(state formstate.State, kind model.Kind, err error) (formstate.State, error) {
	cleared := binder.Clear(state, kind)
	if errors.Is(err, ErrNotFound) {
		return cleared.WithFlash(NotFoundFlash(kind)), err
	}
	return cleared.WithFlash(FailureFlash(err)), err
}

// retrieveFirst fetches a single entity. The API answers with a one-element
// array; a bare object is accepted too. An empty answer is ErrNotFound.
func retrieveFirst[T any](ctx context.Context, api Caller, req transport.Request, kind model.Kind, id string) (T, error) {
	var zero T
	var raw json.RawMessage
	if err := api.Do(ctx, req, &raw); err != nil {
		return zero, err
	}

	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return zero, notFoundErr(kind, id)
	}
	if trimmed[0] != '[' {
		var one T
		if err := json.Unmarshal(trimmed, &one); err != nil {
			return zero, fmt.Errorf("%w: decode %s: %w", transport.ErrTransport, kind, err)
		}
		return one, nil
	}

	var items []T
	if err := json.Unmarshal(trimmed, &items); err != nil {
		return zero, fmt.Errorf("%w: decode %s list: %w", transport.ErrTransport, kind, err)
	}
	if len(items) == 0 {
		return zero, notFoundErr(kind, id)
	}
	return items[0], nil
}
