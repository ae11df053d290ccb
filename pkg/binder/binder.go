// Package binder translates between the flat set of named form fields and the
// nested customer/pet resources. Reads are verbatim: no trimming and no type
// coercion other than the "true" check for pet availability.
package binder

import (
	"github.com/goliatone/go-formclient/pkg/formstate"
	"github.com/goliatone/go-formclient/pkg/model"
)

// ReadCustomer assembles a customer from the form. Absent fields read as "".
// CustomerID and Active are display-only and are not read back.
func ReadCustomer(state formstate.State) model.Customer {
	return model.Customer{
		UserID:    state.Get(model.FieldUserID),
		FirstName: state.Get(model.FieldFirstName),
		LastName:  state.Get(model.FieldLastName),
		Password:  state.Get(model.FieldPassword),
		Address: model.Address{
			Street:    state.Get(model.FieldStreet),
			Apartment: state.Get(model.FieldApartment),
			City:      state.Get(model.FieldCity),
			State:     state.Get(model.FieldState),
			ZipCode:   state.Get(model.FieldZipCode),
		},
	}
}

// ReadCustomerFilter reads the customer search filters.
func ReadCustomerFilter(state formstate.State) model.CustomerFilter {
	return model.CustomerFilter{
		FirstName: state.Get(model.FieldFirstName),
		LastName:  state.Get(model.FieldLastName),
		City:      state.Get(model.FieldCity),
		State:     state.Get(model.FieldState),
		Zip:       state.Get(model.FieldZipCode),
	}
}

// ReadUserID returns the customer key used in URLs.
func ReadUserID(state formstate.State) string {
	return state.Get(model.FieldUserID)
}

// ReadPet assembles a pet from the form. Available is true only when the
// field holds exactly "true".
func ReadPet(state formstate.State) model.Pet {
	return model.Pet{
		ID:        model.ID(state.Get(model.FieldPetID)),
		Name:      state.Get(model.FieldPetName),
		Category:  state.Get(model.FieldPetCategory),
		Available: ParseAvailable(state.Get(model.FieldPetAvailable)),
	}
}

// ReadPetFilter reads the pet search filters.
func ReadPetFilter(state formstate.State) model.PetFilter {
	pet := ReadPet(state)
	return model.PetFilter{
		Name:      pet.Name,
		Category:  pet.Category,
		Available: pet.Available,
	}
}

// ReadPetID returns the pet key used in URLs.
func ReadPetID(state formstate.State) string {
	return state.Get(model.FieldPetID)
}

// ParseAvailable applies the exact-match rule for the availability field.
func ParseAvailable(raw string) bool {
	return raw == "true"
}

// WriteCustomer overwrites every customer field with the entity. The password
// field is reset: responses never carry it and the previous value must not
// survive a load.
func WriteCustomer(state formstate.State, c model.Customer) formstate.State {
	return state.WithFields(map[string]string{
		model.FieldCustomerID: c.CustomerID.String(),
		model.FieldUserID:     c.UserID,
		model.FieldFirstName:  c.FirstName,
		model.FieldLastName:   c.LastName,
		model.FieldPassword:   "",
		model.FieldStreet:     c.Address.Street,
		model.FieldApartment:  c.Address.Apartment,
		model.FieldCity:       c.Address.City,
		model.FieldState:      c.Address.State,
		model.FieldZipCode:    c.Address.ZipCode,
		model.FieldActive:     model.FormatBool(c.Active),
	})
}

// WritePet overwrites every pet field with the entity.
func WritePet(state formstate.State, p model.Pet) formstate.State {
	return state.WithFields(map[string]string{
		model.FieldPetID:        p.ID.String(),
		model.FieldPetName:      p.Name,
		model.FieldPetCategory:  p.Category,
		model.FieldPetAvailable: model.FormatBool(p.Available),
	})
}

// Clear resets every field of kind's shape and nothing else.
func Clear(state formstate.State, kind model.Kind) formstate.State {
	return state.Reset(ShapeOf(kind).Fields...)
}

// ClearCustomer resets the customer shape.
func ClearCustomer(state formstate.State) formstate.State {
	return Clear(state, model.KindCustomer)
}

// ClearPet resets the pet shape.
func ClearPet(state formstate.State) formstate.State {
	return Clear(state, model.KindPet)
}
