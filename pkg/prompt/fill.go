// Package prompt is the terminal field accessor: it asks for field values
// with a PromptDriver, dispatches the chosen action and prints the outcome.
package prompt

import (
	"context"
	"strings"

	"github.com/goliatone/go-formclient/pkg/binder"
	"github.com/goliatone/go-formclient/pkg/formstate"
	"github.com/goliatone/go-formclient/pkg/model"
)

var fieldLabels = map[string]string{
	model.FieldUserID:       "User name",
	model.FieldFirstName:    "First name",
	model.FieldLastName:     "Last name",
	model.FieldPassword:     "Password",
	model.FieldStreet:       "Street",
	model.FieldApartment:    "Apartment",
	model.FieldCity:         "City",
	model.FieldState:        "State",
	model.FieldZipCode:      "Zip code",
	model.FieldPetID:        "Pet ID",
	model.FieldPetName:      "Pet name",
	model.FieldPetCategory:  "Category",
	model.FieldPetAvailable: "Available?",
}

// displayOnly fields are written from responses and never asked for.
var displayOnly = map[string]bool{
	model.FieldCustomerID: true,
	model.FieldActive:     true,
}

// EditableFields returns the fields of kind's shape the user can type into,
// in display order.
func EditableFields(kind model.Kind) []string {
	var out []string
	for _, name := range binder.ShapeOf(kind).Fields {
		if !displayOnly[name] {
			out = append(out, name)
		}
	}
	return out
}

// FieldsFor returns the fields an action reads, in prompt order.
func FieldsFor(action string, kind model.Kind) []string {
	verb, _, _ := strings.Cut(action, "-")
	switch verb {
	case "create", "update":
		return EditableFields(kind)
	case "retrieve", "delete", "activate", "deactivate":
		return []string{binder.ShapeOf(kind).Key()}
	case "search":
		if kind == model.KindPet {
			return []string{model.FieldPetName, model.FieldPetCategory, model.FieldPetAvailable}
		}
		return []string{model.FieldFirstName, model.FieldLastName, model.FieldCity, model.FieldState, model.FieldZipCode}
	default:
		return nil
	}
}

// Fill asks for every editable field of kind, using the current values as
// defaults.
func Fill(ctx context.Context, driver PromptDriver, state formstate.State, kind model.Kind) (formstate.State, error) {
	return FillFields(ctx, driver, state, EditableFields(kind))
}

// FillFields asks for the named fields in order. The password is masked and
// pet availability is a yes/no question stored as "true"/"false".
func FillFields(ctx context.Context, driver PromptDriver, state formstate.State, names []string) (formstate.State, error) {
	out := state.Clone()
	for _, name := range names {
		label := fieldLabels[name]
		if label == "" {
			label = name
		}

		var (
			value string
			err   error
		)
		switch name {
		case model.FieldPassword:
			value, err = driver.Password(ctx, InputConfig{Message: label})
		case model.FieldPetAvailable:
			var yes bool
			yes, err = driver.Confirm(ctx, ConfirmConfig{
				Message: label,
				Default: binder.ParseAvailable(out.Get(name)),
			})
			value = model.FormatBool(yes)
		default:
			value, err = driver.Input(ctx, InputConfig{Message: label, Default: out.Get(name)})
		}
		if err != nil {
			return state, err
		}
		out = out.With(name, value)
	}
	return out, nil
}
