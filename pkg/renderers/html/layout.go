package html

import (
	"github.com/goliatone/go-formclient/pkg/binder"
	"github.com/goliatone/go-formclient/pkg/formstate"
	"github.com/goliatone/go-formclient/pkg/model"
)

type pageSection struct {
	Kind    string       `json:"kind"`
	Label   string       `json:"label"`
	Fields  []pageField  `json:"fields"`
	Actions []pageAction `json:"actions"`
}

type pageField struct {
	ID       string       `json:"id"`
	Label    string       `json:"label"`
	Type     string       `json:"type"`
	Value    string       `json:"value"`
	ReadOnly bool         `json:"readonly"`
	Options  []pageOption `json:"options,omitempty"`
}

type pageOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

type pageAction struct {
	Name  string `json:"name"`
	Label string `json:"label"`
}

type fieldSpec struct {
	label    string
	kind     string
	readOnly bool
	options  []pageOption
}

var fieldSpecs = map[string]fieldSpec{
	model.FieldUserID:       {label: "User Name", kind: "text"},
	model.FieldCustomerID:   {label: "Customer ID", kind: "text", readOnly: true},
	model.FieldFirstName:    {label: "First Name", kind: "text"},
	model.FieldLastName:     {label: "Last Name", kind: "text"},
	model.FieldPassword:     {label: "Password", kind: "password"},
	model.FieldStreet:       {label: "Street", kind: "text"},
	model.FieldApartment:    {label: "Apartment", kind: "text"},
	model.FieldCity:         {label: "City", kind: "text"},
	model.FieldState:        {label: "State", kind: "text"},
	model.FieldZipCode:      {label: "Zip Code", kind: "text"},
	model.FieldActive:       {label: "Active", kind: "text", readOnly: true},
	model.FieldPetID:        {label: "Pet ID", kind: "text"},
	model.FieldPetName:      {label: "Name", kind: "text"},
	model.FieldPetCategory:  {label: "Category", kind: "text"},
	model.FieldPetAvailable: {label: "Available", kind: "select", options: []pageOption{{Value: "", Label: "Any"}, {Value: "true", Label: "Yes"}, {Value: "false", Label: "No"}}},
}

var sectionActions = map[model.Kind][]pageAction{
	model.KindCustomer: {
		{Name: "create-customer", Label: "Create"},
		{Name: "retrieve-customer", Label: "Retrieve"},
		{Name: "update-customer", Label: "Update"},
		{Name: "delete-customer", Label: "Delete"},
		{Name: "activate-customer", Label: "Activate"},
		{Name: "deactivate-customer", Label: "Deactivate"},
		{Name: "search-customers", Label: "Search"},
		{Name: "clear-customer", Label: "Clear"},
	},
	model.KindPet: {
		{Name: "create-pet", Label: "Create"},
		{Name: "retrieve-pet", Label: "Retrieve"},
		{Name: "update-pet", Label: "Update"},
		{Name: "delete-pet", Label: "Delete"},
		{Name: "search-pets", Label: "Search"},
		{Name: "clear-pet", Label: "Clear"},
	},
}

// ActionNames lists every action the page offers a button for.
func ActionNames() []string {
	var names []string
	for _, kind := range []model.Kind{model.KindCustomer, model.KindPet} {
		for _, action := range sectionActions[kind] {
			names = append(names, action.Name)
		}
	}
	return names
}

func buildSections(state formstate.State) []pageSection {
	kinds := []model.Kind{model.KindCustomer, model.KindPet}
	sections := make([]pageSection, 0, len(kinds))
	for _, kind := range kinds {
		shape := binder.ShapeOf(kind)
		fields := make([]pageField, 0, len(shape.Fields))
		for _, id := range shape.Fields {
			spec := fieldSpecs[id]
			fields = append(fields, pageField{
				ID:       id,
				Label:    spec.label,
				Type:     spec.kind,
				Value:    state.Get(id),
				ReadOnly: spec.readOnly,
				Options:  spec.options,
			})
		}
		sections = append(sections, pageSection{
			Kind:    string(kind),
			Label:   kind.Label(),
			Fields:  fields,
			Actions: sectionActions[kind],
		})
	}
	return sections
}
