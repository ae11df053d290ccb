package binder

import (
	"github.com/goliatone/go-formclient/pkg/model"
)

// Shape lists the form fields that belong to one entity kind, in display
// order. The first field is the identifier used to address the entity.
type Shape struct {
	Kind   model.Kind
	Fields []string
}

// Key returns the identifier field of the shape.
func (s Shape) Key() string {
	if len(s.Fields) == 0 {
		return ""
	}
	return s.Fields[0]
}

// Contains reports whether name belongs to the shape.
func (s Shape) Contains(name string) bool {
	for _, field := range s.Fields {
		if field == name {
			return true
		}
	}
	return false
}

var (
	customerShape = Shape{
		Kind: model.KindCustomer,
		Fields: []string{
			model.FieldUserID,
			model.FieldCustomerID,
			model.FieldFirstName,
			model.FieldLastName,
			model.FieldPassword,
			model.FieldStreet,
			model.FieldApartment,
			model.FieldCity,
			model.FieldState,
			model.FieldZipCode,
			model.FieldActive,
		},
	}
	petShape = Shape{
		Kind: model.KindPet,
		Fields: []string{
			model.FieldPetID,
			model.FieldPetName,
			model.FieldPetCategory,
			model.FieldPetAvailable,
		},
	}
)

// ShapeOf returns the field shape for kind. Unknown kinds yield an empty shape.
func ShapeOf(kind model.Kind) Shape {
	switch kind {
	case model.KindCustomer:
		return cloneShape(customerShape)
	case model.KindPet:
		return cloneShape(petShape)
	default:
		return Shape{Kind: kind}
	}
}

func cloneShape(s Shape) Shape {
	return Shape{Kind: s.Kind, Fields: append([]string(nil), s.Fields...)}
}
