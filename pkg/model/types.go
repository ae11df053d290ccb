package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Kind identifies which entity shape an action operates on.
type Kind string

const (
	KindCustomer Kind = "customer"
	KindPet      Kind = "pet"
)

// Valid reports whether k is one of the known kinds.
func (k Kind) Valid() bool {
	return k == KindCustomer || k == KindPet
}

// Label returns the capitalised kind used in user-facing messages.
func (k Kind) Label() string {
	switch k {
	case KindCustomer:
		return "Customer"
	case KindPet:
		return "Pet"
	default:
		return string(k)
	}
}

// ID is a server-assigned identifier. The API emits customer ids as integers
// and pet ids as strings; both decode into the same textual form.
type ID string

// UnmarshalJSON accepts a JSON string, number or null.
func (id *ID) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*id = ""
		return nil
	}
	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(trimmed, &n); err != nil {
		return fmt.Errorf("model: id must be a string or number: %w", err)
	}
	*id = ID(n.String())
	return nil
}

// String returns the identifier text.
func (id ID) String() string {
	return string(id)
}

// Address is the value object embedded in every customer.
type Address struct {
	Street    string `json:"street"`
	Apartment string `json:"apartment"`
	City      string `json:"city"`
	State     string `json:"state"`
	ZipCode   string `json:"zip_code"`
}

// Customer mirrors the customer resource. Password is write-only: it is sent
// on create/update and never present in responses used to populate the form.
// Active is only changed through the activate/deactivate endpoints.
type Customer struct {
	CustomerID ID      `json:"customer_id,omitempty"`
	UserID     string  `json:"user_id"`
	FirstName  string  `json:"first_name"`
	LastName   string  `json:"last_name"`
	Password   string  `json:"password,omitempty"`
	Address    Address `json:"address"`
	Active     bool    `json:"active"`
}

// CustomerPayload is the request body for create and update. It carries the
// password and omits the server-owned customer_id and active attributes.
type CustomerPayload struct {
	UserID    string  `json:"user_id"`
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	Password  string  `json:"password"`
	Address   Address `json:"address"`
}

// Payload converts the customer into its request body.
func (c Customer) Payload() CustomerPayload {
	return CustomerPayload{
		UserID:    c.UserID,
		FirstName: c.FirstName,
		LastName:  c.LastName,
		Password:  c.Password,
		Address:   c.Address,
	}
}

// Pet mirrors the pet resource.
type Pet struct {
	ID        ID     `json:"_id,omitempty"`
	Name      string `json:"name"`
	Category  string `json:"category"`
	Available bool   `json:"available"`
}

// PetPayload is the request body for pet create and update.
type PetPayload struct {
	Name      string `json:"name"`
	Category  string `json:"category"`
	Available bool   `json:"available"`
}

// Payload converts the pet into its request body.
func (p Pet) Payload() PetPayload {
	return PetPayload{
		Name:      p.Name,
		Category:  p.Category,
		Available: p.Available,
	}
}

// FormatBool renders booleans the way form fields store them.
func FormatBool(v bool) string {
	return strconv.FormatBool(v)
}
