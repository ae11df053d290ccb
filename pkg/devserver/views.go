package devserver

import "github.com/goliatone/go-formclient/pkg/model"

// AddressView is the address as the API returns it, with its own id.
type AddressView struct {
	ID int `json:"id"`
	model.Address
}

// CustomerView is the customer as the API returns it. The password is never
// serialised.
type CustomerView struct {
	CustomerID int         `json:"customer_id"`
	FirstName  string      `json:"first_name"`
	LastName   string      `json:"last_name"`
	UserID     string      `json:"user_id"`
	Active     bool        `json:"active"`
	Address    AddressView `json:"address"`
}

type errorBody struct {
	Status  int    `json:"status,omitempty"`
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
}

type healthBody struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}
