// Package model defines the resources exchanged with the customer/pet REST API
// and the identifiers of the form fields that represent them. Customers embed
// an Address value; pets are flat. Field identifiers are the names the UI uses
// for each input and are shared by every field accessor (HTML page, terminal
// prompts, CLI arguments) so a FormState built by one can be read by another.
package model
