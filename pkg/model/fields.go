package model

// Customer form fields.
const (
	FieldCustomerID = "customer_id"
	FieldUserID     = "user_id"
	FieldFirstName  = "first_name"
	FieldLastName   = "last_name"
	FieldPassword   = "password"
	FieldStreet     = "street"
	FieldApartment  = "apartment"
	FieldCity       = "city"
	FieldState      = "state"
	FieldZipCode    = "zip_code"
	FieldActive     = "active"
)

// Pet form fields.
const (
	FieldPetID        = "pet_id"
	FieldPetName      = "pet_name"
	FieldPetCategory  = "pet_category"
	FieldPetAvailable = "pet_available"
)

// CustomerFilter holds the optional customer search filters in their declared
// query order.
type CustomerFilter struct {
	FirstName string
	LastName  string
	City      string
	State     string
	Zip       string
}

// PetFilter holds the optional pet search filters in their declared query
// order. Available only filters when true.
type PetFilter struct {
	Name      string
	Category  string
	Available bool
}
