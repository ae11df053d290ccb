package render

import (
	"strings"

	"github.com/samber/lo"

	"github.com/goliatone/go-formclient/pkg/model"
)

// Table is a renderer-neutral result set. Every cell is plain text; renderers
// are responsible for escaping it for their output format.
type Table struct {
	Kind    model.Kind `json:"kind"`
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

var (
	petColumns      = []string{"ID", "Name", "Category", "Available"}
	customerColumns = []string{"ID", "User Name", "First Name", "Last Name", "Address", "Active"}
)

// PetTable lays out pets in response order.
func PetTable(pets []model.Pet) Table {
	return Table{
		Kind:    model.KindPet,
		Columns: append([]string(nil), petColumns...),
		Rows: lo.Map(pets, func(p model.Pet, _ int) []string {
			return []string{p.ID.String(), p.Name, p.Category, model.FormatBool(p.Available)}
		}),
	}
}

// CustomerTable lays out customers in response order.
func CustomerTable(customers []model.Customer) Table {
	return Table{
		Kind:    model.KindCustomer,
		Columns: append([]string(nil), customerColumns...),
		Rows: lo.Map(customers, func(c model.Customer, _ int) []string {
			return []string{
				c.CustomerID.String(),
				c.UserID,
				c.FirstName,
				c.LastName,
				FormatAddress(c.Address),
				model.FormatBool(c.Active),
			}
		}),
	}
}

// FormatAddress composes "street apartment, city, state zip_code", skipping
// empty parts.
func FormatAddress(a model.Address) string {
	line := func(parts ...string) string {
		return strings.Join(lo.Compact(lo.Map(parts, func(s string, _ int) string {
			return strings.TrimSpace(s)
		})), " ")
	}
	return strings.Join(lo.Compact([]string{
		line(a.Street, a.Apartment),
		line(a.City),
		line(a.State, a.ZipCode),
	}), ", ")
}
