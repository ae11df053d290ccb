package testsupport

import (
	"os"
	"testing"

	"github.com/goliatone/go-formclient/pkg/model"
)

// SamplePets returns the pets used across renderer and dispatcher tests.
func SamplePets() []model.Pet {
	return []model.Pet{
		{ID: "1", Name: "Rex", Category: "dog", Available: true},
		{ID: "2", Name: "Tom <the cat>", Category: "cat", Available: false},
	}
}

// SampleCustomers returns the customers used across renderer and dispatcher
// tests.
func SampleCustomers() []model.Customer {
	return []model.Customer{
		{
			CustomerID: "7",
			UserID:     "jdoe",
			FirstName:  "John",
			LastName:   "Doe",
			Address: model.Address{
				Street:    "1 Main St",
				Apartment: "4B",
				City:      "Springfield",
				State:     "IL",
				ZipCode:   "62701",
			},
			Active: true,
		},
		{
			CustomerID: "8",
			UserID:     "asmith",
			FirstName:  "Ann",
			LastName:   "Smith",
			Address:    model.Address{City: "Shelbyville"},
		},
	}
}

// MustReadGolden reads a golden file and returns its raw bytes.
func MustReadGolden(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read golden: %v", err)
	}
	return data
}

// MustReadGoldenString reads a golden file and returns its string content.
func MustReadGoldenString(t *testing.T, path string) string {
	t.Helper()
	return string(MustReadGolden(t, path))
}
