package transport_test

import (
	"strings"
	"testing"

	"github.com/goliatone/go-formclient/pkg/transport"
)

func TestQuery_TermsFollowDeclaredOrder(t *testing.T) {
	keys := []string{"fname", "lname", "city", "state", "zip"}

	// every subset of the five filters
	for mask := 0; mask < 1<<len(keys); mask++ {
		q := &transport.Query{}
		var want []string
		for i, key := range keys {
			value := ""
			if mask&(1<<i) != 0 {
				value = "v" + key
				want = append(want, key+"=v"+key)
			}
			q.Add(key, value)
		}

		got := q.Encode()
		if q.Len() != len(want) {
			t.Fatalf("mask %05b: len = %d, want %d", mask, q.Len(), len(want))
		}
		if got != strings.Join(want, "&") {
			t.Fatalf("mask %05b: got %q, want %q", mask, got, strings.Join(want, "&"))
		}
		if len(want) > 0 && strings.Count(got, "&") != len(want)-1 {
			t.Fatalf("mask %05b: ampersands in %q", mask, got)
		}
		if strings.HasPrefix(got, "&") {
			t.Fatalf("mask %05b: leading ampersand in %q", mask, got)
		}
	}
}

func TestQuery_EscapesValues(t *testing.T) {
	q := (&transport.Query{}).
		Add("name", "Rex & Co").
		Add("category", "dog=cat?").
		AddBool("available", true)

	want := "name=Rex+%26+Co&category=dog%3Dcat%3F&available=true"
	if got := q.Encode(); got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestQuery_FalseBoolOmitted(t *testing.T) {
	q := (&transport.Query{}).Add("name", "").AddBool("available", false)
	if q.Len() != 0 {
		t.Fatalf("expected empty query, got %q", q.Encode())
	}
	if got := transport.WithQuery("/pets", q); got != "/pets" {
		t.Fatalf("WithQuery = %q", got)
	}
}

func TestWithQuery(t *testing.T) {
	q := (&transport.Query{}).Add("city", "Springfield")
	if got := transport.WithQuery("/customers", q); got != "/customers?city=Springfield" {
		t.Fatalf("WithQuery = %q", got)
	}
}

func TestPath(t *testing.T) {
	tests := []struct {
		collection string
		segments   []string
		want       string
	}{
		{"/customers", []string{"jdoe"}, "/customers/jdoe"},
		{"/customers/", []string{"a b", "activate"}, "/customers/a%20b/activate"},
		{"/pets", []string{"x/y"}, "/pets/x%2Fy"},
		{"/pets", []string{""}, "/pets/"},
	}
	for _, tt := range tests {
		if got := transport.Path(tt.collection, tt.segments...); got != tt.want {
			t.Errorf("Path(%q, %q) = %q, want %q", tt.collection, tt.segments, got, tt.want)
		}
	}
}
