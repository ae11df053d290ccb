package prompt_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formclient/pkg/dispatcher"
	"github.com/goliatone/go-formclient/pkg/formstate"
	"github.com/goliatone/go-formclient/pkg/model"
	"github.com/goliatone/go-formclient/pkg/prompt"
	"github.com/goliatone/go-formclient/pkg/transport"
)

type stubDriver struct {
	inputs       []string
	passwords    []string
	confirm      []bool
	choices      []string
	inputPos     int
	passPos      int
	confirmPos   int
	choicePos    int
	asked        []string
	defaults     []string
	infoMessages []string
}

func (s *stubDriver) Input(_ context.Context, cfg prompt.InputConfig) (string, error) {
	if s.inputPos >= len(s.inputs) {
		return "", errors.New("no input scripted")
	}
	s.asked = append(s.asked, cfg.Message)
	s.defaults = append(s.defaults, cfg.Default)
	val := s.inputs[s.inputPos]
	s.inputPos++
	return val, nil
}

func (s *stubDriver) Password(_ context.Context, cfg prompt.InputConfig) (string, error) {
	if s.passPos >= len(s.passwords) {
		return "", errors.New("no password scripted")
	}
	s.asked = append(s.asked, cfg.Message)
	val := s.passwords[s.passPos]
	s.passPos++
	return val, nil
}

func (s *stubDriver) Confirm(_ context.Context, cfg prompt.ConfirmConfig) (bool, error) {
	if s.confirmPos >= len(s.confirm) {
		return false, errors.New("no confirm scripted")
	}
	s.asked = append(s.asked, cfg.Message)
	val := s.confirm[s.confirmPos]
	s.confirmPos++
	return val, nil
}

func (s *stubDriver) Select(_ context.Context, cfg prompt.SelectConfig) (int, error) {
	if s.choicePos >= len(s.choices) {
		return -1, prompt.ErrAborted
	}
	choice := s.choices[s.choicePos]
	s.choicePos++
	for i, option := range cfg.Options {
		if option == choice {
			return i, nil
		}
	}
	return -1, errors.New("choice not offered: " + choice)
}

func (s *stubDriver) Info(_ context.Context, msg string) error {
	s.infoMessages = append(s.infoMessages, msg)
	return nil
}

func TestFill_CustomerAsksEditableFields(t *testing.T) {
	driver := &stubDriver{
		inputs:    []string{"jdoe", "John", "Doe", "1 Main St", "", "Springfield", "IL", "62701"},
		passwords: []string{"s3cret"},
	}
	state := formstate.New(map[string]string{model.FieldCity: "Old Town", model.FieldCustomerID: "7"})

	got, err := prompt.Fill(context.Background(), driver, state, model.KindCustomer)
	if err != nil {
		t.Fatalf("fill: %v", err)
	}

	want := map[string]string{
		model.FieldUserID:     "jdoe",
		model.FieldCustomerID: "7",
		model.FieldFirstName:  "John",
		model.FieldLastName:   "Doe",
		model.FieldPassword:   "s3cret",
		model.FieldStreet:     "1 Main St",
		model.FieldApartment:  "",
		model.FieldCity:       "Springfield",
		model.FieldState:      "IL",
		model.FieldZipCode:    "62701",
	}
	if diff := cmp.Diff(want, got.Fields); diff != "" {
		t.Fatalf("fields mismatch (-want +got):\n%s", diff)
	}
	if driver.defaults[5] != "Old Town" {
		t.Fatalf("city default = %q", driver.defaults[5])
	}
}

func TestFill_PetAvailabilityIsConfirm(t *testing.T) {
	driver := &stubDriver{
		inputs:  []string{"42", "Rex", "dog"},
		confirm: []bool{true},
	}
	got, err := prompt.Fill(context.Background(), driver, formstate.State{}, model.KindPet)
	if err != nil {
		t.Fatalf("fill: %v", err)
	}
	if got.Get(model.FieldPetAvailable) != "true" {
		t.Fatalf("pet_available = %q", got.Get(model.FieldPetAvailable))
	}
}

func TestFill_AbortKeepsState(t *testing.T) {
	driver := &stubDriver{inputs: []string{"42"}}
	state := formstate.New(map[string]string{model.FieldPetName: "Fido"})

	got, err := prompt.Fill(context.Background(), driver, state, model.KindPet)
	if err == nil {
		t.Fatalf("expected error when the driver runs out of answers")
	}
	if diff := cmp.Diff(state, got); diff != "" {
		t.Fatalf("state changed on failure:\n%s", diff)
	}
}

func TestFieldsFor(t *testing.T) {
	tests := []struct {
		action string
		kind   model.Kind
		want   []string
	}{
		{"retrieve-pet", model.KindPet, []string{model.FieldPetID}},
		{"activate-customer", model.KindCustomer, []string{model.FieldUserID}},
		{"search-pets", model.KindPet, []string{model.FieldPetName, model.FieldPetCategory, model.FieldPetAvailable}},
		{"search-customers", model.KindCustomer, []string{model.FieldFirstName, model.FieldLastName, model.FieldCity, model.FieldState, model.FieldZipCode}},
		{"clear-pet", model.KindPet, nil},
	}
	for _, tt := range tests {
		if diff := cmp.Diff(tt.want, prompt.FieldsFor(tt.action, tt.kind)); diff != "" {
			t.Errorf("%s fields mismatch (-want +got):\n%s", tt.action, diff)
		}
	}
}

func TestSession_SearchThenQuit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/pets" || r.URL.RawQuery != "category=dog&available=true" {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = io.WriteString(w, `{"message":"unexpected query `+r.URL.RawQuery+`"}`)
			return
		}
		_, _ = io.WriteString(w, `[{"_id":"1","name":"Rex","category":"dog","available":true}]`)
	}))
	defer srv.Close()

	client, err := transport.New(srv.URL)
	if err != nil {
		t.Fatalf("client: %v", err)
	}
	d, err := dispatcher.New(client)
	if err != nil {
		t.Fatalf("dispatcher: %v", err)
	}

	driver := &stubDriver{
		choices: []string{dispatcher.ActionSearchPets, prompt.QuitOption},
		inputs:  []string{"", "dog"},
		confirm: []bool{true},
	}
	session := prompt.NewSession(driver, d)

	state, err := session.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if state.Get(model.FieldPetName) != "Rex" {
		t.Fatalf("pet_name = %q", state.Get(model.FieldPetName))
	}
	if len(driver.infoMessages) != 3 {
		t.Fatalf("expected flash, table and summary, got %q", driver.infoMessages)
	}
	if driver.infoMessages[0] != dispatcher.FlashSuccess {
		t.Fatalf("flash = %q", driver.infoMessages[0])
	}
	if !strings.Contains(driver.infoMessages[1], "Rex") {
		t.Fatalf("table = %q", driver.infoMessages[1])
	}
	if !strings.Contains(driver.infoMessages[2], `pet_name="Rex"`) {
		t.Fatalf("summary = %q", driver.infoMessages[2])
	}
}

func TestSession_AbortStopsLoop(t *testing.T) {
	d, err := dispatcher.New(&noopCaller{})
	if err != nil {
		t.Fatalf("dispatcher: %v", err)
	}
	driver := &stubDriver{choices: []string{dispatcher.ActionClearPet}}
	session := prompt.NewSession(driver, d, prompt.WithState(formstate.New(map[string]string{model.FieldPetName: "Rex"})))

	state, err := session.Run(context.Background())
	if !errors.Is(err, prompt.ErrAborted) {
		t.Fatalf("expected ErrAborted, got %v", err)
	}
	if state.Get(model.FieldPetName) != "" {
		t.Fatalf("clear-pet did not run before abort: %v", state.Fields)
	}
}

type noopCaller struct{}

func (noopCaller) Do(context.Context, transport.Request, any) error { return nil }
