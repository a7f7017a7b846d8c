package callback

import (
	"reflect"
	"testing"
)

func TestCallbacks_Actions(t *testing.T) {
	noop := func(Ref) {}
	tests := []struct {
		name string
		cb   *Callbacks
		want []Action
	}{
		{"nil callbacks", nil, nil},
		{"none", &Callbacks{}, nil},
		{"edit only", &Callbacks{OnEdit: noop}, []Action{ActionEdit}},
		{"delete only", &Callbacks{OnDelete: noop}, []Action{ActionDelete}},
		{"both", &Callbacks{OnEdit: noop, OnDelete: noop}, []Action{ActionEdit, ActionDelete}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cb.Actions(); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Actions() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSafeRender(t *testing.T) {
	tests := []struct {
		name    string
		render  func() string
		want    string
		wantOK  bool
	}{
		{"nil", nil, "", false},
		{"content", func() string { return "hello" }, "hello", true},
		{"empty", func() string { return "" }, "", false},
		{"panic", func() string { panic("boom") }, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := SafeRender(tt.render)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("SafeRender() = %q, %v; want %q, %v", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestActionString(t *testing.T) {
	if ActionEdit.String() != "Edit" || ActionDelete.String() != "Delete" {
		t.Error("unexpected action labels")
	}
	if Action(7).String() != "Action(7)" {
		t.Errorf("unknown action = %q", Action(7).String())
	}
}
