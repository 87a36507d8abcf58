package batch

import (
	"errors"
	"testing"
)

func TestNewOK(t *testing.T) {
	r := NewOK("place-1", 42)
	if r.ID() != "place-1" {
		t.Errorf("ID() = %q", r.ID())
	}
	if r.Status() != StatusOK {
		t.Errorf("Status() = %q, want %q", r.Status(), StatusOK)
	}
	if !r.OK() {
		t.Error("OK() = false, want true")
	}
	if r.Value() != 42 {
		t.Errorf("Value() = %d, want 42", r.Value())
	}
	if r.Err() != nil {
		t.Errorf("Err() = %v, want nil", r.Err())
	}
}

func TestNewSkipped(t *testing.T) {
	err := errors.New("provider down")
	r := NewSkipped[int]("place-2", err)
	if r.ID() != "place-2" {
		t.Errorf("ID() = %q", r.ID())
	}
	if r.Status() != StatusSkipped {
		t.Errorf("Status() = %q, want %q", r.Status(), StatusSkipped)
	}
	if r.OK() {
		t.Error("OK() = true, want false")
	}
	if !errors.Is(r.Err(), err) {
		t.Errorf("Err() = %v, want %v", r.Err(), err)
	}
}

func TestSuccessful_FiltersSkipped(t *testing.T) {
	results := []Result[string]{
		NewOK("a", "A"),
		NewSkipped[string]("b", nil),
		NewOK("c", "C"),
		NewSkipped[string]("d", errors.New("boom")),
	}

	got := Successful(results)
	if len(got) != 2 || got[0] != "A" || got[1] != "C" {
		t.Errorf("Successful() = %v, want [A C]", got)
	}
}

func TestSuccessful_Empty(t *testing.T) {
	if got := Successful[int](nil); len(got) != 0 {
		t.Errorf("Successful(nil) = %v, want empty", got)
	}
}
