package overrides

import (
	"errors"
	"reflect"
	"testing"
)

func TestNewStateOffersWholeUniverse(t *testing.T) {
	state := NewState(demoCategory())
	if got := state.ActiveFieldsInOrder(); len(got) != 0 {
		t.Fatalf("expected no active fields, got %v", got)
	}
	want := demoCategory().Universe()
	if got := state.AvailableFields(); !reflect.DeepEqual(got, want) {
		t.Fatalf("expected available %v, got %v", want, got)
	}
	if got := state.Order(); !reflect.DeepEqual(got, want) {
		t.Fatalf("expected order %v, got %v", want, got)
	}
}

func TestStateInitializeIsIdempotent(t *testing.T) {
	state := NewState(demoCategory())
	input := OverrideSet{"note": "hi", "limit": 5}
	state.Initialize(input)
	first := state.Order()
	state.Initialize(input)
	if got := state.Order(); !reflect.DeepEqual(got, first) {
		t.Fatalf("expected stable order %v, got %v", first, got)
	}
	if !reflect.DeepEqual(first, []string{"limit", "note"}) {
		t.Fatalf("expected universe order for new keys, got %v", first)
	}
	input["note"] = "mutated"
	if v, _ := state.Value("note"); v != "hi" {
		t.Fatalf("expected state to own a copy, got %v", v)
	}
}

func TestStateInitializeKeepsPriorOrder(t *testing.T) {
	state := NewState(demoCategory())
	state.Initialize(OverrideSet{"note": "a"})
	if err := state.AddField("enabled"); err != nil {
		t.Fatalf("AddField: %v", err)
	}
	state.Initialize(OverrideSet{"note": "a", "enabled": true, "limit": 1})
	want := []string{"note", "enabled", "limit"}
	if got := state.ActiveFieldsInOrder(); !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestStateAddFieldUsesKindDefaults(t *testing.T) {
	state := NewState(demoCategory())
	state.Initialize(OverrideSet{"note": "x"})

	for _, key := range []string{"enabled", "limit", "bio"} {
		if err := state.AddField(key); err != nil {
			t.Fatalf("AddField(%s): %v", key, err)
		}
	}
	values := state.Values()
	if values["enabled"] != false {
		t.Fatalf("expected boolean default false, got %#v", values["enabled"])
	}
	if v, ok := values["limit"]; !ok || v != nil {
		t.Fatalf("expected number to be active and unset, got %#v (%v)", v, ok)
	}
	if values["bio"] != "" {
		t.Fatalf("expected multiline default empty string, got %#v", values["bio"])
	}
	want := []string{"note", "enabled", "limit", "bio"}
	if got := state.ActiveFieldsInOrder(); !reflect.DeepEqual(got, want) {
		t.Fatalf("expected added keys appended, got %v", got)
	}
	if got := state.AvailableFields(); !reflect.DeepEqual(got, []string{"extra"}) {
		t.Fatalf("expected only extra available, got %v", got)
	}
}

func TestStateAddFieldRejectsUnknownAndActive(t *testing.T) {
	state := NewState(demoCategory())
	if err := state.AddField("ghost"); !errors.Is(err, ErrUnknownField) {
		t.Fatalf("expected ErrUnknownField, got %v", err)
	}
	if err := state.AddField("note"); err != nil {
		t.Fatalf("AddField: %v", err)
	}
	if err := state.UpdateField("note", "kept"); err != nil {
		t.Fatalf("UpdateField: %v", err)
	}
	if err := state.AddField("note"); !errors.Is(err, ErrFieldActive) {
		t.Fatalf("expected ErrFieldActive, got %v", err)
	}
	if v, _ := state.Value("note"); v != "kept" {
		t.Fatalf("expected value untouched, got %v", v)
	}
}

func TestStateRemoveFieldClearsError(t *testing.T) {
	state := NewState(demoCategory())
	state.Initialize(OverrideSet{"note": "x", "limit": 500})
	state.setErrors(ValidationErrors{"limit": "too big", "note": "bad"})

	state.RemoveField("limit")
	if state.Values().Has("limit") {
		t.Fatalf("expected limit removed")
	}
	errs := state.Errors()
	if _, ok := errs["limit"]; ok {
		t.Fatalf("expected limit error cleared, got %v", errs)
	}
	if errs["note"] != "bad" {
		t.Fatalf("expected other errors kept, got %v", errs)
	}
	if got := state.Order(); !reflect.DeepEqual(got, []string{"note"}) {
		t.Fatalf("expected limit gone from order, got %v", got)
	}

	state.RemoveField("limit")
	state.RemoveField("ghost")
	if got := state.ActiveFieldsInOrder(); !reflect.DeepEqual(got, []string{"note"}) {
		t.Fatalf("expected no-op removals, got %v", got)
	}
}

func TestStateUpdateFieldNeverCreatesKeys(t *testing.T) {
	state := NewState(demoCategory())
	if err := state.UpdateField("note", "x"); !errors.Is(err, ErrFieldNotActive) {
		t.Fatalf("expected ErrFieldNotActive, got %v", err)
	}
	if state.Values().Has("note") {
		t.Fatalf("expected update not to create key")
	}

	state.Initialize(OverrideSet{"note": "x"})
	state.setErrors(ValidationErrors{"note": "bad"})
	if err := state.UpdateField("note", "y"); err != nil {
		t.Fatalf("UpdateField: %v", err)
	}
	if _, ok := state.Errors()["note"]; ok {
		t.Fatalf("expected update to clear error")
	}
}

func TestReconcileOrderAppendsUnknownKeysSorted(t *testing.T) {
	got := reconcileOrder([]string{"b", "a", "b"}, OverrideSet{"a": 1, "b": 2, "z": 3, "y": 4, "c": 5}, []string{"c", "a"})
	want := []string{"b", "a", "c", "y", "z"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}
