package overrides

import (
	"strings"
	"testing"
)

func TestRenderFieldSelectsControlByKind(t *testing.T) {
	cases := []struct {
		kind  FieldKind
		value any
		want  ControlKind
		shown any
	}{
		{KindBoolean, nil, ControlToggle, false},
		{KindBoolean, true, ControlToggle, true},
		{KindNumber, nil, ControlNumberInput, nil},
		{KindString, nil, ControlTextInput, ""},
		{KindMultiline, "hi", ControlTextarea, "hi"},
	}
	for _, tc := range cases {
		control := RenderField(FieldConfig{Key: "k", Kind: tc.kind}, tc.value, "", FieldCallbacks{})
		if control.Kind != tc.want {
			t.Fatalf("kind %s: expected control %s, got %s", tc.kind, tc.want, control.Kind)
		}
		if control.Value != tc.shown {
			t.Fatalf("kind %s: expected value %#v, got %#v", tc.kind, tc.shown, control.Value)
		}
	}
	textarea := RenderField(FieldConfig{Key: "bio", Kind: KindMultiline}, "", "oops", FieldCallbacks{})
	if textarea.MaxLength != MultilineMaxLength || textarea.Error != "oops" {
		t.Fatalf("unexpected textarea control %+v", textarea)
	}
}

func TestControlInputRoutesThroughCallbacks(t *testing.T) {
	updates := map[string]any{}
	removed := ""
	callbacks := FieldCallbacks{
		Update: func(key string, value any) error {
			updates[key] = value
			return nil
		},
		Remove: func(key string) { removed = key },
	}

	number := RenderField(FieldConfig{Key: "limit", Kind: KindNumber}, nil, "", callbacks)
	if err := number.Input("42.5"); err != nil {
		t.Fatalf("Input: %v", err)
	}
	if updates["limit"] != 42.5 {
		t.Fatalf("expected parsed number, got %#v", updates["limit"])
	}

	textarea := RenderField(FieldConfig{Key: "bio", Kind: KindMultiline}, "", "", callbacks)
	if err := textarea.Input(strings.Repeat("é", 250)); err != nil {
		t.Fatalf("Input: %v", err)
	}
	if got := []rune(updates["bio"].(string)); len(got) != MultilineMaxLength {
		t.Fatalf("expected truncation to %d runes, got %d", MultilineMaxLength, len(got))
	}

	toggle := RenderField(FieldConfig{Key: "enabled", Kind: KindBoolean}, false, "", callbacks)
	if err := toggle.Toggle(true); err != nil {
		t.Fatalf("Toggle: %v", err)
	}
	if updates["enabled"] != true {
		t.Fatalf("expected toggle update, got %#v", updates["enabled"])
	}
	if err := toggle.Input("x"); err == nil {
		t.Fatalf("expected toggle to reject text input")
	}
	if err := number.Toggle(true); err == nil {
		t.Fatalf("expected number to reject toggle")
	}

	toggle.Remove()
	if removed != "enabled" {
		t.Fatalf("expected remove callback, got %q", removed)
	}
}

func TestParseNumberInput(t *testing.T) {
	cases := map[string]any{
		"":      nil,
		"   ":   nil,
		"7":     float64(7),
		" 3.5 ": 3.5,
		"abc":   float64(0),
		"NaN":   float64(0),
		"Inf":   float64(0),
	}
	for raw, want := range cases {
		if got := ParseNumberInput(raw); got != want {
			t.Fatalf("ParseNumberInput(%q) = %#v, want %#v", raw, got, want)
		}
	}
}
