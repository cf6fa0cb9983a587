package overrides

import (
	"errors"
	"strings"
	"testing"
)

func TestNewRegistryHasBuiltInCategories(t *testing.T) {
	reg := NewRegistry()
	defs := reg.Categories()
	if len(defs) != 2 {
		t.Fatalf("expected 2 built-in categories, got %d", len(defs))
	}
	if defs[0].Code != CategoryHostOverrides || defs[1].Code != CategorySubscriptionSettings {
		t.Fatalf("expected categories sorted by code, got %s, %s", defs[0].Code, defs[1].Code)
	}
	resolver, ok := reg.Resolver(CategoryHostOverrides)
	if !ok {
		t.Fatalf("expected host resolver")
	}
	cfg, ok := resolver.Resolve("port", nil)
	if !ok || cfg.Label != "overrides.host.port" || cfg.Leading != ":" {
		t.Fatalf("unexpected port config %+v", cfg)
	}
}

func TestRegistryFallsBackToSchemaResolver(t *testing.T) {
	reg := NewEmptyRegistry()
	if err := reg.RegisterCategory(demoCategory()); err != nil {
		t.Fatalf("RegisterCategory: %v", err)
	}
	resolver, ok := reg.Resolver("demo")
	if !ok {
		t.Fatalf("expected schema resolver fallback")
	}
	cfg, ok := resolver.Resolve("limit", nil)
	if !ok || cfg.Label != "Limit" || cfg.Kind != KindNumber {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if _, ok := reg.Resolver("missing"); ok {
		t.Fatalf("expected no resolver for unknown category")
	}
}

func TestRegistryRejectsInvalidDefinitions(t *testing.T) {
	reg := NewEmptyRegistry()
	cases := []CategoryDefinition{
		{},
		{Code: "x", Fields: []FieldSpec{{Kind: KindString}}},
		{Code: "x", Fields: []FieldSpec{{Key: "a", Kind: "date"}}},
		{Code: "x", Fields: []FieldSpec{{Key: "a", Kind: KindString}, {Key: "a", Kind: KindBoolean}}},
	}
	for _, def := range cases {
		if err := reg.RegisterCategory(def); err == nil {
			t.Fatalf("expected %+v to be rejected", def)
		}
	}
	if err := reg.RegisterResolver("x", StaticResolver{}); !errors.Is(err, ErrUnknownCategory) {
		t.Fatalf("expected ErrUnknownCategory, got %v", err)
	}
	if err := reg.RegisterResolver("", StaticResolver{}); err == nil || !strings.Contains(err.Error(), "code") {
		t.Fatalf("expected missing code error, got %v", err)
	}
}

func TestRestrictedSchemaOnlyHoldsActiveKeys(t *testing.T) {
	schema := demoCategory().RestrictedSchema([]string{"limit", "ghost", "enabled"})
	props := schema["properties"].(map[string]any)
	if len(props) != 2 {
		t.Fatalf("expected 2 properties, got %v", props)
	}
	if props["enabled"].(map[string]any)["type"] != "boolean" {
		t.Fatalf("expected kind-derived type for enabled, got %v", props["enabled"])
	}
	if _, ok := schema["required"]; ok {
		t.Fatalf("restricted schema must not require keys")
	}
}
