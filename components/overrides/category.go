package overrides

import (
	"fmt"
	"sort"
	"strings"
)

// FieldSpec is one entry of the known-field universe of a category.
// Schema holds the JSON-Schema rules for the field value alone.
type FieldSpec struct {
	Key    string         `json:"key" yaml:"key"`
	Kind   FieldKind      `json:"kind" yaml:"kind"`
	Schema map[string]any `json:"schema,omitempty" yaml:"schema,omitempty"`
}

// CategoryDefinition declares an override category and its fixed field universe.
type CategoryDefinition struct {
	Code        string      `json:"code" yaml:"code"`
	Name        string      `json:"name" yaml:"name"`
	Description string      `json:"description,omitempty" yaml:"description,omitempty"`
	Fields      []FieldSpec `json:"fields" yaml:"fields"`
}

// Validate checks the definition is usable.
func (c CategoryDefinition) Validate() error {
	if c.Code == "" {
		return fmt.Errorf("overrides: category code is required")
	}
	seen := make(map[string]struct{}, len(c.Fields))
	for idx, field := range c.Fields {
		if field.Key == "" {
			return fmt.Errorf("overrides: category %s field at index %d is missing key", c.Code, idx)
		}
		if !field.Kind.Valid() {
			return fmt.Errorf("overrides: category %s field %s has invalid kind %q", c.Code, field.Key, field.Kind)
		}
		if _, exists := seen[field.Key]; exists {
			return fmt.Errorf("overrides: category %s duplicates field %s", c.Code, field.Key)
		}
		seen[field.Key] = struct{}{}
	}
	return nil
}

// Universe returns the field keys in declaration order.
func (c CategoryDefinition) Universe() []string {
	keys := make([]string, len(c.Fields))
	for i, field := range c.Fields {
		keys[i] = field.Key
	}
	return keys
}

// Field looks up a field spec by key.
func (c CategoryDefinition) Field(key string) (FieldSpec, bool) {
	for _, field := range c.Fields {
		if field.Key == key {
			return field, true
		}
	}
	return FieldSpec{}, false
}

// Has reports whether key belongs to the universe.
func (c CategoryDefinition) Has(key string) bool {
	_, ok := c.Field(key)
	return ok
}

// RestrictedSchema builds an object schema holding only the given keys.
// Keys outside the universe are ignored.
func (c CategoryDefinition) RestrictedSchema(active []string) map[string]any {
	properties := make(map[string]any, len(active))
	for _, key := range active {
		field, ok := c.Field(key)
		if !ok {
			continue
		}
		properties[key] = field.schema()
	}
	return map[string]any{
		"type":       "object",
		"properties": properties,
	}
}

// restrictionKey identifies a restricted schema for caching.
func (c CategoryDefinition) restrictionKey(active []string) string {
	keys := make([]string, 0, len(active))
	for _, key := range active {
		if c.Has(key) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return c.Code + "|" + strings.Join(keys, ",")
}

func (f FieldSpec) schema() map[string]any {
	out := make(map[string]any, len(f.Schema)+1)
	for k, v := range f.Schema {
		out[k] = v
	}
	if _, ok := out["type"]; !ok {
		out["type"] = f.Kind.JSONType()
	}
	return out
}
