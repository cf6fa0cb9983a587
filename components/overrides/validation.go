package overrides

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// PartialValidator validates only the active keys of an override set.
// The error return is reserved for schema or encoding failures.
type PartialValidator interface {
	ValidatePartial(category CategoryDefinition, values OverrideSet) (ValidationResult, error)
}

// ValidationResult reports the outcome of a partial validation. A failed result
// may carry no field errors when every violation sat on the object itself.
type ValidationResult struct {
	Valid  bool
	Errors ValidationErrors
}

// Violation is a single schema failure located by its JSON pointer.
type Violation struct {
	InstanceLocation string
	Message          string
}

// JSONSchemaValidator compiles restricted schemas and validates override sets.
type JSONSchemaValidator struct {
	mu       sync.RWMutex
	compiled map[string]*jsonschema.Schema
}

// NewJSONSchemaValidator builds a validator backed by jsonschema v5.
func NewJSONSchemaValidator() *JSONSchemaValidator {
	return &JSONSchemaValidator{
		compiled: make(map[string]*jsonschema.Schema),
	}
}

// ValidatePartial validates values against the schema restricted to its keys.
// Unset (nil) values are skipped.
func (v *JSONSchemaValidator) ValidatePartial(category CategoryDefinition, values OverrideSet) (ValidationResult, error) {
	payload := values.Compact()
	if len(payload) == 0 {
		return ValidationResult{Valid: true}, nil
	}
	active := payload.Keys()
	schema, err := v.schemaFor(category, active)
	if err != nil {
		return ValidationResult{}, err
	}
	normalized, err := normalizePayload(payload)
	if err != nil {
		return ValidationResult{}, fmt.Errorf("overrides: normalize %s values: %w", category.Code, err)
	}
	if err := schema.Validate(normalized); err != nil {
		var ve *jsonschema.ValidationError
		if !errors.As(err, &ve) {
			return ValidationResult{}, fmt.Errorf("overrides: validate %s: %w", category.Code, err)
		}
		return ValidationResult{Errors: collectFieldErrors(flattenViolations(ve))}, nil
	}
	return ValidationResult{Valid: true}, nil
}

func (v *JSONSchemaValidator) schemaFor(category CategoryDefinition, active []string) (*jsonschema.Schema, error) {
	key := category.restrictionKey(active)
	v.mu.RLock()
	schema, ok := v.compiled[key]
	v.mu.RUnlock()
	if ok {
		return schema, nil
	}
	data, err := json.Marshal(category.RestrictedSchema(active))
	if err != nil {
		return nil, fmt.Errorf("overrides: marshal schema %s: %w", category.Code, err)
	}
	compiler := jsonschema.NewCompiler()
	name := category.Code + ".json"
	if err := compiler.AddResource(name, bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("overrides: load schema %s: %w", category.Code, err)
	}
	compiled, err := compiler.Compile(name)
	if err != nil {
		return nil, fmt.Errorf("overrides: compile schema %s: %w", category.Code, err)
	}
	v.mu.Lock()
	v.compiled[key] = compiled
	v.mu.Unlock()
	return compiled, nil
}

func normalizePayload(values OverrideSet) (map[string]any, error) {
	data, err := json.Marshal(values)
	if err != nil {
		return nil, err
	}
	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// flattenViolations returns the leaf failures of a validation error tree in
// depth-first order.
func flattenViolations(ve *jsonschema.ValidationError) []Violation {
	var out []Violation
	var walk func(*jsonschema.ValidationError)
	walk = func(node *jsonschema.ValidationError) {
		if len(node.Causes) == 0 {
			out = append(out, Violation{InstanceLocation: node.InstanceLocation, Message: node.Message})
			return
		}
		for _, cause := range node.Causes {
			walk(cause)
		}
	}
	walk(ve)
	return out
}

// collectFieldErrors attributes violations to their top-level field. The first
// message per field wins; violations on the object itself are dropped.
func collectFieldErrors(violations []Violation) ValidationErrors {
	out := ValidationErrors{}
	for _, violation := range violations {
		key := topLevelKey(violation.InstanceLocation)
		if key == "" {
			continue
		}
		if _, exists := out[key]; exists {
			continue
		}
		out[key] = violation.Message
	}
	return out
}

func topLevelKey(pointer string) string {
	pointer = strings.TrimPrefix(pointer, "#")
	pointer = strings.TrimPrefix(pointer, "/")
	if pointer == "" {
		return ""
	}
	if idx := strings.Index(pointer, "/"); idx >= 0 {
		pointer = pointer[:idx]
	}
	return strings.NewReplacer("~1", "/", "~0", "~").Replace(pointer)
}

type noopValidator struct{}

func (noopValidator) ValidatePartial(CategoryDefinition, OverrideSet) (ValidationResult, error) {
	return ValidationResult{Valid: true}, nil
}
