package overrides

import "fmt"

// FieldKind selects the input control and default value of a field.
type FieldKind string

const (
	KindBoolean   FieldKind = "boolean"
	KindNumber    FieldKind = "number"
	KindString    FieldKind = "string"
	KindMultiline FieldKind = "multiline"
)

// ParseFieldKind validates a kind read from manifests or flags.
func ParseFieldKind(value string) (FieldKind, error) {
	kind := FieldKind(value)
	if !kind.Valid() {
		return "", fmt.Errorf("overrides: unknown field kind %q", value)
	}
	return kind, nil
}

// Valid reports whether k is one of the known kinds.
func (k FieldKind) Valid() bool {
	switch k {
	case KindBoolean, KindNumber, KindString, KindMultiline:
		return true
	}
	return false
}

// DefaultValue is the value a freshly added field starts with. Numbers start unset.
func (k FieldKind) DefaultValue() any {
	switch k {
	case KindBoolean:
		return false
	case KindString, KindMultiline:
		return ""
	default:
		return nil
	}
}

// JSONType is the JSON-Schema type used when a field spec omits one.
func (k FieldKind) JSONType() string {
	switch k {
	case KindBoolean:
		return "boolean"
	case KindNumber:
		return "number"
	default:
		return "string"
	}
}
