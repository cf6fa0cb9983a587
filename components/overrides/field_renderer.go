package overrides

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// MultilineMaxLength caps textarea input. The schema does not enforce it.
const MultilineMaxLength = 200

// ControlKind is the input control a field renders as.
type ControlKind string

const (
	ControlToggle      ControlKind = "toggle"
	ControlNumberInput ControlKind = "number"
	ControlTextInput   ControlKind = "text"
	ControlTextarea    ControlKind = "textarea"
)

// FieldCallbacks are the only side effects a rendered control may trigger.
type FieldCallbacks struct {
	Update func(key string, value any) error
	Remove func(key string)
}

// Control is the presentation contract for one active field.
type Control struct {
	Key       string      `json:"key"`
	Kind      ControlKind `json:"control"`
	Config    FieldConfig `json:"config"`
	Value     any         `json:"value"`
	Error     string      `json:"error,omitempty"`
	MaxLength int         `json:"max_length,omitempty"`

	callbacks FieldCallbacks
}

// RenderField maps a field config, its value and error to a control.
func RenderField(cfg FieldConfig, value any, errMsg string, callbacks FieldCallbacks) Control {
	control := Control{
		Key:       cfg.Key,
		Config:    cfg,
		Value:     value,
		Error:     errMsg,
		callbacks: callbacks,
	}
	switch cfg.Kind {
	case KindBoolean:
		control.Kind = ControlToggle
		control.Value = value == true
	case KindNumber:
		control.Kind = ControlNumberInput
	case KindMultiline:
		control.Kind = ControlTextarea
		control.MaxLength = MultilineMaxLength
		control.Value = stringValue(value)
	default:
		control.Kind = ControlTextInput
		control.Value = stringValue(value)
	}
	return control
}

// Toggle sets a boolean field.
func (c Control) Toggle(on bool) error {
	if c.Kind != ControlToggle {
		return fmt.Errorf("overrides: field %s is not a toggle", c.Key)
	}
	return c.update(on)
}

// Input applies raw text typed into the control.
func (c Control) Input(raw string) error {
	switch c.Kind {
	case ControlNumberInput:
		return c.update(ParseNumberInput(raw))
	case ControlTextarea:
		return c.update(truncateRunes(raw, c.MaxLength))
	case ControlTextInput:
		return c.update(raw)
	default:
		return fmt.Errorf("overrides: field %s does not accept text input", c.Key)
	}
}

// Remove drops the field from the override set.
func (c Control) Remove() {
	if c.callbacks.Remove != nil {
		c.callbacks.Remove(c.Key)
	}
}

func (c Control) update(value any) error {
	if c.callbacks.Update == nil {
		return nil
	}
	return c.callbacks.Update(c.Key, value)
}

// ParseNumberInput converts number input text. Empty input unsets the value
// (nil); anything that does not parse becomes 0.
// TODO: surface non-numeric input as a validation error once the panel UI can show it.
func ParseNumberInput(raw string) any {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	n, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return float64(0)
	}
	return n
}

func truncateRunes(value string, limit int) string {
	if limit <= 0 {
		return value
	}
	runes := []rune(value)
	if len(runes) <= limit {
		return value
	}
	return string(runes[:limit])
}

func stringValue(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}
