package overrides

import "fmt"

// State owns the override set, display order and validation errors of one
// editing session. It is not safe for concurrent use; Editor serializes access.
type State struct {
	category CategoryDefinition
	values   OverrideSet
	order    []string
	errors   ValidationErrors
}

// NewState builds an empty state for a category.
func NewState(category CategoryDefinition) *State {
	s := &State{category: category}
	s.Initialize(nil)
	return s
}

// Initialize hydrates the state from the entity overrides. A nil set starts
// empty with the whole universe as order so every field can be offered.
// Calling it repeatedly with the same input yields the same state.
func (s *State) Initialize(overrides OverrideSet) {
	s.errors = ValidationErrors{}
	if overrides == nil {
		s.values = OverrideSet{}
		s.order = s.category.Universe()
		return
	}
	s.values = overrides.Clone()
	s.order = reconcileOrder(s.order, s.values, s.category.Universe())
}

// AddField activates key with its kind default and appends it to the order.
func (s *State) AddField(key string) error {
	field, ok := s.category.Field(key)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownField, key)
	}
	if s.values.Has(key) {
		return fmt.Errorf("%w: %s", ErrFieldActive, key)
	}
	s.values[key] = field.Kind.DefaultValue()
	s.order = append(withoutKey(s.order, key), key)
	return nil
}

// RemoveField drops key from the set, the order and the error map.
// Removing an absent key does nothing.
func (s *State) RemoveField(key string) {
	if !s.values.Has(key) {
		return
	}
	delete(s.values, key)
	delete(s.errors, key)
	s.order = withoutKey(s.order, key)
}

// UpdateField replaces the value of an active key and clears its error.
// It never creates a key.
func (s *State) UpdateField(key string, value any) error {
	if !s.values.Has(key) {
		return fmt.Errorf("%w: %s", ErrFieldNotActive, key)
	}
	s.values[key] = value
	delete(s.errors, key)
	return nil
}

// AvailableFields lists universe keys that are not active, in universe order.
func (s *State) AvailableFields() []string {
	var out []string
	for _, key := range s.category.Universe() {
		if !s.values.Has(key) {
			out = append(out, key)
		}
	}
	return out
}

// ActiveFieldsInOrder lists the order entries still present in the set.
func (s *State) ActiveFieldsInOrder() []string {
	out := make([]string, 0, len(s.values))
	for _, key := range s.order {
		if s.values.Has(key) {
			out = append(out, key)
		}
	}
	return out
}

// Order returns a copy of the raw display order.
func (s *State) Order() []string {
	return append([]string(nil), s.order...)
}

// Values returns a copy of the current override set.
func (s *State) Values() OverrideSet {
	return s.values.Clone()
}

// Value returns the value of key and whether it is active.
func (s *State) Value(key string) (any, bool) {
	v, ok := s.values[key]
	return v, ok
}

// Errors returns a copy of the current validation errors.
func (s *State) Errors() ValidationErrors {
	return s.errors.Clone()
}

// Category returns the category the state edits.
func (s *State) Category() CategoryDefinition {
	return s.category
}

func (s *State) setErrors(errs ValidationErrors) {
	if errs == nil {
		errs = ValidationErrors{}
	}
	s.errors = errs
}
