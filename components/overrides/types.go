package overrides

import (
	"context"
	"sort"
)

// EntityFetcher loads the authoritative entity from the management API.
type EntityFetcher interface {
	FetchEntity(ctx context.Context, entityID string) (Entity, error)
}

// SaveClient submits an override set and returns the updated entity.
type SaveClient interface {
	SaveOverrides(ctx context.Context, req SaveRequest) (Entity, error)
}

// EntityCache holds the locally cached representation of entities.
// Implementations must be safe for concurrent use.
type EntityCache interface {
	Entity(ctx context.Context, entityID string) (Entity, bool, error)
	Replace(ctx context.Context, entityID string, entity Entity) error
}

// CategoryRegistry stores override categories and their field resolvers.
type CategoryRegistry interface {
	RegisterCategory(def CategoryDefinition) error
	RegisterResolver(code string, resolver FieldResolver) error
	Category(code string) (CategoryDefinition, bool)
	Resolver(code string) (FieldResolver, bool)
	Categories() []CategoryDefinition
}

// SaveHook notifies transports about persisted overrides.
type SaveHook interface {
	OverridesSaved(ctx context.Context, event SavedEvent) error
}

// OverrideSet maps field keys to scalar values (bool, number, string or nil).
// A nil value means the field is active but unset.
type OverrideSet map[string]any

// Clone returns a shallow copy. A nil set stays nil.
func (s OverrideSet) Clone() OverrideSet {
	if s == nil {
		return nil
	}
	out := make(OverrideSet, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// Has reports whether key is present.
func (s OverrideSet) Has(key string) bool {
	_, ok := s[key]
	return ok
}

// Keys returns the keys in lexical order.
func (s OverrideSet) Keys() []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Compact drops unset (nil) entries. The result is what gets submitted.
func (s OverrideSet) Compact() OverrideSet {
	out := make(OverrideSet, len(s))
	for k, v := range s {
		if v == nil {
			continue
		}
		out[k] = v
	}
	return out
}

// ValidationErrors maps a field key to its first validation message.
type ValidationErrors map[string]string

// Clone returns a copy of the error map.
func (e ValidationErrors) Clone() ValidationErrors {
	out := make(ValidationErrors, len(e))
	for k, v := range e {
		out[k] = v
	}
	return out
}

// Entity is the management API object carrying override sets per category.
type Entity struct {
	ID         string                 `json:"id"`
	Name       string                 `json:"name,omitempty"`
	Overrides  map[string]OverrideSet `json:"overrides,omitempty"`
	Attributes map[string]any         `json:"attributes,omitempty"`
}

// OverridesFor returns the override set of a category, or nil when the entity
// carries none.
func (e Entity) OverridesFor(category string) OverrideSet {
	if e.Overrides == nil {
		return nil
	}
	set, ok := e.Overrides[category]
	if !ok {
		return nil
	}
	return set.Clone()
}

// SaveRequest is the payload of the remote save mutation.
type SaveRequest struct {
	EntityID  string      `json:"entity_id"`
	Category  string      `json:"category"`
	Overrides OverrideSet `json:"overrides"`
}

// SavedEvent describes a successful save.
type SavedEvent struct {
	SessionID string      `json:"session_id,omitempty"`
	EntityID  string      `json:"entity_id"`
	Category  string      `json:"category"`
	Overrides OverrideSet `json:"overrides"`
}
