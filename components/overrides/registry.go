package overrides

import (
	"fmt"
	"sort"
	"sync"
)

// CategoryHook lets packages register categories/resolvers during init().
type CategoryHook func(reg *Registry) error

var (
	globalHookMu sync.Mutex
	globalHooks  []CategoryHook
)

// RegisterCategoryHook registers a hook executed against new registries.
func RegisterCategoryHook(h CategoryHook) {
	globalHookMu.Lock()
	defer globalHookMu.Unlock()
	globalHooks = append(globalHooks, h)
}

// Registry implements CategoryRegistry with hook + manifest support.
type Registry struct {
	mu         sync.RWMutex
	categories map[string]CategoryDefinition
	resolvers  map[string]FieldResolver
}

// NewRegistry builds a registry with the built-in categories and applies global hooks.
func NewRegistry() *Registry {
	reg := NewEmptyRegistry()
	reg.registerDefaults()
	_ = reg.ApplyHooks()
	return reg
}

// NewEmptyRegistry builds a registry without defaults or hooks.
func NewEmptyRegistry() *Registry {
	return &Registry{
		categories: map[string]CategoryDefinition{},
		resolvers:  map[string]FieldResolver{},
	}
}

func (r *Registry) registerDefaults() {
	for _, def := range DefaultCategoryDefinitions() {
		_ = r.RegisterCategory(def)
		if resolver, ok := defaultResolvers[def.Code]; ok {
			_ = r.RegisterResolver(def.Code, resolver)
		}
	}
}

// ApplyHooks executes registered category hooks.
func (r *Registry) ApplyHooks() error {
	globalHookMu.Lock()
	defer globalHookMu.Unlock()
	for _, hook := range globalHooks {
		if err := hook(r); err != nil {
			return err
		}
	}
	return nil
}

// RegisterCategory stores a category definition, replacing any previous one.
func (r *Registry) RegisterCategory(def CategoryDefinition) error {
	if err := def.Validate(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.categories[def.Code] = def
	return nil
}

// RegisterResolver associates a field resolver with a category.
func (r *Registry) RegisterResolver(code string, resolver FieldResolver) error {
	if code == "" {
		return fmt.Errorf("overrides: category code is required to register resolver")
	}
	if resolver == nil {
		return fmt.Errorf("overrides: resolver cannot be nil")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.categories[code]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownCategory, code)
	}
	r.resolvers[code] = resolver
	return nil
}

// Category fetches a category definition by code.
func (r *Registry) Category(code string) (CategoryDefinition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	def, ok := r.categories[code]
	return def, ok
}

// Resolver fetches the resolver of a category. Categories without an explicit
// resolver fall back to SchemaResolver.
func (r *Registry) Resolver(code string) (FieldResolver, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if resolver, ok := r.resolvers[code]; ok {
		return resolver, true
	}
	def, ok := r.categories[code]
	if !ok {
		return nil, false
	}
	return SchemaResolver(def), true
}

// Categories returns all registered categories sorted by code.
func (r *Registry) Categories() []CategoryDefinition {
	r.mu.RLock()
	defer r.mu.RUnlock()
	defs := make([]CategoryDefinition, 0, len(r.categories))
	for _, def := range r.categories {
		defs = append(defs, def)
	}
	sort.Slice(defs, func(i, j int) bool { return defs[i].Code < defs[j].Code })
	return defs
}
