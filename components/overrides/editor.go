package overrides

import (
	"context"
	"log/slog"
	"sync"
)

// EditorConfig wires the collaborators of one editing session.
type EditorConfig struct {
	SessionID   string
	EntityID    string
	Category    CategoryDefinition
	Resolver    FieldResolver
	Validator   PartialValidator
	Persistence *PersistenceAdapter
	Logger      *slog.Logger
	Telemetry   Telemetry
}

// Editor is the override editing session for one entity and category. Each
// editor owns an isolated copy of the override set.
type Editor struct {
	mu    sync.Mutex
	cfg   EditorConfig
	state *State
}

// EditorSnapshot is a transport-friendly view of an editor.
type EditorSnapshot struct {
	SessionID string           `json:"session_id"`
	EntityID  string           `json:"entity_id"`
	Category  string           `json:"category"`
	Values    OverrideSet      `json:"values"`
	Order     []string         `json:"order"`
	Available []string         `json:"available"`
	Errors    ValidationErrors `json:"errors"`
	Fields    []Control        `json:"fields"`
	Pending   bool             `json:"pending"`
}

// NewEditor builds an editor hydrated from overrides (nil means none stored).
func NewEditor(cfg EditorConfig, overrides OverrideSet) *Editor {
	if cfg.Resolver == nil {
		cfg.Resolver = SchemaResolver(cfg.Category)
	}
	if cfg.Validator == nil {
		cfg.Validator = noopValidator{}
	}
	if cfg.Persistence == nil {
		cfg.Persistence = NewPersistenceAdapter(nil, nil, cfg.Logger)
	}
	cfg.Logger = normalizeLogger(cfg.Logger)
	cfg.Telemetry = normalizeTelemetry(cfg.Telemetry)
	state := NewState(cfg.Category)
	state.Initialize(overrides)
	return &Editor{cfg: cfg, state: state}
}

// ID returns the session id.
func (e *Editor) ID() string { return e.cfg.SessionID }

// EntityID returns the edited entity id.
func (e *Editor) EntityID() string { return e.cfg.EntityID }

// Category returns the edited category.
func (e *Editor) Category() CategoryDefinition { return e.cfg.Category }

// Hydrate re-initializes the session from entity overrides.
func (e *Editor) Hydrate(overrides OverrideSet) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state.Initialize(overrides)
}

// AddField activates key with its kind default.
func (e *Editor) AddField(key string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.AddField(key)
}

// RemoveField drops key. Absent keys are ignored.
func (e *Editor) RemoveField(key string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state.RemoveField(key)
}

// UpdateField sets the value of an active key.
func (e *Editor) UpdateField(key string, value any) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.UpdateField(key, value)
}

// AvailableFields lists keys that can still be added.
func (e *Editor) AvailableFields() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.AvailableFields()
}

// ActiveFields lists active keys in display order.
func (e *Editor) ActiveFields() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.ActiveFieldsInOrder()
}

// Values returns a copy of the override set.
func (e *Editor) Values() OverrideSet {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.Values()
}

// Errors returns a copy of the validation errors.
func (e *Editor) Errors() ValidationErrors {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.Errors()
}

// Pending reports whether a save is in flight.
func (e *Editor) Pending() bool {
	return e.cfg.Persistence.Pending()
}

// Validate runs the partial validator and records its errors.
func (e *Editor) Validate() (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.validateLocked()
}

func (e *Editor) validateLocked() (bool, error) {
	result, err := e.cfg.Validator.ValidatePartial(e.cfg.Category, e.state.Values())
	if err != nil {
		return false, err
	}
	if result.Valid {
		e.state.setErrors(nil)
		return true, nil
	}
	e.state.setErrors(result.Errors)
	return false, nil
}

// Save validates and submits the override set. A validation failure returns a
// *ValidationError without calling the server. On success the local state is
// replaced by the overrides the server returned.
func (e *Editor) Save(ctx context.Context) (Entity, error) {
	if e.cfg.Persistence.Pending() {
		return Entity{}, ErrSavePending
	}
	e.mu.Lock()
	ok, err := e.validateLocked()
	if err != nil {
		e.mu.Unlock()
		return Entity{}, err
	}
	if !ok {
		fields := e.state.Errors()
		e.mu.Unlock()
		e.cfg.Telemetry.Record(ctx, "overrides.save.invalid", map[string]any{
			"entity_id": e.cfg.EntityID,
			"category":  e.cfg.Category.Code,
			"fields":    len(fields),
		})
		return Entity{}, &ValidationError{Fields: fields}
	}
	payload := e.state.Values().Compact()
	e.mu.Unlock()

	entity, err := e.cfg.Persistence.Submit(ctx, SaveRequest{
		EntityID:  e.cfg.EntityID,
		Category:  e.cfg.Category.Code,
		Overrides: payload,
	})
	if err != nil {
		e.cfg.Telemetry.Record(ctx, "overrides.save.failed", map[string]any{
			"entity_id": e.cfg.EntityID,
			"category":  e.cfg.Category.Code,
			"error":     err.Error(),
		})
		return Entity{}, err
	}

	e.mu.Lock()
	e.state.Initialize(entity.OverridesFor(e.cfg.Category.Code))
	e.mu.Unlock()
	e.cfg.Telemetry.Record(ctx, "overrides.save", map[string]any{
		"entity_id": e.cfg.EntityID,
		"category":  e.cfg.Category.Code,
		"fields":    len(payload),
	})
	return entity, nil
}

// Fields renders the active fields in order. Keys the resolver cannot resolve
// are skipped and logged.
func (e *Editor) Fields(t Translator) []Control {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.fieldsLocked(t)
}

func (e *Editor) fieldsLocked(t Translator) []Control {
	callbacks := FieldCallbacks{
		Update: e.UpdateField,
		Remove: e.RemoveField,
	}
	errs := e.state.Errors()
	keys := e.state.ActiveFieldsInOrder()
	controls := make([]Control, 0, len(keys))
	for _, key := range keys {
		cfg, ok := e.cfg.Resolver.Resolve(key, t)
		if !ok {
			e.cfg.Logger.Warn("overrides: skipping unresolvable field",
				"session_id", e.cfg.SessionID,
				"entity_id", e.cfg.EntityID,
				"category", e.cfg.Category.Code,
				"field", key,
			)
			continue
		}
		if cfg.Key == "" {
			cfg.Key = key
		}
		if cfg.Kind == "" {
			if spec, found := e.cfg.Category.Field(key); found {
				cfg.Kind = spec.Kind
			}
		}
		value, _ := e.state.Value(key)
		controls = append(controls, RenderField(cfg, value, errs[key], callbacks))
	}
	return controls
}

// Snapshot captures the editor state together with the rendered controls.
func (e *Editor) Snapshot(t Translator) EditorSnapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return EditorSnapshot{
		SessionID: e.cfg.SessionID,
		EntityID:  e.cfg.EntityID,
		Category:  e.cfg.Category.Code,
		Values:    e.state.Values(),
		Order:     e.state.ActiveFieldsInOrder(),
		Available: e.state.AvailableFields(),
		Errors:    e.state.Errors(),
		Fields:    e.fieldsLocked(t),
		Pending:   e.cfg.Persistence.Pending(),
	}
}
