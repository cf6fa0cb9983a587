package overrides

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/goliatone/go-overrides/pkg/activity"
	"github.com/google/uuid"
)

// Options configures the override Service. Every collaborator is provided via
// interface so hosts can swap the panel API, cache, and validator.
type Options struct {
	Registry       CategoryRegistry
	Fetcher        EntityFetcher
	Client         SaveClient
	Cache          EntityCache
	Validator      PartialValidator
	Translations   TranslationService
	SaveHook       SaveHook
	ActivityHooks  activity.Hooks
	ActivityConfig activity.Config
	Telemetry      Telemetry
	Logger         *slog.Logger
}

// Service keeps the open editor sessions and routes operations to them.
type Service struct {
	opts     Options
	activity *activity.Emitter

	mu      sync.RWMutex
	editors map[string]*Editor
}

// NewService builds a Service instance with safe defaults.
func NewService(opts Options) *Service {
	if opts.Registry == nil {
		opts.Registry = NewRegistry()
	}
	if opts.Cache == nil {
		opts.Cache = NewInMemoryEntityCache(0)
	}
	if opts.Validator == nil {
		opts.Validator = NewJSONSchemaValidator()
	}
	if opts.SaveHook == nil {
		opts.SaveHook = noopSaveHook{}
	}
	opts.Telemetry = normalizeTelemetry(opts.Telemetry)
	opts.Logger = normalizeLogger(opts.Logger)
	return &Service{
		opts:     opts,
		activity: activity.NewEmitter(opts.ActivityHooks, opts.ActivityConfig),
		editors:  make(map[string]*Editor),
	}
}

// Registry exposes the category registry.
func (s *Service) Registry() CategoryRegistry {
	return s.opts.Registry
}

// Categories lists the registered categories sorted by code.
func (s *Service) Categories() []CategoryDefinition {
	return s.opts.Registry.Categories()
}

// OpenEditorRequest identifies the session to open.
type OpenEditorRequest struct {
	SessionID string `json:"session_id,omitempty"`
	EntityID  string `json:"entity_id"`
	Category  string `json:"category"`
}

// OpenEditor opens (or returns) an editing session. The entity comes from the
// cache when present, otherwise from the fetcher, and the fetched entity is
// cached. Re-opening a live session for the same entity and category returns
// it untouched so in-progress edits survive.
func (s *Service) OpenEditor(ctx context.Context, req OpenEditorRequest) (*Editor, error) {
	if req.EntityID == "" {
		return nil, errMissingEntityID
	}
	def, ok := s.opts.Registry.Category(req.Category)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCategory, req.Category)
	}
	if req.SessionID == "" {
		req.SessionID = uuid.NewString()
	}

	s.mu.RLock()
	existing, found := s.editors[req.SessionID]
	s.mu.RUnlock()
	if found && existing.EntityID() == req.EntityID && existing.Category().Code == def.Code {
		return existing, nil
	}

	entity, err := s.loadEntity(ctx, req.EntityID)
	if err != nil {
		return nil, err
	}
	resolver, _ := s.opts.Registry.Resolver(def.Code)
	editor := NewEditor(EditorConfig{
		SessionID:   req.SessionID,
		EntityID:    req.EntityID,
		Category:    def,
		Resolver:    resolver,
		Validator:   s.opts.Validator,
		Persistence: NewPersistenceAdapter(s.opts.Client, s.opts.Cache, s.opts.Logger),
		Logger:      s.opts.Logger,
		Telemetry:   s.opts.Telemetry,
	}, entity.OverridesFor(def.Code))

	s.mu.Lock()
	s.editors[req.SessionID] = editor
	s.mu.Unlock()

	s.opts.Telemetry.Record(ctx, "overrides.editor.open", map[string]any{
		"session_id": req.SessionID,
		"entity_id":  req.EntityID,
		"category":   def.Code,
	})
	return editor, nil
}

func (s *Service) loadEntity(ctx context.Context, entityID string) (Entity, error) {
	entity, ok, err := s.opts.Cache.Entity(ctx, entityID)
	if err != nil {
		s.opts.Logger.WarnContext(ctx, "overrides: cache lookup failed",
			"entity_id", entityID,
			"error", err,
		)
	}
	if ok {
		return entity, nil
	}
	if s.opts.Fetcher == nil {
		return Entity{}, errMissingFetcher
	}
	entity, err = s.opts.Fetcher.FetchEntity(ctx, entityID)
	if err != nil {
		return Entity{}, fmt.Errorf("overrides: fetch entity %s: %w", entityID, err)
	}
	if entity.ID == "" {
		entity.ID = entityID
	}
	if err := s.opts.Cache.Replace(ctx, entityID, entity); err != nil {
		s.opts.Logger.WarnContext(ctx, "overrides: cache replace failed after fetch",
			"entity_id", entityID,
			"error", err,
		)
	}
	return entity, nil
}

// Editor returns an open session.
func (s *Service) Editor(sessionID string) (*Editor, error) {
	if sessionID == "" {
		return nil, errMissingSessionID
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	editor, ok := s.editors[sessionID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	}
	return editor, nil
}

// CloseEditor discards a session and its unsaved edits.
func (s *Service) CloseEditor(ctx context.Context, sessionID string) error {
	editor, err := s.Editor(sessionID)
	if err != nil {
		return err
	}
	s.mu.Lock()
	delete(s.editors, sessionID)
	s.mu.Unlock()
	s.opts.Telemetry.Record(ctx, "overrides.editor.close", map[string]any{
		"session_id": sessionID,
		"entity_id":  editor.EntityID(),
	})
	return nil
}

// Sessions lists open session ids.
func (s *Service) Sessions() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.editors))
	for id := range s.editors {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Translator binds the configured translation service to ctx and locale.
func (s *Service) Translator(ctx context.Context, locale string) Translator {
	if s.opts.Translations == nil {
		return nil
	}
	return NewTranslator(ctx, s.opts.Translations, locale)
}

// Snapshot renders the session for transports.
func (s *Service) Snapshot(ctx context.Context, sessionID, locale string) (EditorSnapshot, error) {
	editor, err := s.Editor(sessionID)
	if err != nil {
		return EditorSnapshot{}, err
	}
	return editor.Snapshot(s.Translator(ctx, locale)), nil
}

// AddField activates key in the session.
func (s *Service) AddField(ctx context.Context, sessionID, key string) error {
	editor, err := s.Editor(sessionID)
	if err != nil {
		return err
	}
	return editor.AddField(key)
}

// RemoveField drops key from the session.
func (s *Service) RemoveField(ctx context.Context, sessionID, key string) error {
	editor, err := s.Editor(sessionID)
	if err != nil {
		return err
	}
	editor.RemoveField(key)
	return nil
}

// UpdateField stores a typed value for an active key.
func (s *Service) UpdateField(ctx context.Context, sessionID, key string, value any) error {
	editor, err := s.Editor(sessionID)
	if err != nil {
		return err
	}
	return editor.UpdateField(key, value)
}

// ApplyInput feeds raw control input (as typed into a form) through the
// field's control so number parsing and textarea truncation apply.
func (s *Service) ApplyInput(ctx context.Context, sessionID, key, raw string) error {
	editor, err := s.Editor(sessionID)
	if err != nil {
		return err
	}
	if !editor.Values().Has(key) {
		return fmt.Errorf("%w: %s", ErrFieldNotActive, key)
	}
	for _, control := range editor.Fields(s.Translator(ctx, "")) {
		if control.Key != key {
			continue
		}
		if control.Kind == ControlToggle {
			return control.Toggle(raw == "true" || raw == "on" || raw == "1")
		}
		return control.Input(raw)
	}
	// active but without a resolvable definition, so no control renders
	return fmt.Errorf("%w: %s", ErrUnknownField, key)
}

// Validate runs validation and returns the resulting error map.
func (s *Service) Validate(ctx context.Context, sessionID string) (ValidationErrors, error) {
	editor, err := s.Editor(sessionID)
	if err != nil {
		return nil, err
	}
	if _, err := editor.Validate(); err != nil {
		return nil, err
	}
	return editor.Errors(), nil
}

// Save persists the session. Saved events and activity are emitted on success;
// their failures are logged and do not fail the save.
func (s *Service) Save(ctx context.Context, sessionID string) (Entity, error) {
	editor, err := s.Editor(sessionID)
	if err != nil {
		return Entity{}, err
	}
	entity, err := editor.Save(ctx)
	if err != nil {
		return Entity{}, err
	}
	category := editor.Category().Code
	overrides := entity.OverridesFor(category)
	event := SavedEvent{
		SessionID: sessionID,
		EntityID:  editor.EntityID(),
		Category:  category,
		Overrides: overrides,
	}
	if err := s.opts.SaveHook.OverridesSaved(ctx, event); err != nil {
		s.opts.Logger.WarnContext(ctx, "overrides: save hook failed",
			"session_id", sessionID,
			"entity_id", event.EntityID,
			"error", err,
		)
	}
	s.emitActivity(ctx, event)
	return entity, nil
}

func (s *Service) emitActivity(ctx context.Context, event SavedEvent) {
	if s.activity == nil || !s.activity.Enabled() {
		return
	}
	meta := activityContextFrom(ctx)
	err := s.activity.Emit(ctx, activity.Event{
		Verb:           "overrides.save",
		ActorID:        meta.ActorID,
		UserID:         meta.UserID,
		TenantID:       meta.TenantID,
		ObjectType:     event.Category,
		ObjectID:       event.EntityID,
		DefinitionCode: "overrides:" + event.Category,
		Metadata: map[string]any{
			"session_id": event.SessionID,
			"fields":     event.Overrides.Keys(),
		},
	})
	if err != nil {
		s.opts.Logger.WarnContext(ctx, "overrides: activity emit failed",
			"entity_id", event.EntityID,
			"error", err,
		)
	}
}
