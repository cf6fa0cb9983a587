package overrides

import (
	"context"
	"sync"
)

func demoCategory() CategoryDefinition {
	return CategoryDefinition{
		Code: "demo",
		Name: "Demo",
		Fields: []FieldSpec{
			{Key: "enabled", Kind: KindBoolean},
			{Key: "limit", Kind: KindNumber, Schema: map[string]any{"type": "number", "minimum": 0, "maximum": 100}},
			{Key: "note", Kind: KindString, Schema: map[string]any{"type": "string", "maxLength": 20}},
			{Key: "extra", Kind: KindBoolean},
			{Key: "bio", Kind: KindMultiline},
		},
	}
}

type stubClient struct {
	mu       sync.Mutex
	calls    int
	requests []SaveRequest
	respond  func(SaveRequest) (Entity, error)
}

func (c *stubClient) SaveOverrides(_ context.Context, req SaveRequest) (Entity, error) {
	c.mu.Lock()
	c.calls++
	c.requests = append(c.requests, req)
	respond := c.respond
	c.mu.Unlock()
	if respond != nil {
		return respond(req)
	}
	return Entity{ID: req.EntityID, Overrides: map[string]OverrideSet{req.Category: req.Overrides}}, nil
}

func (c *stubClient) Calls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

type stubFetcher struct {
	mu       sync.Mutex
	calls    int
	entities map[string]Entity
	err      error
}

func (f *stubFetcher) FetchEntity(_ context.Context, entityID string) (Entity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return Entity{}, f.err
	}
	return f.entities[entityID], nil
}

type recordingTelemetry struct {
	mu     sync.Mutex
	events []string
}

func (r *recordingTelemetry) Record(_ context.Context, event string, _ map[string]any) {
	r.mu.Lock()
	r.events = append(r.events, event)
	r.mu.Unlock()
}

func (r *recordingTelemetry) Has(event string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.events {
		if e == event {
			return true
		}
	}
	return false
}
