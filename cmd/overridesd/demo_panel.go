package main

import (
	"context"
	"sync"

	"github.com/goliatone/go-overrides/components/overrides"
)

// demoPanel stands in for the management API when no URL is configured. It
// behaves like the real server: empty values are dropped on save.
type demoPanel struct {
	mu       sync.Mutex
	entities map[string]overrides.Entity
}

func newDemoPanel() *demoPanel {
	return &demoPanel{entities: map[string]overrides.Entity{
		"squad-demo": {
			ID:   "squad-demo",
			Name: "Demo squad",
			Overrides: map[string]overrides.OverrideSet{
				overrides.CategoryHostOverrides: {"remark": "demo", "port": 443},
			},
		},
	}}
}

func (p *demoPanel) FetchEntity(_ context.Context, entityID string) (overrides.Entity, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	entity, ok := p.entities[entityID]
	if !ok {
		return overrides.Entity{ID: entityID, Name: entityID}, nil
	}
	return entity, nil
}

func (p *demoPanel) SaveOverrides(_ context.Context, req overrides.SaveRequest) (overrides.Entity, error) {
	if req.EntityID == "" {
		return overrides.Entity{}, &overrides.SubmissionError{Message: "entity id is required"}
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	entity, ok := p.entities[req.EntityID]
	if !ok {
		entity = overrides.Entity{ID: req.EntityID, Name: req.EntityID}
	}
	stored := overrides.OverrideSet{}
	for key, value := range req.Overrides {
		if s, isString := value.(string); isString && s == "" {
			continue
		}
		stored[key] = value
	}
	next := overrides.Entity{
		ID:        entity.ID,
		Name:      entity.Name,
		Overrides: make(map[string]overrides.OverrideSet, len(entity.Overrides)+1),
	}
	for category, set := range entity.Overrides {
		next.Overrides[category] = set.Clone()
	}
	next.Overrides[req.Category] = stored
	p.entities[req.EntityID] = next
	return next, nil
}
