package overrides

import (
	"context"
	"sync"
	"time"
)

// InMemoryEntityCache is a concurrency-safe EntityCache with optional TTL.
// A zero TTL keeps entries until replaced.
type InMemoryEntityCache struct {
	ttl     time.Duration
	mu      sync.RWMutex
	entries map[string]cachedEntity
}

type cachedEntity struct {
	entity  Entity
	expires time.Time
}

// NewInMemoryEntityCache builds an empty cache.
func NewInMemoryEntityCache(ttl time.Duration) *InMemoryEntityCache {
	return &InMemoryEntityCache{
		ttl:     ttl,
		entries: make(map[string]cachedEntity),
	}
}

// Entity returns the cached entity, if present and fresh.
func (c *InMemoryEntityCache) Entity(_ context.Context, entityID string) (Entity, bool, error) {
	c.mu.RLock()
	entry, ok := c.entries[entityID]
	c.mu.RUnlock()
	if !ok {
		return Entity{}, false, nil
	}
	if !entry.expires.IsZero() && time.Now().After(entry.expires) {
		c.mu.Lock()
		delete(c.entries, entityID)
		c.mu.Unlock()
		return Entity{}, false, nil
	}
	return cloneEntity(entry.entity), true, nil
}

// Replace stores entity wholesale under entityID.
func (c *InMemoryEntityCache) Replace(_ context.Context, entityID string, entity Entity) error {
	if entityID == "" {
		return errMissingEntityID
	}
	entry := cachedEntity{entity: cloneEntity(entity)}
	if c.ttl > 0 {
		entry.expires = time.Now().Add(c.ttl)
	}
	c.mu.Lock()
	c.entries[entityID] = entry
	c.mu.Unlock()
	return nil
}

// Invalidate drops entityID from the cache.
func (c *InMemoryEntityCache) Invalidate(entityID string) {
	c.mu.Lock()
	delete(c.entries, entityID)
	c.mu.Unlock()
}

func cloneEntity(entity Entity) Entity {
	out := entity
	if entity.Overrides != nil {
		out.Overrides = make(map[string]OverrideSet, len(entity.Overrides))
		for category, set := range entity.Overrides {
			out.Overrides[category] = set.Clone()
		}
	}
	if entity.Attributes != nil {
		out.Attributes = make(map[string]any, len(entity.Attributes))
		for k, v := range entity.Attributes {
			out.Attributes[k] = v
		}
	}
	return out
}
