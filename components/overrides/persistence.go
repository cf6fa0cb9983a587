package overrides

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// PersistenceAdapter submits override sets for one editing session. At most one
// submission runs at a time; the caller disables its save trigger while Pending.
type PersistenceAdapter struct {
	client  SaveClient
	cache   EntityCache
	logger  *slog.Logger
	pending atomic.Bool
}

// NewPersistenceAdapter wires a save client with the local entity cache.
func NewPersistenceAdapter(client SaveClient, cache EntityCache, logger *slog.Logger) *PersistenceAdapter {
	return &PersistenceAdapter{
		client: client,
		cache:  cache,
		logger: normalizeLogger(logger),
	}
}

// Pending reports whether a submission is in flight.
func (p *PersistenceAdapter) Pending() bool {
	return p.pending.Load()
}

// Submit sends the override set and caches the authoritative response. On
// failure nothing local changes and the error is a *SubmissionError.
func (p *PersistenceAdapter) Submit(ctx context.Context, req SaveRequest) (Entity, error) {
	if p.client == nil {
		return Entity{}, errMissingClient
	}
	if req.EntityID == "" {
		return Entity{}, errMissingEntityID
	}
	if !p.pending.CompareAndSwap(false, true) {
		return Entity{}, ErrSavePending
	}
	defer p.pending.Store(false)

	entity, err := p.client.SaveOverrides(ctx, req)
	if err != nil {
		return Entity{}, AsSubmissionError(err)
	}
	if entity.ID == "" {
		entity.ID = req.EntityID
	}
	if p.cache != nil {
		if err := p.cache.Replace(ctx, req.EntityID, entity); err != nil {
			p.logger.WarnContext(ctx, "overrides: cache replace failed after save",
				"entity_id", req.EntityID,
				"category", req.Category,
				"error", err,
			)
		}
	}
	return entity, nil
}
