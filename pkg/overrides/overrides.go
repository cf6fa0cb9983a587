package overrides

import (
	core "github.com/goliatone/go-overrides/components/overrides"
)

// Service exposes the underlying components/overrides.Service type.
type Service = core.Service

// Options re-export for convenience.
type Options = core.Options

// CategoryDefinition re-export for hosts registering their own categories.
type CategoryDefinition = core.CategoryDefinition

// NewService proxies to the internal constructor.
func NewService(opts Options) *Service {
	return core.NewService(opts)
}

// NewRegistry proxies to the internal registry constructor.
func NewRegistry() *core.Registry {
	return core.NewRegistry()
}
