package overrides

import (
	"context"
	"errors"
)

// NotificationsClient is the minimal interface needed from go-notifications (or similar).
type NotificationsClient interface {
	PublishOverridesSaved(ctx context.Context, event SavedEvent) error
}

// NotificationsHook forwards saved events to an external notifications client.
type NotificationsHook struct {
	Client NotificationsClient
}

// OverridesSaved publishes the event to the configured client.
func (h *NotificationsHook) OverridesSaved(ctx context.Context, event SavedEvent) error {
	if h == nil || h.Client == nil {
		return nil
	}
	return h.Client.PublishOverridesSaved(ctx, event)
}

// SaveHooks fans a saved event out to several hooks. Every hook runs; errors
// are joined.
type SaveHooks []SaveHook

// OverridesSaved notifies each hook in order.
func (hooks SaveHooks) OverridesSaved(ctx context.Context, event SavedEvent) error {
	var errs []error
	for _, hook := range hooks {
		if hook == nil {
			continue
		}
		if err := hook.OverridesSaved(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

type noopSaveHook struct{}

func (noopSaveHook) OverridesSaved(context.Context, SavedEvent) error { return nil }
