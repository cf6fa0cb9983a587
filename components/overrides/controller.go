package overrides

import (
	"context"
	"errors"
	"io"
)

const defaultEditorTemplate = "editor.html"

// Renderer describes the template renderer contract needed by the controller.
type Renderer interface {
	Render(name string, data any, out ...io.Writer) (string, error)
}

type snapshotService interface {
	Snapshot(ctx context.Context, sessionID, locale string) (EditorSnapshot, error)
}

// ControllerOptions configures the HTML/JSON controller.
type ControllerOptions struct {
	Service  snapshotService
	Renderer Renderer
	Template string
	Title    string
}

// Controller turns editor sessions into template payloads and rendered HTML.
type Controller struct {
	opts ControllerOptions
}

// NewController wires the service and renderer into a controller.
func NewController(opts ControllerOptions) *Controller {
	if opts.Template == "" {
		opts.Template = defaultEditorTemplate
	}
	if opts.Title == "" {
		opts.Title = "Overrides"
	}
	return &Controller{opts: opts}
}

// Snapshot returns the transport view of a session.
func (c *Controller) Snapshot(ctx context.Context, sessionID, locale string) (EditorSnapshot, error) {
	if c.opts.Service == nil {
		return EditorSnapshot{}, errors.New("overrides: controller service not configured")
	}
	return c.opts.Service.Snapshot(ctx, sessionID, locale)
}

// EditorPayload builds the template data for a session.
func (c *Controller) EditorPayload(ctx context.Context, sessionID, locale string) (map[string]any, error) {
	snapshot, err := c.Snapshot(ctx, sessionID, locale)
	if err != nil {
		return nil, err
	}
	fields := make([]map[string]any, 0, len(snapshot.Fields))
	for _, control := range snapshot.Fields {
		fields = append(fields, map[string]any{
			"key":        control.Key,
			"control":    string(control.Kind),
			"label":      control.Config.Label,
			"help":       control.Config.Help,
			"leading":    control.Config.Leading,
			"trailing":   control.Config.Trailing,
			"value":      control.Value,
			"error":      control.Error,
			"max_length": control.MaxLength,
		})
	}
	return map[string]any{
		"title":      c.opts.Title,
		"session_id": snapshot.SessionID,
		"entity_id":  snapshot.EntityID,
		"category":   snapshot.Category,
		"fields":     fields,
		"available":  snapshot.Available,
		"errors":     snapshot.Errors,
		"pending":    snapshot.Pending,
		"locale":     locale,
	}, nil
}

// RenderTemplate renders the editor form for a session into out.
func (c *Controller) RenderTemplate(ctx context.Context, sessionID, locale string, out io.Writer) error {
	if c.opts.Renderer == nil {
		return errors.New("overrides: controller renderer not configured")
	}
	payload, err := c.EditorPayload(ctx, sessionID, locale)
	if err != nil {
		return err
	}
	_, err = c.opts.Renderer.Render(c.opts.Template, payload, out)
	return err
}
