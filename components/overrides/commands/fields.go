package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"
)

type fieldService interface {
	AddField(ctx context.Context, sessionID, key string) error
	RemoveField(ctx context.Context, sessionID, key string) error
	UpdateField(ctx context.Context, sessionID, key string, value any) error
	ApplyInput(ctx context.Context, sessionID, key, raw string) error
}

// FieldInput addresses one field of a session.
type FieldInput struct {
	SessionID string `json:"session_id"`
	Key       string `json:"key"`
}

// UpdateFieldInput carries a typed value for an active field.
type UpdateFieldInput struct {
	SessionID string `json:"session_id"`
	Key       string `json:"key"`
	Value     any    `json:"value"`
}

// FieldInputInput carries raw control text, parsed the way the control would.
type FieldInputInput struct {
	SessionID string `json:"session_id"`
	Key       string `json:"key"`
	Raw       string `json:"raw"`
}

// AddFieldCommand activates a field with its kind default.
type AddFieldCommand struct {
	service   fieldService
	telemetry Telemetry
}

// NewAddFieldCommand builds a command instance.
func NewAddFieldCommand(service fieldService, telemetry Telemetry) *AddFieldCommand {
	return &AddFieldCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[FieldInput] = (*AddFieldCommand)(nil)

// Execute adds the field.
func (c *AddFieldCommand) Execute(ctx context.Context, msg FieldInput) error {
	if c.service == nil {
		return errors.New("add field command requires service")
	}
	if err := c.service.AddField(ctx, msg.SessionID, msg.Key); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "overrides.field.add", map[string]any{
		"session_id": msg.SessionID,
		"field":      msg.Key,
	})
	return nil
}

// RemoveFieldCommand drops a field from the session.
type RemoveFieldCommand struct {
	service   fieldService
	telemetry Telemetry
}

// NewRemoveFieldCommand builds a command instance.
func NewRemoveFieldCommand(service fieldService, telemetry Telemetry) *RemoveFieldCommand {
	return &RemoveFieldCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[FieldInput] = (*RemoveFieldCommand)(nil)

// Execute removes the field.
func (c *RemoveFieldCommand) Execute(ctx context.Context, msg FieldInput) error {
	if c.service == nil {
		return errors.New("remove field command requires service")
	}
	if err := c.service.RemoveField(ctx, msg.SessionID, msg.Key); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "overrides.field.remove", map[string]any{
		"session_id": msg.SessionID,
		"field":      msg.Key,
	})
	return nil
}

// UpdateFieldCommand sets the value of an active field.
type UpdateFieldCommand struct {
	service   fieldService
	telemetry Telemetry
}

// NewUpdateFieldCommand builds a command instance.
func NewUpdateFieldCommand(service fieldService, telemetry Telemetry) *UpdateFieldCommand {
	return &UpdateFieldCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[UpdateFieldInput] = (*UpdateFieldCommand)(nil)

// Execute updates the field.
func (c *UpdateFieldCommand) Execute(ctx context.Context, msg UpdateFieldInput) error {
	if c.service == nil {
		return errors.New("update field command requires service")
	}
	if err := c.service.UpdateField(ctx, msg.SessionID, msg.Key, msg.Value); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "overrides.field.update", map[string]any{
		"session_id": msg.SessionID,
		"field":      msg.Key,
	})
	return nil
}

// ApplyInputCommand feeds raw form input through the field's control.
type ApplyInputCommand struct {
	service   fieldService
	telemetry Telemetry
}

// NewApplyInputCommand builds a command instance.
func NewApplyInputCommand(service fieldService, telemetry Telemetry) *ApplyInputCommand {
	return &ApplyInputCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[FieldInputInput] = (*ApplyInputCommand)(nil)

// Execute applies the raw input.
func (c *ApplyInputCommand) Execute(ctx context.Context, msg FieldInputInput) error {
	if c.service == nil {
		return errors.New("input command requires service")
	}
	if err := c.service.ApplyInput(ctx, msg.SessionID, msg.Key, msg.Raw); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "overrides.field.input", map[string]any{
		"session_id": msg.SessionID,
		"field":      msg.Key,
	})
	return nil
}
