package commands

import (
	"context"
	"errors"
	"fmt"

	gocommand "github.com/goliatone/go-command"
	"github.com/goliatone/go-overrides/components/overrides"
)

// OpenEditorInput opens an editing session. Callers choose the session id so
// they can address the session afterwards.
type OpenEditorInput struct {
	SessionID string `json:"session_id"`
	EntityID  string `json:"entity_id"`
	Category  string `json:"category"`
}

type openService interface {
	OpenEditor(ctx context.Context, req overrides.OpenEditorRequest) (*overrides.Editor, error)
}

// OpenEditorCommand wraps Service.OpenEditor.
type OpenEditorCommand struct {
	service   openService
	telemetry Telemetry
}

// NewOpenEditorCommand builds a command instance.
func NewOpenEditorCommand(service openService, telemetry Telemetry) *OpenEditorCommand {
	return &OpenEditorCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[OpenEditorInput] = (*OpenEditorCommand)(nil)

// Execute opens the session.
func (c *OpenEditorCommand) Execute(ctx context.Context, msg OpenEditorInput) error {
	if c.service == nil {
		return errors.New("open command requires service")
	}
	if msg.SessionID == "" {
		return fmt.Errorf("%w: open command requires session id", overrides.ErrInvalidInput)
	}
	if _, err := c.service.OpenEditor(ctx, overrides.OpenEditorRequest{
		SessionID: msg.SessionID,
		EntityID:  msg.EntityID,
		Category:  msg.Category,
	}); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "overrides.command.open", map[string]any{
		"session_id": msg.SessionID,
		"entity_id":  msg.EntityID,
		"category":   msg.Category,
	})
	return nil
}

// CloseEditorInput identifies the session to discard.
type CloseEditorInput struct {
	SessionID string `json:"session_id"`
}

type closeService interface {
	CloseEditor(ctx context.Context, sessionID string) error
}

// CloseEditorCommand wraps Service.CloseEditor.
type CloseEditorCommand struct {
	service   closeService
	telemetry Telemetry
}

// NewCloseEditorCommand builds a command instance.
func NewCloseEditorCommand(service closeService, telemetry Telemetry) *CloseEditorCommand {
	return &CloseEditorCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[CloseEditorInput] = (*CloseEditorCommand)(nil)

// Execute closes the session.
func (c *CloseEditorCommand) Execute(ctx context.Context, msg CloseEditorInput) error {
	if c.service == nil {
		return errors.New("close command requires service")
	}
	if err := c.service.CloseEditor(ctx, msg.SessionID); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "overrides.command.close", map[string]any{"session_id": msg.SessionID})
	return nil
}
