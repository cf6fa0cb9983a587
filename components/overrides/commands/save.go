package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"
	"github.com/goliatone/go-overrides/components/overrides"
)

// SaveInput saves a session on behalf of an actor.
type SaveInput struct {
	SessionID string `json:"session_id"`
	ActorID   string `json:"actor_id"`
	UserID    string `json:"user_id"`
	TenantID  string `json:"tenant_id"`
}

type saveService interface {
	Save(ctx context.Context, sessionID string) (overrides.Entity, error)
}

// SaveCommand wraps Service.Save and attaches the actor to activity events.
type SaveCommand struct {
	service   saveService
	telemetry Telemetry
}

// NewSaveCommand builds a command instance.
func NewSaveCommand(service saveService, telemetry Telemetry) *SaveCommand {
	return &SaveCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[SaveInput] = (*SaveCommand)(nil)

// Execute saves the session.
func (c *SaveCommand) Execute(ctx context.Context, msg SaveInput) error {
	if c.service == nil {
		return errors.New("save command requires service")
	}
	ctx = overrides.ContextWithActivity(ctx, overrides.ActivityContext{
		ActorID:  msg.ActorID,
		UserID:   msg.UserID,
		TenantID: msg.TenantID,
	})
	entity, err := c.service.Save(ctx, msg.SessionID)
	if err != nil {
		return err
	}
	c.telemetry.Record(ctx, "overrides.command.save", map[string]any{
		"session_id": msg.SessionID,
		"entity_id":  entity.ID,
	})
	return nil
}

// ValidateInput validates a session without saving.
type ValidateInput struct {
	SessionID string `json:"session_id"`
}

type validateService interface {
	Validate(ctx context.Context, sessionID string) (overrides.ValidationErrors, error)
}

// ValidateCommand runs validation so the session's error map is refreshed.
type ValidateCommand struct {
	service validateService
}

// NewValidateCommand builds a command instance.
func NewValidateCommand(service validateService) *ValidateCommand {
	return &ValidateCommand{service: service}
}

var _ gocommand.Commander[ValidateInput] = (*ValidateCommand)(nil)

// Execute validates the session. Field errors are not an error here; read
// them from the session snapshot.
func (c *ValidateCommand) Execute(ctx context.Context, msg ValidateInput) error {
	if c.service == nil {
		return errors.New("validate command requires service")
	}
	_, err := c.service.Validate(ctx, msg.SessionID)
	return err
}
