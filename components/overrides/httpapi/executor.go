package httpapi

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"
	"github.com/goliatone/go-overrides/components/overrides"
	"github.com/goliatone/go-overrides/components/overrides/commands"
	"github.com/goliatone/go-overrides/components/overrides/queries"
)

// Executor is the transport-facing surface shared by the net/http handlers and
// the go-router registration.
type Executor interface {
	Open(ctx context.Context, input commands.OpenEditorInput) error
	Close(ctx context.Context, input commands.CloseEditorInput) error
	AddField(ctx context.Context, input commands.FieldInput) error
	RemoveField(ctx context.Context, input commands.FieldInput) error
	UpdateField(ctx context.Context, input commands.UpdateFieldInput) error
	Input(ctx context.Context, input commands.FieldInputInput) error
	Validate(ctx context.Context, input commands.ValidateInput) error
	Save(ctx context.Context, input commands.SaveInput) error
	State(ctx context.Context, input queries.EditorStateInput) (overrides.EditorSnapshot, error)
	Categories(ctx context.Context, input queries.CategoriesInput) ([]overrides.CategoryDefinition, error)
}

// CommandExecutor adapts go-command commanders and queriers to Executor.
type CommandExecutor struct {
	OpenCommander        gocommand.Commander[commands.OpenEditorInput]
	CloseCommander       gocommand.Commander[commands.CloseEditorInput]
	AddFieldCommander    gocommand.Commander[commands.FieldInput]
	RemoveFieldCommander gocommand.Commander[commands.FieldInput]
	UpdateFieldCommander gocommand.Commander[commands.UpdateFieldInput]
	InputCommander       gocommand.Commander[commands.FieldInputInput]
	ValidateCommander    gocommand.Commander[commands.ValidateInput]
	SaveCommander        gocommand.Commander[commands.SaveInput]
	StateQuerier         gocommand.Querier[queries.EditorStateInput, overrides.EditorSnapshot]
	CategoriesQuerier    gocommand.Querier[queries.CategoriesInput, []overrides.CategoryDefinition]
}

var _ Executor = (*CommandExecutor)(nil)

var errNotConfigured = errors.New("httpapi: operation not configured")

// NewCommandExecutor wires every command and query against one service.
func NewCommandExecutor(service *overrides.Service, telemetry commands.Telemetry) *CommandExecutor {
	return &CommandExecutor{
		OpenCommander:        commands.NewOpenEditorCommand(service, telemetry),
		CloseCommander:       commands.NewCloseEditorCommand(service, telemetry),
		AddFieldCommander:    commands.NewAddFieldCommand(service, telemetry),
		RemoveFieldCommander: commands.NewRemoveFieldCommand(service, telemetry),
		UpdateFieldCommander: commands.NewUpdateFieldCommand(service, telemetry),
		InputCommander:       commands.NewApplyInputCommand(service, telemetry),
		ValidateCommander:    commands.NewValidateCommand(service),
		SaveCommander:        commands.NewSaveCommand(service, telemetry),
		StateQuerier:         queries.NewEditorStateQuery(service),
		CategoriesQuerier:    queries.NewCategoriesQuery(service),
	}
}

func (e *CommandExecutor) Open(ctx context.Context, input commands.OpenEditorInput) error {
	return execute(ctx, e.OpenCommander, input)
}

func (e *CommandExecutor) Close(ctx context.Context, input commands.CloseEditorInput) error {
	return execute(ctx, e.CloseCommander, input)
}

func (e *CommandExecutor) AddField(ctx context.Context, input commands.FieldInput) error {
	return execute(ctx, e.AddFieldCommander, input)
}

func (e *CommandExecutor) RemoveField(ctx context.Context, input commands.FieldInput) error {
	return execute(ctx, e.RemoveFieldCommander, input)
}

func (e *CommandExecutor) UpdateField(ctx context.Context, input commands.UpdateFieldInput) error {
	return execute(ctx, e.UpdateFieldCommander, input)
}

func (e *CommandExecutor) Input(ctx context.Context, input commands.FieldInputInput) error {
	return execute(ctx, e.InputCommander, input)
}

func (e *CommandExecutor) Validate(ctx context.Context, input commands.ValidateInput) error {
	return execute(ctx, e.ValidateCommander, input)
}

func (e *CommandExecutor) Save(ctx context.Context, input commands.SaveInput) error {
	return execute(ctx, e.SaveCommander, input)
}

func (e *CommandExecutor) State(ctx context.Context, input queries.EditorStateInput) (overrides.EditorSnapshot, error) {
	if e.StateQuerier == nil {
		return overrides.EditorSnapshot{}, errNotConfigured
	}
	return e.StateQuerier.Query(ctx, input)
}

func (e *CommandExecutor) Categories(ctx context.Context, input queries.CategoriesInput) ([]overrides.CategoryDefinition, error) {
	if e.CategoriesQuerier == nil {
		return nil, errNotConfigured
	}
	return e.CategoriesQuerier.Query(ctx, input)
}

func execute[T any](ctx context.Context, cmd gocommand.Commander[T], msg T) error {
	if cmd == nil {
		return errNotConfigured
	}
	return cmd.Execute(ctx, msg)
}
