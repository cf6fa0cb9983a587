package queries

import (
	"context"

	gocommand "github.com/goliatone/go-command"
	"github.com/goliatone/go-overrides/components/overrides"
)

// EditorStateInput addresses a session and the locale to render it in.
type EditorStateInput struct {
	SessionID string `json:"session_id"`
	Locale    string `json:"locale"`
}

type snapshotService interface {
	Snapshot(ctx context.Context, sessionID, locale string) (overrides.EditorSnapshot, error)
}

// EditorStateQuery returns the rendered state of a session.
type EditorStateQuery struct {
	service snapshotService
}

// NewEditorStateQuery builds the query.
func NewEditorStateQuery(service snapshotService) *EditorStateQuery {
	return &EditorStateQuery{service: service}
}

var _ gocommand.Querier[EditorStateInput, overrides.EditorSnapshot] = (*EditorStateQuery)(nil)

// Query snapshots the session.
func (q *EditorStateQuery) Query(ctx context.Context, input EditorStateInput) (overrides.EditorSnapshot, error) {
	return q.service.Snapshot(ctx, input.SessionID, input.Locale)
}
