package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-overrides/components/overrides"
	"github.com/goliatone/go-overrides/components/overrides/commands"
	"github.com/goliatone/go-overrides/components/overrides/queries"
)

type memoryPanel struct {
	saveErr error
}

func (memoryPanel) FetchEntity(_ context.Context, entityID string) (overrides.Entity, error) {
	return overrides.Entity{ID: entityID, Overrides: map[string]overrides.OverrideSet{
		overrides.CategoryHostOverrides: {"port": 443},
	}}, nil
}

func (p memoryPanel) SaveOverrides(_ context.Context, req overrides.SaveRequest) (overrides.Entity, error) {
	if p.saveErr != nil {
		return overrides.Entity{}, p.saveErr
	}
	return overrides.Entity{ID: req.EntityID, Overrides: map[string]overrides.OverrideSet{req.Category: req.Overrides}}, nil
}

func newTestMux(panel memoryPanel) *http.ServeMux {
	svc := overrides.NewService(overrides.Options{Fetcher: panel, Client: panel})
	mux := http.NewServeMux()
	(&Handlers{API: NewCommandExecutor(svc, nil)}).Routes(mux)
	return mux
}

func do(t *testing.T, mux http.Handler, method, path string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	out := map[string]any{}
	if rec.Body.Len() > 0 {
		_ = json.Unmarshal(rec.Body.Bytes(), &out)
	}
	return rec, out
}

func TestHandlersEditAndSaveSession(t *testing.T) {
	mux := newTestMux(memoryPanel{})

	rec, state := do(t, mux, http.MethodPost, "/sessions", map[string]any{
		"session_id": "s1", "entity_id": "squad-1", "category": overrides.CategoryHostOverrides,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "s1", state["session_id"])

	rec, _ = do(t, mux, http.MethodPost, "/sessions/s1/fields", map[string]any{"key": "remark"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec, state = do(t, mux, http.MethodPut, "/sessions/s1/fields/remark", map[string]any{"value": "core"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "core", state["values"].(map[string]any)["remark"])

	rec, state = do(t, mux, http.MethodPut, "/sessions/s1/fields/port", map[string]any{"raw": "8443"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, float64(8443), state["values"].(map[string]any)["port"])

	rec, state = do(t, mux, http.MethodPost, "/sessions/s1/save", map[string]any{"actor_id": "admin-1"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, map[string]any{"remark": "core", "port": float64(8443)}, state["values"])

	rec, _ = do(t, mux, http.MethodDelete, "/sessions/s1", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec, _ = do(t, mux, http.MethodGet, "/sessions/s1", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandlersReportValidationErrors(t *testing.T) {
	mux := newTestMux(memoryPanel{})
	rec, _ := do(t, mux, http.MethodPost, "/sessions", map[string]any{
		"session_id": "s1", "entity_id": "squad-1", "category": overrides.CategoryHostOverrides,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec, _ = do(t, mux, http.MethodPut, "/sessions/s1/fields/port", map[string]any{"value": 0})
	require.Equal(t, http.StatusOK, rec.Code)

	rec, body := do(t, mux, http.MethodPost, "/sessions/s1/save", nil)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code, rec.Body.String())
	fields := body["fields"].(map[string]any)
	assert.NotEmpty(t, fields["port"])

	rec, state := do(t, mux, http.MethodPost, "/sessions/s1/validate", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, state["errors"].(map[string]any)["port"])
}

func TestHandlersMapDomainErrors(t *testing.T) {
	mux := newTestMux(memoryPanel{saveErr: &overrides.SubmissionError{Message: "rejected", Fields: map[string]string{"port": "in use"}}})
	rec, _ := do(t, mux, http.MethodPost, "/sessions", map[string]any{"entity_id": "squad-1", "category": "nope"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, state := do(t, mux, http.MethodPost, "/sessions", map[string]any{"entity_id": "squad-1", "category": overrides.CategoryHostOverrides})
	require.Equal(t, http.StatusCreated, rec.Code)
	session := state["session_id"].(string)
	require.NotEmpty(t, session, "a session id is generated when omitted")

	rec, _ = do(t, mux, http.MethodPost, fmt.Sprintf("/sessions/%s/fields", session), map[string]any{"key": "port"})
	assert.Equal(t, http.StatusConflict, rec.Code)
	rec, _ = do(t, mux, http.MethodPost, fmt.Sprintf("/sessions/%s/fields", session), map[string]any{"key": "ghost"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, body := do(t, mux, http.MethodPost, fmt.Sprintf("/sessions/%s/save", session), nil)
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Equal(t, map[string]any{"port": "in use"}, body["fields"])

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/sessions", bytes.NewBufferString("{")))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStatusFor(t *testing.T) {
	cases := map[error]int{
		nil:                         http.StatusOK,
		overrides.ErrSavePending:    http.StatusConflict,
		errNotConfigured:            http.StatusNotImplemented,
		errors.New("boom"):          http.StatusInternalServerError,
		overrides.ErrFieldNotActive: http.StatusBadRequest,
		overrides.ErrUnknownField:   http.StatusBadRequest,
		overrides.ErrInvalidInput:   http.StatusBadRequest,
		fmt.Errorf("%w: entity id is required", overrides.ErrInvalidInput): http.StatusBadRequest,
		&overrides.ValidationError{}:                                       http.StatusUnprocessableEntity,
		overrides.AsSubmissionError(errors.New("x")):                       http.StatusBadGateway,
	}
	for err, want := range cases {
		assert.Equal(t, want, StatusFor(err), "%v", err)
	}
}

func TestHandlersRejectMissingIdentifiers(t *testing.T) {
	mux := newTestMux(memoryPanel{})

	rec, body := do(t, mux, http.MethodPost, "/sessions", map[string]any{"category": overrides.CategoryHostOverrides})
	require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
	assert.Contains(t, body["error"], "entity id is required")

	svc := overrides.NewService(overrides.Options{Fetcher: memoryPanel{}, Client: memoryPanel{}})
	_, err := svc.OpenEditor(context.Background(), overrides.OpenEditorRequest{Category: overrides.CategoryHostOverrides})
	assert.Equal(t, http.StatusBadRequest, StatusFor(err))
	_, err = svc.Editor("")
	assert.Equal(t, http.StatusBadRequest, StatusFor(err))
}

func TestCategoriesEndpoint(t *testing.T) {
	mux := newTestMux(memoryPanel{})
	req := httptest.NewRequest(http.MethodGet, "/categories?code="+overrides.CategorySubscriptionSettings, nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	var defs []overrides.CategoryDefinition
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &defs))
	require.Len(t, defs, 1)
	assert.Equal(t, overrides.CategorySubscriptionSettings, defs[0].Code)
}

func TestCommandExecutorReportsMissingOperations(t *testing.T) {
	var empty CommandExecutor
	_, err := empty.Categories(context.Background(), queries.CategoriesInput{})
	assert.ErrorIs(t, err, errNotConfigured)
	assert.ErrorIs(t, empty.Save(context.Background(), commands.SaveInput{SessionID: "s1"}), errNotConfigured)

	mux := http.NewServeMux()
	(&Handlers{API: &empty}).Routes(mux)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/sessions/s1", nil))
	assert.Equal(t, http.StatusNotImplemented, rec.Code)
}
