package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/goliatone/go-overrides/components/overrides/commands"
	"github.com/goliatone/go-overrides/components/overrides/queries"
)

// Handlers exposes HTTP endpoints backed by shared commands.
type Handlers struct {
	API Executor
}

type openPayload struct {
	SessionID string `json:"session_id"`
	EntityID  string `json:"entity_id"`
	Category  string `json:"category"`
}

type fieldPayload struct {
	Key   string  `json:"key"`
	Value any     `json:"value"`
	Raw   *string `json:"raw,omitempty"`
}

type savePayload struct {
	ActorID  string `json:"actor_id"`
	UserID   string `json:"user_id"`
	TenantID string `json:"tenant_id"`
}

// Routes mounts the handlers on a ServeMux.
func (h *Handlers) Routes(mux *http.ServeMux) {
	mux.HandleFunc("GET /categories", h.HandleCategories)
	mux.HandleFunc("POST /sessions", h.HandleOpen)
	mux.HandleFunc("GET /sessions/{session}", h.HandleState)
	mux.HandleFunc("DELETE /sessions/{session}", h.HandleClose)
	mux.HandleFunc("POST /sessions/{session}/fields", h.HandleAddField)
	mux.HandleFunc("PUT /sessions/{session}/fields/{key}", h.HandleUpdateField)
	mux.HandleFunc("DELETE /sessions/{session}/fields/{key}", h.HandleRemoveField)
	mux.HandleFunc("POST /sessions/{session}/validate", h.HandleValidate)
	mux.HandleFunc("POST /sessions/{session}/save", h.HandleSave)
}

func (h *Handlers) HandleCategories(w http.ResponseWriter, r *http.Request) {
	defs, err := h.API.Categories(r.Context(), queries.CategoriesInput{Code: r.URL.Query().Get("code")})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, defs)
}

func (h *Handlers) HandleOpen(w http.ResponseWriter, r *http.Request) {
	var payload openPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if payload.SessionID == "" {
		payload.SessionID = uuid.NewString()
	}
	if err := h.API.Open(r.Context(), commands.OpenEditorInput{
		SessionID: payload.SessionID,
		EntityID:  payload.EntityID,
		Category:  payload.Category,
	}); err != nil {
		writeError(w, err)
		return
	}
	h.writeState(w, r, payload.SessionID, http.StatusCreated)
}

func (h *Handlers) HandleState(w http.ResponseWriter, r *http.Request) {
	h.writeState(w, r, r.PathValue("session"), http.StatusOK)
}

func (h *Handlers) HandleClose(w http.ResponseWriter, r *http.Request) {
	if err := h.API.Close(r.Context(), commands.CloseEditorInput{SessionID: r.PathValue("session")}); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) HandleAddField(w http.ResponseWriter, r *http.Request) {
	var payload fieldPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	session := r.PathValue("session")
	if err := h.API.AddField(r.Context(), commands.FieldInput{SessionID: session, Key: payload.Key}); err != nil {
		writeError(w, err)
		return
	}
	h.writeState(w, r, session, http.StatusOK)
}

func (h *Handlers) HandleUpdateField(w http.ResponseWriter, r *http.Request) {
	var payload fieldPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	session, key := r.PathValue("session"), r.PathValue("key")
	var err error
	if payload.Raw != nil {
		err = h.API.Input(r.Context(), commands.FieldInputInput{SessionID: session, Key: key, Raw: *payload.Raw})
	} else {
		err = h.API.UpdateField(r.Context(), commands.UpdateFieldInput{SessionID: session, Key: key, Value: payload.Value})
	}
	if err != nil {
		writeError(w, err)
		return
	}
	h.writeState(w, r, session, http.StatusOK)
}

func (h *Handlers) HandleRemoveField(w http.ResponseWriter, r *http.Request) {
	session := r.PathValue("session")
	if err := h.API.RemoveField(r.Context(), commands.FieldInput{SessionID: session, Key: r.PathValue("key")}); err != nil {
		writeError(w, err)
		return
	}
	h.writeState(w, r, session, http.StatusOK)
}

func (h *Handlers) HandleValidate(w http.ResponseWriter, r *http.Request) {
	session := r.PathValue("session")
	if err := h.API.Validate(r.Context(), commands.ValidateInput{SessionID: session}); err != nil {
		writeError(w, err)
		return
	}
	h.writeState(w, r, session, http.StatusOK)
}

func (h *Handlers) HandleSave(w http.ResponseWriter, r *http.Request) {
	var payload savePayload
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
	}
	session := r.PathValue("session")
	if err := h.API.Save(r.Context(), commands.SaveInput{
		SessionID: session,
		ActorID:   payload.ActorID,
		UserID:    payload.UserID,
		TenantID:  payload.TenantID,
	}); err != nil {
		writeError(w, err)
		return
	}
	h.writeState(w, r, session, http.StatusOK)
}

func (h *Handlers) writeState(w http.ResponseWriter, r *http.Request, session string, status int) {
	snapshot, err := h.API.State(r.Context(), queries.EditorStateInput{
		SessionID: session,
		Locale:    r.URL.Query().Get("locale"),
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, status, snapshot)
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, StatusFor(err), ErrorBody(err))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
