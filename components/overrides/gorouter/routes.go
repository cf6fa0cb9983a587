package gorouter

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	router "github.com/goliatone/go-router"
	"github.com/google/uuid"

	"github.com/goliatone/go-overrides/components/overrides"
	"github.com/goliatone/go-overrides/components/overrides/commands"
	"github.com/goliatone/go-overrides/components/overrides/httpapi"
	"github.com/goliatone/go-overrides/components/overrides/queries"
)

// ActorResolver extracts the acting user from a router.Context.
type ActorResolver func(router.Context) overrides.ActivityContext

// Config wires go-router with the override controller, API, and broadcast hook.
type Config[T any] struct {
	Router        router.Router[T]
	Controller    *overrides.Controller
	API           httpapi.Executor
	Broadcast     *overrides.BroadcastHook
	ActorResolver ActorResolver
	BasePath      string
	Routes        RouteConfig
}

// RouteConfig customizes the relative paths used for override endpoints.
type RouteConfig struct {
	HTML       string
	Categories string
	Sessions   string
	Session    string
	Fields     string
	Field      string
	Validate   string
	Save       string
	WebSocket  string
}

// Register mounts override routes (HTML, JSON, REST, WebSocket) on a go-router router.
func Register[T any](cfg Config[T]) error {
	if cfg.Router == nil {
		return errors.New("gorouter: router is required")
	}
	if cfg.Controller == nil {
		return errors.New("gorouter: controller is required")
	}
	routes := defaultRouteConfig(cfg.Routes)
	base := cfg.BasePath
	if base == "" {
		base = "/admin"
	}
	actorResolver := cfg.ActorResolver
	if actorResolver == nil {
		actorResolver = defaultActorResolver
	}

	group := cfg.Router.Group(base)

	group.Get(routes.HTML, router.WrapHandler(func(ctx router.Context) error {
		var buf bytes.Buffer
		if err := cfg.Controller.RenderTemplate(ctx.Context(), ctx.Param("session"), inferLocale(ctx), &buf); err != nil {
			return respondError(ctx, err)
		}
		ctx.SetHeader("Content-Type", "text/html; charset=utf-8")
		return ctx.Send(buf.Bytes())
	}))

	if cfg.API != nil {
		registerAPI(group, cfg.API, actorResolver, routes)
	}

	if cfg.Broadcast != nil {
		registerWebSocket(group, cfg.Broadcast, routes.WebSocket)
	}

	return nil
}

type fieldPayload struct {
	Key   string  `json:"key"`
	Value any     `json:"value"`
	Raw   *string `json:"raw,omitempty"`
}

func registerAPI[T any](r router.Router[T], api httpapi.Executor, actors ActorResolver, routes RouteConfig) {
	state := func(ctx router.Context, session string, status int) error {
		snapshot, err := api.State(ctx.Context(), queries.EditorStateInput{SessionID: session, Locale: inferLocale(ctx)})
		if err != nil {
			return respondError(ctx, err)
		}
		return ctx.JSON(status, snapshot)
	}

	r.Get(routes.Categories, router.WrapHandler(func(ctx router.Context) error {
		defs, err := api.Categories(ctx.Context(), queries.CategoriesInput{Code: ctx.Query("code")})
		if err != nil {
			return respondError(ctx, err)
		}
		return ctx.JSON(http.StatusOK, defs)
	}))

	r.Post(routes.Sessions, router.WrapHandler(func(ctx router.Context) error {
		var payload commands.OpenEditorInput
		if err := json.Unmarshal(ctx.Body(), &payload); err != nil {
			return respondStatus(ctx, http.StatusBadRequest, err)
		}
		if payload.SessionID == "" {
			payload.SessionID = uuid.NewString()
		}
		if err := api.Open(ctx.Context(), payload); err != nil {
			return respondError(ctx, err)
		}
		return state(ctx, payload.SessionID, http.StatusCreated)
	}))

	r.Get(routes.Session, router.WrapHandler(func(ctx router.Context) error {
		return state(ctx, ctx.Param("session"), http.StatusOK)
	}))

	r.Delete(routes.Session, router.WrapHandler(func(ctx router.Context) error {
		if err := api.Close(ctx.Context(), commands.CloseEditorInput{SessionID: ctx.Param("session")}); err != nil {
			return respondError(ctx, err)
		}
		return ctx.JSON(http.StatusOK, map[string]string{"status": "closed"})
	}))

	r.Post(routes.Fields, router.WrapHandler(func(ctx router.Context) error {
		var payload fieldPayload
		if err := json.Unmarshal(ctx.Body(), &payload); err != nil {
			return respondStatus(ctx, http.StatusBadRequest, err)
		}
		session := ctx.Param("session")
		if err := api.AddField(ctx.Context(), commands.FieldInput{SessionID: session, Key: payload.Key}); err != nil {
			return respondError(ctx, err)
		}
		return state(ctx, session, http.StatusOK)
	}))

	r.Post(routes.Field, router.WrapHandler(func(ctx router.Context) error {
		var payload fieldPayload
		if err := json.Unmarshal(ctx.Body(), &payload); err != nil {
			return respondStatus(ctx, http.StatusBadRequest, err)
		}
		session, key := ctx.Param("session"), ctx.Param("key")
		var err error
		if payload.Raw != nil {
			err = api.Input(ctx.Context(), commands.FieldInputInput{SessionID: session, Key: key, Raw: *payload.Raw})
		} else {
			err = api.UpdateField(ctx.Context(), commands.UpdateFieldInput{SessionID: session, Key: key, Value: payload.Value})
		}
		if err != nil {
			return respondError(ctx, err)
		}
		return state(ctx, session, http.StatusOK)
	}))

	r.Delete(routes.Field, router.WrapHandler(func(ctx router.Context) error {
		session := ctx.Param("session")
		if err := api.RemoveField(ctx.Context(), commands.FieldInput{SessionID: session, Key: ctx.Param("key")}); err != nil {
			return respondError(ctx, err)
		}
		return state(ctx, session, http.StatusOK)
	}))

	r.Post(routes.Validate, router.WrapHandler(func(ctx router.Context) error {
		session := ctx.Param("session")
		if err := api.Validate(ctx.Context(), commands.ValidateInput{SessionID: session}); err != nil {
			return respondError(ctx, err)
		}
		return state(ctx, session, http.StatusOK)
	}))

	r.Post(routes.Save, router.WrapHandler(func(ctx router.Context) error {
		session := ctx.Param("session")
		actor := actors(ctx)
		if err := api.Save(ctx.Context(), commands.SaveInput{
			SessionID: session,
			ActorID:   actor.ActorID,
			UserID:    actor.UserID,
			TenantID:  actor.TenantID,
		}); err != nil {
			return respondError(ctx, err)
		}
		return state(ctx, session, http.StatusOK)
	}))
}

func registerWebSocket[T any](r router.Router[T], hook *overrides.BroadcastHook, path string) {
	cfg := router.DefaultWebSocketConfig()
	r.WebSocket(path, cfg, func(ws router.WebSocketContext) error {
		events, cancel := hook.Subscribe()
		defer cancel()
		for {
			select {
			case event, ok := <-events:
				if !ok {
					return nil
				}
				if err := ws.WriteJSON(event); err != nil {
					return err
				}
			case <-ws.Context().Done():
				return ws.Close()
			}
		}
	})
}

func defaultActorResolver(ctx router.Context) overrides.ActivityContext {
	var actor overrides.ActivityContext
	if v, ok := ctx.Locals("user_id").(string); ok {
		actor.UserID = v
		actor.ActorID = v
	}
	if v, ok := ctx.Locals("actor_id").(string); ok && v != "" {
		actor.ActorID = v
	}
	if v, ok := ctx.Locals("tenant_id").(string); ok {
		actor.TenantID = v
	}
	return actor
}

func inferLocale(ctx router.Context) string {
	if locale, ok := ctx.Locals("locale").(string); ok && locale != "" {
		return locale
	}
	if locale := strings.TrimSpace(ctx.Query("locale")); locale != "" {
		return strings.ToLower(locale)
	}
	if header := ctx.Header("Accept-Language"); header != "" {
		return parseAcceptLanguage(header)
	}
	return ""
}

func parseAcceptLanguage(header string) string {
	for _, token := range strings.Split(header, ",") {
		token, _, _ = strings.Cut(token, ";")
		token = strings.TrimSpace(token)
		if token != "" {
			return strings.ToLower(token)
		}
	}
	return ""
}

func respondError(ctx router.Context, err error) error {
	return ctx.JSON(httpapi.StatusFor(err), httpapi.ErrorBody(err))
}

func respondStatus(ctx router.Context, status int, err error) error {
	return ctx.JSON(status, httpapi.ErrorResponse{Error: err.Error()})
}

func defaultRouteConfig(routes RouteConfig) RouteConfig {
	if routes.HTML == "" {
		routes.HTML = "/overrides/sessions/:session"
	}
	if routes.Categories == "" {
		routes.Categories = "/overrides/categories"
	}
	if routes.Sessions == "" {
		routes.Sessions = "/overrides/sessions"
	}
	if routes.Session == "" {
		routes.Session = "/overrides/sessions/:session/state"
	}
	if routes.Fields == "" {
		routes.Fields = "/overrides/sessions/:session/fields"
	}
	if routes.Field == "" {
		routes.Field = "/overrides/sessions/:session/fields/:key"
	}
	if routes.Validate == "" {
		routes.Validate = "/overrides/sessions/:session/validate"
	}
	if routes.Save == "" {
		routes.Save = "/overrides/sessions/:session/save"
	}
	if routes.WebSocket == "" {
		routes.WebSocket = "/overrides/ws"
	}
	return routes
}
