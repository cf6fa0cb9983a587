package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/gofiber/fiber/v2"
	router "github.com/goliatone/go-router"
	"github.com/goliatone/go-users/pkg/types"

	"github.com/goliatone/go-overrides/components/overrides"
	"github.com/goliatone/go-overrides/components/overrides/gorouter"
	"github.com/goliatone/go-overrides/components/overrides/httpapi"
	"github.com/goliatone/go-overrides/pkg/activity"
	"github.com/goliatone/go-overrides/pkg/activity/usersink"
	"github.com/goliatone/go-overrides/pkg/goadmin"
	"github.com/goliatone/go-overrides/pkg/metrics"
	"github.com/goliatone/go-overrides/pkg/panelapi"
	"github.com/goliatone/go-overrides/pkg/rediscache"
)

type serverCmd struct {
	Addr        string        `default:":9876" env:"OVERRIDES_ADDR" help:"Listen address for the editor routes."`
	OpsAddr     string        `default:":9877" env:"OVERRIDES_OPS_ADDR" help:"Listen address for the plain HTTP API, metrics and event streams."`
	BasePath    string        `default:"/admin" env:"OVERRIDES_BASE_PATH" help:"Route prefix."`
	PanelURL    string        `env:"PANEL_API_URL" help:"Management API base URL. Empty runs against an in-memory demo panel."`
	PanelToken  string        `env:"PANEL_API_TOKEN" help:"Bearer token for the management API."`
	PanelPath   string        `default:"/api/squads" env:"PANEL_API_RESOURCE" help:"Resource path of the overridden entities."`
	RedisAddr   string        `env:"OVERRIDES_REDIS_ADDR" help:"Redis address for the shared entity cache. Empty keeps the cache in memory."`
	RedisPrefix string        `default:"overrides:entity:" env:"OVERRIDES_REDIS_PREFIX" help:"Redis key prefix."`
	CacheTTL    time.Duration `default:"5m" env:"OVERRIDES_CACHE_TTL" help:"Entity cache TTL."`
	Manifest    []string      `type:"existingfile" env:"OVERRIDES_MANIFESTS" help:"Extra category manifests."`
	LogFormat   string        `default:"text" enum:"text,json" env:"OVERRIDES_LOG_FORMAT" help:"Log output format (text|json)."`
	LogLevel    string        `default:"info" enum:"debug,info,warn,error" env:"OVERRIDES_LOG_LEVEL" help:"Minimum log level."`
	Activity    bool          `default:"true" env:"OVERRIDES_ACTIVITY" negatable:"" help:"Log override activity events."`
}

func main() {
	var cmd serverCmd
	ctx := kong.Parse(&cmd,
		kong.Name("overridesd"),
		kong.Description("Serve per-entity override editors over HTTP."),
		kong.UsageOnError(),
	)
	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx.FatalIfErrorf(cmd.run(runCtx))
}

func (cmd *serverCmd) run(ctx context.Context) error {
	logger := newLogger(cmd.LogFormat, cmd.LogLevel)
	slog.SetDefault(logger)

	registry := overrides.NewRegistry()
	for _, path := range cmd.Manifest {
		if _, err := registry.LoadManifestFile(path); err != nil {
			return err
		}
		logger.Info("loaded category manifest", "path", path)
	}

	fetcher, client, err := cmd.panel()
	if err != nil {
		return err
	}
	cache, closeCache, err := cmd.cache(ctx)
	if err != nil {
		return err
	}
	defer closeCache()

	telemetry := metrics.New(metrics.Config{})
	broadcast := overrides.NewBroadcastHook()

	var hooks activity.Hooks
	if cmd.Activity {
		hooks = append(hooks, usersink.Hook{Sink: logSink{logger: logger}})
	}

	service := overrides.NewService(overrides.Options{
		Registry:       registry,
		Fetcher:        fetcher,
		Client:         client,
		Cache:          cache,
		SaveHook:       overrides.SaveHooks{broadcast},
		ActivityHooks:  hooks,
		ActivityConfig: activity.Config{Enabled: cmd.Activity},
		Telemetry:      telemetry,
		Logger:         logger,
	})

	renderer, err := overrides.NewTemplateRenderer()
	if err != nil {
		return fmt.Errorf("overridesd: template renderer: %w", err)
	}
	controller := overrides.NewController(overrides.ControllerOptions{
		Service:  service,
		Renderer: renderer,
	})

	executor := httpapi.NewCommandExecutor(service, telemetry)
	server := router.NewFiberAdapter()
	if err := gorouter.Register(gorouter.Config[*fiber.App]{
		Router:     server.Router(),
		Controller: controller,
		API:        executor,
		Broadcast:  broadcast,
		BasePath:   cmd.BasePath,
	}); err != nil {
		return fmt.Errorf("overridesd: register routes: %w", err)
	}

	admin, err := goadmin.New(goadmin.Config{
		EnableOverrides: true,
		Service:         service,
		MenuBuilder:     loggingMenuBuilder{logger: logger},
	})
	if err != nil {
		return err
	}
	if err := admin.Bootstrap(ctx); err != nil {
		return err
	}

	ops := &http.Server{
		Addr:              cmd.OpsAddr,
		Handler:           opsMux(telemetry, broadcast, executor),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := ops.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("ops server stopped", "error", err)
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = ops.Shutdown(shutdownCtx)
	}()

	logger.Info("override routes ready",
		"addr", cmd.Addr,
		"editor", cmd.BasePath+"/overrides/sessions/:session",
		"ops", cmd.OpsAddr,
	)
	errCh := make(chan error, 1)
	go func() { errCh <- server.Serve(cmd.Addr) }()
	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		logger.Info("shutting down")
		return nil
	}
}

func (cmd *serverCmd) panel() (overrides.EntityFetcher, overrides.SaveClient, error) {
	if cmd.PanelURL == "" {
		demo := newDemoPanel()
		return demo, demo, nil
	}
	client, err := panelapi.NewHTTPClient(panelapi.HTTPConfig{
		BaseURL:      cmd.PanelURL,
		Token:        cmd.PanelToken,
		ResourcePath: cmd.PanelPath,
	})
	if err != nil {
		return nil, nil, err
	}
	return client, client, nil
}

func (cmd *serverCmd) cache(ctx context.Context) (overrides.EntityCache, func(), error) {
	if cmd.RedisAddr == "" {
		return overrides.NewInMemoryEntityCache(cmd.CacheTTL), func() {}, nil
	}
	cache, err := rediscache.New(ctx, rediscache.Config{
		Address: cmd.RedisAddr,
		Prefix:  cmd.RedisPrefix,
		TTL:     cmd.CacheTTL,
	})
	if err != nil {
		return nil, nil, err
	}
	return cache, func() { _ = cache.Close() }, nil
}

func opsMux(telemetry *metrics.Telemetry, broadcast *overrides.BroadcastHook, api httpapi.Executor) *http.ServeMux {
	apiMux := http.NewServeMux()
	(&httpapi.Handlers{API: api}).Routes(apiMux)

	mux := http.NewServeMux()
	mux.Handle("/api/", http.StripPrefix("/api", apiMux))
	mux.Handle("GET /metrics", telemetry.Handler())
	mux.HandleFunc("GET /events", broadcast.ServeSSE)
	mux.HandleFunc("GET /ws", broadcast.ServeWebSocket)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	return mux
}

func newLogger(format, level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: lvl}
	if format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}

type loggingMenuBuilder struct {
	logger *slog.Logger
}

func (b loggingMenuBuilder) EnsureMenuItem(ctx context.Context, menu string, item goadmin.MenuItem) error {
	b.logger.DebugContext(ctx, "menu item", "menu", menu, "label", item.Label, "route", item.Route)
	return nil
}

// logSink writes go-users activity records to the service log.
type logSink struct {
	logger *slog.Logger
}

func (s logSink) Log(ctx context.Context, record types.ActivityRecord) error {
	s.logger.InfoContext(ctx, "override activity",
		"verb", record.Verb,
		"object_type", record.ObjectType,
		"object_id", record.ObjectID,
		"actor_id", record.ActorID.String(),
		"channel", record.Channel,
		"data", record.Data,
	)
	return nil
}
