package goadmin

import (
	"context"
	"errors"
	"fmt"

	overridespkg "github.com/goliatone/go-overrides/pkg/overrides"
)

// MenuBuilder ensures override entries exist within the admin navigation.
type MenuBuilder interface {
	EnsureMenuItem(ctx context.Context, menuCode string, item MenuItem) error
}

// MenuItem captures override editor link metadata.
type MenuItem struct {
	Label    string
	Route    string
	Icon     string
	Position int
}

// Config wires the override service and feature flags into an admin shell.
type Config struct {
	EnableOverrides bool
	MenuCode        string
	MenuBuilder     MenuBuilder
	Service         *overridespkg.Service
	RoutePrefix     string
	Icon            string
}

// Admin exposes helpers for go-admin style applications.
type Admin struct {
	cfg Config
}

// New creates an Admin helper that can seed override menus.
func New(cfg Config) (*Admin, error) {
	if cfg.EnableOverrides && cfg.Service == nil {
		return nil, errors.New("goadmin: overrides service is required when enabled")
	}
	if cfg.MenuCode == "" {
		cfg.MenuCode = "admin.main"
	}
	if cfg.RoutePrefix == "" {
		cfg.RoutePrefix = "admin.overrides"
	}
	if cfg.Icon == "" {
		cfg.Icon = "sliders"
	}
	return &Admin{cfg: cfg}, nil
}

// Overrides exposes the configured service when enabled.
func (a *Admin) Overrides() *overridespkg.Service {
	if !a.cfg.EnableOverrides {
		return nil
	}
	return a.cfg.Service
}

// MenuItems lists one entry per registered category, in category order.
func (a *Admin) MenuItems() []MenuItem {
	if !a.cfg.EnableOverrides {
		return nil
	}
	categories := a.cfg.Service.Categories()
	items := make([]MenuItem, 0, len(categories))
	for idx, def := range categories {
		items = append(items, MenuItem{
			Label:    def.Name,
			Route:    fmt.Sprintf("%s.%s", a.cfg.RoutePrefix, def.Code),
			Icon:     a.cfg.Icon,
			Position: idx,
		})
	}
	return items
}

// Bootstrap seeds menu entries when override support is enabled.
func (a *Admin) Bootstrap(ctx context.Context) error {
	if !a.cfg.EnableOverrides || a.cfg.MenuBuilder == nil {
		return nil
	}
	for _, item := range a.MenuItems() {
		if err := a.cfg.MenuBuilder.EnsureMenuItem(ctx, a.cfg.MenuCode, item); err != nil {
			return fmt.Errorf("goadmin: seed menu item %s: %w", item.Route, err)
		}
	}
	return nil
}
