package main

import (
	"context"

	"github.com/alecthomas/kong"
)

type cli struct {
	Manifest []string `type:"existingfile" env:"OVERRIDES_MANIFESTS" help:"Category manifests (YAML/JSON) to load on top of the built-in categories."`

	Categories categoriesCmd `cmd:"" help:"List registered override categories."`
	Fields     fieldsCmd     `cmd:"" help:"List the overridable fields of a category."`
	Validate   validateCmd   `cmd:"" help:"Validate an override file (YAML/JSON) against a category."`
	Scaffold   scaffoldCmd   `cmd:"" help:"Add a category to a manifest file."`
	Export     exportCmd     `cmd:"" help:"Write the registered categories as a manifest."`
}

func main() {
	var root cli
	ctx := kong.Parse(&root,
		kong.Name("overridectl"),
		kong.Description("Inspect and validate per-entity override categories."),
		kong.UsageOnError(),
	)
	ctx.BindTo(context.Background(), (*context.Context)(nil))
	ctx.BindTo(&root, (*globals)(nil))
	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}
