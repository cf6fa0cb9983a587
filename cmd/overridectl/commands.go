package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/ettle/strcase"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-overrides/components/overrides"
)

type globals interface {
	registry() (*overrides.Registry, error)
}

func (c *cli) registry() (*overrides.Registry, error) {
	return loadRegistry(c.Manifest)
}

func loadRegistry(manifests []string) (*overrides.Registry, error) {
	reg := overrides.NewRegistry()
	for _, path := range manifests {
		if _, err := reg.LoadManifestFile(path); err != nil {
			return nil, err
		}
	}
	return reg, nil
}

type categoriesCmd struct{}

func (cmd *categoriesCmd) Run(_ context.Context, g globals) error {
	reg, err := g.registry()
	if err != nil {
		return err
	}
	return printCategories(os.Stdout, reg.Categories())
}

func printCategories(out io.Writer, defs []overrides.CategoryDefinition) error {
	w := tabwriter.NewWriter(out, 0, 2, 2, ' ', 0)
	fmt.Fprintln(w, "CODE\tNAME\tFIELDS")
	for _, def := range defs {
		fmt.Fprintf(w, "%s\t%s\t%d\n", def.Code, def.Name, len(def.Fields))
	}
	return w.Flush()
}

type fieldsCmd struct {
	Category string `arg:"" help:"Category code."`
}

func (cmd *fieldsCmd) Run(_ context.Context, g globals) error {
	reg, err := g.registry()
	if err != nil {
		return err
	}
	return printFields(os.Stdout, reg, cmd.Category)
}

func printFields(out io.Writer, reg overrides.CategoryRegistry, code string) error {
	def, ok := reg.Category(code)
	if !ok {
		return fmt.Errorf("overridectl: %w: %s", overrides.ErrUnknownCategory, code)
	}
	resolver, _ := reg.Resolver(code)
	w := tabwriter.NewWriter(out, 0, 2, 2, ' ', 0)
	fmt.Fprintln(w, "KEY\tKIND\tLABEL\tDEFAULT")
	for _, field := range def.Fields {
		label := overrides.HumanizeKey(field.Key)
		if cfg, found := resolver.Resolve(field.Key, nil); found && cfg.Label != "" {
			label = cfg.Label
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%v\n", field.Key, field.Kind, label, field.Kind.DefaultValue())
	}
	return w.Flush()
}

type validateCmd struct {
	Category string `arg:"" help:"Category code."`
	File     string `arg:"" type:"existingfile" help:"Override file (YAML or JSON object)."`
}

func (cmd *validateCmd) Run(_ context.Context, g globals) error {
	reg, err := g.registry()
	if err != nil {
		return err
	}
	set, err := readOverrideFile(cmd.File)
	if err != nil {
		return err
	}
	report, err := validateOverrides(reg, cmd.Category, set)
	if err != nil {
		return err
	}
	return report.print(os.Stdout)
}

func readOverrideFile(path string) (overrides.OverrideSet, error) {
	data, err := os.ReadFile(path) //nolint:gosec
	if err != nil {
		return nil, fmt.Errorf("overridectl: read %s: %w", path, err)
	}
	return decodeOverrides(data)
}

// decodeOverrides accepts YAML or JSON (a YAML subset).
func decodeOverrides(data []byte) (overrides.OverrideSet, error) {
	var set overrides.OverrideSet
	if err := yaml.Unmarshal(data, &set); err != nil {
		return nil, fmt.Errorf("overridectl: parse overrides: %w", err)
	}
	if set == nil {
		set = overrides.OverrideSet{}
	}
	return set, nil
}

type validationReport struct {
	Category string
	Unknown  []string
	Errors   overrides.ValidationErrors
	Valid    bool
}

var errInvalidOverrides = errors.New("overridectl: overrides are invalid")

func validateOverrides(reg overrides.CategoryRegistry, code string, set overrides.OverrideSet) (validationReport, error) {
	def, ok := reg.Category(code)
	if !ok {
		return validationReport{}, fmt.Errorf("overridectl: %w: %s", overrides.ErrUnknownCategory, code)
	}
	report := validationReport{Category: code}
	for _, key := range set.Keys() {
		if !def.Has(key) {
			report.Unknown = append(report.Unknown, key)
		}
	}
	result, err := overrides.NewJSONSchemaValidator().ValidatePartial(def, set)
	if err != nil {
		return validationReport{}, err
	}
	report.Valid = result.Valid
	report.Errors = result.Errors
	return report, nil
}

func (r validationReport) print(out io.Writer) error {
	for _, key := range r.Unknown {
		fmt.Fprintf(out, "! %s is not a field of %s and will be ignored\n", key, r.Category)
	}
	if r.Valid {
		fmt.Fprintf(out, "✓ overrides are valid for %s\n", r.Category)
		return nil
	}
	keys := make([]string, 0, len(r.Errors))
	for key := range r.Errors {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		fmt.Fprintf(out, "✗ %s: %s\n", key, r.Errors[key])
	}
	if len(keys) == 0 {
		fmt.Fprintln(out, "✗ overrides failed validation")
	}
	return errInvalidOverrides
}

type scaffoldCmd struct {
	ManifestPath string   `required:"" name:"manifest-path" type:"path" help:"Manifest file to create or update."`
	Code         string   `required:"" help:"Category code (normalized to snake_case)."`
	Name         string   `required:"" help:"Display name of the category."`
	Description  string   `help:"One-line description."`
	Field        []string `help:"Field as key:kind (boolean, number, string, multiline). Repeatable."`
	Overwrite    bool     `help:"Replace an existing category with the same code."`
}

func (cmd *scaffoldCmd) Run(_ context.Context) error {
	path, err := filepath.Abs(cmd.ManifestPath)
	if err != nil {
		return fmt.Errorf("overridectl: resolve manifest path: %w", err)
	}
	doc, err := loadOrInitManifest(path)
	if err != nil {
		return err
	}
	entry, err := cmd.category()
	if err != nil {
		return err
	}
	if err := addCategory(doc, entry, cmd.Overwrite); err != nil {
		return err
	}
	if err := doc.Validate(); err != nil {
		return err
	}
	if err := writeManifest(path, doc); err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "✓ Added %s to %s\n", entry.Code, path)
	return nil
}

func (cmd *scaffoldCmd) category() (overrides.ManifestCategory, error) {
	code := strcase.ToSnake(strings.TrimSpace(cmd.Code))
	entry := overrides.ManifestCategory{Code: code, Name: cmd.Name, Description: cmd.Description}
	for _, raw := range cmd.Field {
		field, err := parseFieldFlag(code, raw)
		if err != nil {
			return overrides.ManifestCategory{}, err
		}
		entry.Fields = append(entry.Fields, field)
	}
	return entry, nil
}

func parseFieldFlag(category, raw string) (overrides.ManifestField, error) {
	key, kindRaw, ok := strings.Cut(raw, ":")
	key = strings.TrimSpace(key)
	if !ok || key == "" {
		return overrides.ManifestField{}, fmt.Errorf("overridectl: field %q must be key:kind", raw)
	}
	kind, err := overrides.ParseFieldKind(strings.TrimSpace(kindRaw))
	if err != nil {
		return overrides.ManifestField{}, err
	}
	field := overrides.ManifestField{
		Key:      key,
		Kind:     kind,
		LabelKey: fmt.Sprintf("overrides.%s.%s", category, strcase.ToSnake(key)),
	}
	if kind == overrides.KindMultiline {
		field.Schema = map[string]any{"type": "string", "maxLength": overrides.MultilineMaxLength}
	}
	return field, nil
}

func addCategory(doc *overrides.CategoryManifestDocument, entry overrides.ManifestCategory, overwrite bool) error {
	for idx := range doc.Categories {
		if doc.Categories[idx].Code != entry.Code {
			continue
		}
		if !overwrite {
			return fmt.Errorf("overridectl: manifest already defines category %s (use --overwrite to replace)", entry.Code)
		}
		doc.Categories[idx] = entry
		return nil
	}
	doc.Categories = append(doc.Categories, entry)
	sort.Slice(doc.Categories, func(i, j int) bool {
		return doc.Categories[i].Code < doc.Categories[j].Code
	})
	return nil
}

type exportCmd struct {
	Out string `type:"path" help:"Destination file (stdout when empty)."`
}

func (cmd *exportCmd) Run(_ context.Context, g globals) error {
	reg, err := g.registry()
	if err != nil {
		return err
	}
	doc := overrides.ManifestFromRegistry(reg)
	if cmd.Out == "" {
		return encodeManifest(os.Stdout, doc)
	}
	return writeManifest(cmd.Out, doc)
}

func loadOrInitManifest(path string) (*overrides.CategoryManifestDocument, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &overrides.CategoryManifestDocument{
				Version:    overrides.ManifestVersion,
				Categories: []overrides.ManifestCategory{},
				Source:     path,
			}, nil
		}
		return nil, fmt.Errorf("overridectl: stat manifest: %w", err)
	}
	return overrides.ReadManifest(path)
}

func writeManifest(path string, doc *overrides.CategoryManifestDocument) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("overridectl: mkdir %s: %w", filepath.Dir(path), err)
	}
	file, err := os.Create(path) //nolint:gosec
	if err != nil {
		return fmt.Errorf("overridectl: create manifest %s: %w", path, err)
	}
	defer file.Close()
	return encodeManifest(file, doc)
}

func encodeManifest(out io.Writer, doc *overrides.CategoryManifestDocument) error {
	encoder := yaml.NewEncoder(out)
	encoder.SetIndent(2)
	defer encoder.Close()
	if err := encoder.Encode(doc); err != nil {
		return fmt.Errorf("overridectl: write manifest: %w", err)
	}
	return nil
}
