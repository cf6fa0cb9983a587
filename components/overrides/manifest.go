package overrides

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	manifestVersionV1 = "1"
	// ManifestVersion exposes the current manifest format version for tooling.
	ManifestVersion = manifestVersionV1
)

// CategoryManifestDocument models a YAML/JSON manifest describing override categories.
type CategoryManifestDocument struct {
	Version    string             `json:"version" yaml:"version"`
	Name       string             `json:"name,omitempty" yaml:"name,omitempty"`
	Categories []ManifestCategory `json:"categories" yaml:"categories"`
	Source     string             `json:"-" yaml:"-"`
}

// ManifestCategory describes one category and its fields.
type ManifestCategory struct {
	Code        string          `json:"code" yaml:"code"`
	Name        string          `json:"name" yaml:"name"`
	Description string          `json:"description,omitempty" yaml:"description,omitempty"`
	Fields      []ManifestField `json:"fields" yaml:"fields"`
}

// ManifestField carries the schema and presentation of one field.
type ManifestField struct {
	Key      string         `json:"key" yaml:"key"`
	Kind     FieldKind      `json:"kind" yaml:"kind"`
	Schema   map[string]any `json:"schema,omitempty" yaml:"schema,omitempty"`
	LabelKey string         `json:"label_key,omitempty" yaml:"label_key,omitempty"`
	HelpKey  string         `json:"help_key,omitempty" yaml:"help_key,omitempty"`
	Leading  string         `json:"leading,omitempty" yaml:"leading,omitempty"`
	Trailing string         `json:"trailing,omitempty" yaml:"trailing,omitempty"`
}

// Definition converts the manifest entry to a CategoryDefinition.
func (c ManifestCategory) Definition() CategoryDefinition {
	def := CategoryDefinition{
		Code:        c.Code,
		Name:        c.Name,
		Description: c.Description,
		Fields:      make([]FieldSpec, len(c.Fields)),
	}
	for i, field := range c.Fields {
		def.Fields[i] = FieldSpec{Key: field.Key, Kind: field.Kind, Schema: field.Schema}
	}
	return def
}

// Resolver builds the static resolver declared by the manifest entry.
func (c ManifestCategory) Resolver() StaticResolver {
	resolver := make(StaticResolver, len(c.Fields))
	for _, field := range c.Fields {
		resolver[field.Key] = FieldTemplate{
			Kind:     field.Kind,
			LabelKey: field.LabelKey,
			HelpKey:  field.HelpKey,
			Leading:  field.Leading,
			Trailing: field.Trailing,
		}
	}
	return resolver
}

// LoadManifestFile reads a manifest from disk, registers it against the registry, and returns the document.
func (r *Registry) LoadManifestFile(path string) (*CategoryManifestDocument, error) {
	doc, err := ReadManifest(path)
	if err != nil {
		return nil, err
	}
	if err := r.LoadManifestDocument(doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// LoadManifestDocument registers categories and resolvers from a decoded manifest.
func (r *Registry) LoadManifestDocument(doc *CategoryManifestDocument) error {
	if doc == nil {
		return fmt.Errorf("overrides: manifest document is nil")
	}
	for _, category := range doc.Categories {
		if err := r.RegisterCategory(category.Definition()); err != nil {
			return fmt.Errorf("overrides: register category %s from %s: %w", category.Code, doc.Source, err)
		}
		if err := r.RegisterResolver(category.Code, category.Resolver()); err != nil {
			return fmt.Errorf("overrides: register resolver %s from %s: %w", category.Code, doc.Source, err)
		}
	}
	return nil
}

// ReadManifest loads a manifest file from disk without registering it.
func ReadManifest(path string) (*CategoryManifestDocument, error) {
	f, err := os.Open(path) //nolint:gosec
	if err != nil {
		return nil, fmt.Errorf("overrides: open manifest %s: %w", path, err)
	}
	defer f.Close()
	doc, err := DecodeManifest(f)
	if err != nil {
		return nil, fmt.Errorf("overrides: decode manifest %s: %w", path, err)
	}
	doc.Source = path
	return doc, nil
}

// DecodeManifest reads a manifest from any reader.
func DecodeManifest(r io.Reader) (*CategoryManifestDocument, error) {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	var doc CategoryManifestDocument
	if err := decoder.Decode(&doc); err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("overrides: manifest is empty")
		}
		return nil, fmt.Errorf("overrides: parse manifest: %w", err)
	}
	doc.applyDefaults()
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Validate ensures the manifest satisfies required fields.
func (doc *CategoryManifestDocument) Validate() error {
	if doc.Version != manifestVersionV1 {
		return fmt.Errorf("overrides: unsupported manifest version %q", doc.Version)
	}
	seen := make(map[string]struct{}, len(doc.Categories))
	for idx, category := range doc.Categories {
		if category.Code == "" {
			return fmt.Errorf("overrides: manifest category at index %d is missing code", idx)
		}
		if category.Name == "" {
			return fmt.Errorf("overrides: manifest category %s missing name", category.Code)
		}
		if _, exists := seen[category.Code]; exists {
			return fmt.Errorf("overrides: manifest duplicates category code %s", category.Code)
		}
		seen[category.Code] = struct{}{}
		if err := category.Definition().Validate(); err != nil {
			return err
		}
	}
	return nil
}

func (doc *CategoryManifestDocument) applyDefaults() {
	if doc.Version == "" {
		doc.Version = manifestVersionV1
	}
}

// ManifestFromRegistry builds a manifest document from registered categories.
// Field presentation is taken from StaticResolvers when available.
func ManifestFromRegistry(reg CategoryRegistry) *CategoryManifestDocument {
	doc := &CategoryManifestDocument{Version: ManifestVersion}
	for _, def := range reg.Categories() {
		entry := ManifestCategory{Code: def.Code, Name: def.Name, Description: def.Description}
		var static StaticResolver
		if resolver, ok := reg.Resolver(def.Code); ok {
			static, _ = resolver.(StaticResolver)
		}
		for _, field := range def.Fields {
			mf := ManifestField{Key: field.Key, Kind: field.Kind, Schema: field.Schema}
			if tmpl, ok := static[field.Key]; ok {
				mf.LabelKey = tmpl.LabelKey
				mf.HelpKey = tmpl.HelpKey
				mf.Leading = tmpl.Leading
				mf.Trailing = tmpl.Trailing
			}
			entry.Fields = append(entry.Fields, mf)
		}
		doc.Categories = append(doc.Categories, entry)
	}
	return doc
}
