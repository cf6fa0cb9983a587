package overrides

// FieldConfig is the presentation metadata of one field.
type FieldConfig struct {
	Key      string    `json:"key"`
	Label    string    `json:"label"`
	Kind     FieldKind `json:"kind"`
	Help     string    `json:"help,omitempty"`
	Leading  string    `json:"leading,omitempty"`
	Trailing string    `json:"trailing,omitempty"`
}

// FieldResolver maps a field key to its FieldConfig. The boolean is false for
// keys the resolver does not know.
type FieldResolver interface {
	Resolve(key string, t Translator) (FieldConfig, bool)
}

// ResolverFunc adapts a function to FieldResolver.
type ResolverFunc func(key string, t Translator) (FieldConfig, bool)

// Resolve calls f.
func (f ResolverFunc) Resolve(key string, t Translator) (FieldConfig, bool) {
	return f(key, t)
}

// FieldTemplate is a static resolver entry. Label and help are translation keys.
type FieldTemplate struct {
	Kind     FieldKind `json:"kind" yaml:"kind"`
	LabelKey string    `json:"label_key,omitempty" yaml:"label_key,omitempty"`
	HelpKey  string    `json:"help_key,omitempty" yaml:"help_key,omitempty"`
	Leading  string    `json:"leading,omitempty" yaml:"leading,omitempty"`
	Trailing string    `json:"trailing,omitempty" yaml:"trailing,omitempty"`
}

// StaticResolver is a lookup table resolver, one per category.
type StaticResolver map[string]FieldTemplate

// Resolve translates the template registered for key.
func (r StaticResolver) Resolve(key string, t Translator) (FieldConfig, bool) {
	tmpl, ok := r[key]
	if !ok {
		return FieldConfig{}, false
	}
	label := HumanizeKey(key)
	if tmpl.LabelKey != "" {
		label = t.T(tmpl.LabelKey)
	}
	cfg := FieldConfig{
		Key:      key,
		Label:    label,
		Kind:     tmpl.Kind,
		Leading:  tmpl.Leading,
		Trailing: tmpl.Trailing,
	}
	if tmpl.HelpKey != "" {
		cfg.Help = t.T(tmpl.HelpKey)
	}
	return cfg, true
}

// SchemaResolver derives configs straight from the category schema using
// humanized keys. It backs categories registered without a resolver.
func SchemaResolver(def CategoryDefinition) FieldResolver {
	return ResolverFunc(func(key string, t Translator) (FieldConfig, bool) {
		field, ok := def.Field(key)
		if !ok {
			return FieldConfig{}, false
		}
		return FieldConfig{Key: key, Label: HumanizeKey(key), Kind: field.Kind}, true
	})
}
