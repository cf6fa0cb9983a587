package overrides

import (
	"context"
	"strings"

	"github.com/ettle/strcase"
)

// TranslationService exposes locale-aware translation helpers backed by go-i18n (or compatible) engines.
// Resolvers only need the narrow Translator view built from it.
type TranslationService interface {
	Translate(ctx context.Context, key, locale string, args map[string]any) (string, error)
}

// Translator resolves a label key. Missing keys come back unchanged.
type Translator func(key string) string

// MapTranslator serves translations from a static table, falling back to the key.
func MapTranslator(values map[string]string) Translator {
	return func(key string) string {
		if value, ok := values[key]; ok && value != "" {
			return value
		}
		return key
	}
}

// NewTranslator binds a translation service to a context and locale.
func NewTranslator(ctx context.Context, svc TranslationService, locale string) Translator {
	locale = normalizeLocale(locale)
	return func(key string) string {
		return translateOrFallback(ctx, svc, key, locale, "", nil)
	}
}

// T translates key. A nil translator returns the key.
func (t Translator) T(key string) string {
	if t == nil || key == "" {
		return key
	}
	return t(key)
}

// HumanizeKey turns a field key such as "profileUpdateInterval" into
// "Profile update interval". Used when no label key is configured.
func HumanizeKey(key string) string {
	words := strcase.ToCase(key, strcase.LowerCase, ' ')
	if words == "" {
		return key
	}
	return strings.ToUpper(words[:1]) + words[1:]
}

func normalizeLocale(locale string) string {
	return strings.TrimSpace(strings.ToLower(locale))
}

func translateOrFallback(ctx context.Context, svc TranslationService, key, locale, fallback string, params map[string]any) string {
	if svc != nil {
		if translated, err := svc.Translate(ctx, key, locale, params); err == nil && translated != "" {
			return translated
		}
	}
	if fallback != "" {
		return fallback
	}
	return key
}
