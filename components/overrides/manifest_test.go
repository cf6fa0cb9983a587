package overrides

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const edgeManifest = `
name: edge
categories:
  - code: edge_settings
    name: Edge settings
    fields:
      - key: cacheTtl
        kind: number
        schema: {type: integer, minimum: 0, maximum: 86400}
        label_key: edge.cache_ttl
        trailing: s
      - key: purgeOnSave
        kind: boolean
`

func TestDecodeManifestDefaultsVersion(t *testing.T) {
	doc, err := DecodeManifest(strings.NewReader(edgeManifest))
	require.NoError(t, err)
	assert.Equal(t, ManifestVersion, doc.Version)
	require.Len(t, doc.Categories, 1)
	def := doc.Categories[0].Definition()
	assert.Equal(t, []string{"cacheTtl", "purgeOnSave"}, def.Universe())
}

func TestDecodeManifestRejectsBadDocuments(t *testing.T) {
	cases := map[string]string{
		"empty":     ``,
		"version":   "version: \"2\"\ncategories: []\n",
		"unknown":   "categories: []\nwidgets: []\n",
		"no name":   "categories:\n  - code: a\n    fields: []\n",
		"duplicate": "categories:\n  - {code: a, name: A, fields: []}\n  - {code: a, name: B, fields: []}\n",
		"bad kind":  "categories:\n  - code: a\n    name: A\n    fields:\n      - {key: x, kind: date}\n",
	}
	for name, body := range cases {
		_, err := DecodeManifest(strings.NewReader(body))
		assert.Error(t, err, name)
	}
}

func TestLoadManifestFileRegistersCategoryAndResolver(t *testing.T) {
	path := filepath.Join(t.TempDir(), "edge.yaml")
	require.NoError(t, os.WriteFile(path, []byte(edgeManifest), 0o600))

	reg := NewRegistry()
	doc, err := reg.LoadManifestFile(path)
	require.NoError(t, err)
	assert.Equal(t, path, doc.Source)

	_, ok := reg.Category("edge_settings")
	require.True(t, ok)
	assert.Len(t, reg.Categories(), 3)

	resolver, ok := reg.Resolver("edge_settings")
	require.True(t, ok)
	cfg, ok := resolver.Resolve("cacheTtl", MapTranslator(map[string]string{"edge.cache_ttl": "Cache TTL"}))
	require.True(t, ok)
	assert.Equal(t, "Cache TTL", cfg.Label)
	assert.Equal(t, "s", cfg.Trailing)

	cfg, ok = resolver.Resolve("purgeOnSave", nil)
	require.True(t, ok)
	assert.Equal(t, "Purge on save", cfg.Label)
}

func TestLoadManifestFileReportsMissingFile(t *testing.T) {
	_, err := NewEmptyRegistry().LoadManifestFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "open manifest")
}

func TestManifestFromRegistryCarriesPresentation(t *testing.T) {
	doc := ManifestFromRegistry(NewRegistry())
	require.Len(t, doc.Categories, 2)
	host := doc.Categories[0]
	assert.Equal(t, CategoryHostOverrides, host.Code)

	var port ManifestField
	for _, field := range host.Fields {
		if field.Key == "port" {
			port = field
		}
	}
	assert.Equal(t, KindNumber, port.Kind)
	assert.Equal(t, "overrides.host.port", port.LabelKey)
	assert.Equal(t, ":", port.Leading)
	assert.NoError(t, doc.Validate())
}
