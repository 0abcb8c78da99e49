package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadMultiDocumentPreservesOrder(t *testing.T) {
	path := writeConfig(t, `
type: llm
provider: openai_llm
models:
  - model: gpt-4o-mini
    kwargs:
      temperature: 0
---
type: document_store
provider: qdrant
location: http://localhost:6333
---
type: pipeline
pipes:
  - name: indexing
    llm: openai_llm.gpt-4o-mini
    document_store: qdrant
`)

	entries, err := Load(path)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	assert.Equal(t, "llm", entries[0]["type"])
	assert.Equal(t, "document_store", entries[1]["type"])
	assert.Equal(t, "pipeline", entries[2]["type"])

	models, ok := entries[0]["models"].([]any)
	require.True(t, ok)
	model, ok := models[0].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "gpt-4o-mini", model["model"])
}

func TestLoadSkipsEmptyDocuments(t *testing.T) {
	path := writeConfig(t, `
type: engine
provider: wren_ui
---
---
`)

	entries, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.True(t, os.IsNotExist(err))
}

func TestLoadParseError(t *testing.T) {
	path := writeConfig(t, "type: [unclosed")
	_, err := Load(path)
	assert.Error(t, err)
}

func TestPathHonorsEnvOverride(t *testing.T) {
	t.Setenv("CONFIG_PATH", "/etc/wren/config.yaml")
	assert.Equal(t, "/etc/wren/config.yaml", Path())

	t.Setenv("CONFIG_PATH", "")
	assert.Equal(t, DefaultPath, Path())
}
