package provider

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProviderInvokesConstructorWithFullConfig(t *testing.T) {
	var seen map[string]any
	reg := NewRegistry()
	reg.Register(KindDocumentStore, "fake_store", func(config map[string]any) (Provider, error) {
		seen = config
		return &fakeStore{}, nil
	})

	config := map[string]any{"provider": "fake_store", "location": "http://localhost:6333"}
	p, err := NewProvider(reg, KindDocumentStore, config)
	require.NoError(t, err)
	assert.Equal(t, "fake_store", p.Name())
	assert.Equal(t, config, seen)
}

func TestNewProviderPropagatesUnknownProvider(t *testing.T) {
	reg := NewRegistry()

	_, err := NewProvider(reg, KindLLM, map[string]any{"provider": "nope"})

	var unknown *UnknownProviderError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "nope", unknown.Name)
}
