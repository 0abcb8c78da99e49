package provider

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryResolvesRegisteredConstructor(t *testing.T) {
	reg := NewRegistry()
	reg.Register(KindLLM, "fake_llm", func(config map[string]any) (Provider, error) {
		return &fakeLLM{model: "m"}, nil
	})

	ctor, err := reg.Resolve(KindLLM, "fake_llm")
	require.NoError(t, err)
	require.NotNil(t, ctor)

	p, err := ctor(nil)
	require.NoError(t, err)
	assert.Equal(t, "fake_llm", p.Name())
}

func TestRegistryResolveUnknownProvider(t *testing.T) {
	reg := NewRegistry()
	reg.Register(KindLLM, "fake_llm", newFakeLLM)

	_, err := reg.Resolve(KindEmbedder, "fake_llm")

	var unknown *UnknownProviderError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, KindEmbedder, unknown.Kind)
	assert.Equal(t, "fake_llm", unknown.Name)
}

func TestRegistryDiscoverIsIdempotent(t *testing.T) {
	reg := NewRegistry()
	reg.Register(KindEngine, "fake_engine", newFakeEngine)

	reg.Discover()
	reg.Discover()

	_, err := reg.Resolve(KindEngine, "fake_engine")
	assert.NoError(t, err)
}

func TestRegistryLaterRegistrationReplaces(t *testing.T) {
	reg := NewRegistry()
	reg.Register(KindLLM, "fake_llm", func(map[string]any) (Provider, error) {
		return &fakeLLM{model: "first"}, nil
	})
	reg.Register(KindLLM, "fake_llm", func(map[string]any) (Provider, error) {
		return &fakeLLM{model: "second"}, nil
	})

	ctor, err := reg.Resolve(KindLLM, "fake_llm")
	require.NoError(t, err)
	p, err := ctor(nil)
	require.NoError(t, err)
	assert.Equal(t, "second", p.(*fakeLLM).Model())
}
