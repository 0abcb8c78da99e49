package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/tedyyan/WrenAI/pkg/config"
	"github.com/tedyyan/WrenAI/pkg/monitor"
	"github.com/tedyyan/WrenAI/pkg/provider"
	_ "github.com/tedyyan/WrenAI/pkg/provider/autoload"
)

func main() {
	monitor.SetupSlog(os.Getenv("LOG_LEVEL"))
	config.LoadEnv()

	path := config.Path()
	entries, err := config.Load(path)
	if err != nil {
		if !os.IsNotExist(err) {
			slog.Error("Failed to load configuration", "path", path, "error", err)
			os.Exit(1)
		}
		// No config file: GenerateComponents falls back to env vars.
		slog.Warn("Configuration file not found", "path", path)
	}

	components, err := provider.GenerateComponents(provider.Default(), entries)
	if err != nil {
		slog.Error("Failed to generate pipeline components", "error", err)
		os.Exit(1)
	}
	logComponents(components, entries)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Rebuild the component table when the config file changes. Old provider
	// instances are left to the garbage collector; generation is idempotent.
	go func() {
		for range config.Watch(ctx, path) {
			entries, err := config.Load(path)
			if err != nil {
				slog.Error("Reload failed", "path", path, "error", err)
				continue
			}
			next, err := provider.GenerateComponents(provider.Default(), entries)
			if err != nil {
				slog.Error("Reload failed", "error", err)
				continue
			}
			logComponents(next, entries)
			slog.Info("Pipeline components reloaded")
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	slog.Info("Received shutdown signal, stopping")
}

func logComponents(components provider.Components, entries []map[string]any) {
	if len(entries) == 0 {
		slog.Info("Pipeline components ready", "mode", "legacy-env")
		return
	}
	for _, entry := range entries {
		if kind, _ := entry["type"].(string); kind != string(provider.KindPipeline) {
			continue
		}
		pipes, _ := entry["pipes"].([]any)
		for _, p := range pipes {
			pipe, _ := p.(map[string]any)
			name, _ := pipe["name"].(string)
			if c := components.Get(name); c != nil {
				slog.Info("Pipeline ready", "pipeline", name,
					"llm", c.LLM != nil, "embedder", c.Embedder != nil,
					"document_store", c.DocumentStore != nil, "engine", c.Engine != nil)
			}
		}
	}
}
