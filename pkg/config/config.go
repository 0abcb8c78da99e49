// Package config loads the declarative component configuration consumed by
// the provider layer. The configuration file is a multi-document YAML stream;
// each document is one raw entry with a mandatory type field. Entry order is
// preserved because a later entry overrides an earlier one producing the same
// identifier.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultPath is used when CONFIG_PATH is not set.
const DefaultPath = "config.yaml"

// Path returns the component configuration location, honoring CONFIG_PATH.
func Path() string {
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		return p
	}
	return DefaultPath
}

// Load reads and parses the multi-document YAML configuration at path,
// returning the raw entries in file order. Empty documents are skipped.
func Load(path string) ([]map[string]any, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var entries []map[string]any
	dec := yaml.NewDecoder(f)
	for {
		var doc map[string]any
		if err := dec.Decode(&doc); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
		if len(doc) == 0 {
			continue
		}
		entries = append(entries, doc)
	}

	slog.Debug("Loaded component configuration", "path", path, "entries", len(entries))
	return entries, nil
}

// LoadEnv loads a .env file from the working directory into the process
// environment. A missing file is not an error; deployments may export the
// variables directly.
func LoadEnv() {
	if err := godotenv.Load(); err == nil {
		slog.Debug("Loaded environment from .env")
	}
}
