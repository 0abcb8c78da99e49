// Package autoload registers every built-in provider with the default
// registry through side-effect imports. Import it blank from the binary
// entry point before generating components.
package autoload

import (
	_ "github.com/tedyyan/WrenAI/pkg/provider/engine"
	_ "github.com/tedyyan/WrenAI/pkg/provider/googleai"
	_ "github.com/tedyyan/WrenAI/pkg/provider/ollamaprov"
	_ "github.com/tedyyan/WrenAI/pkg/provider/openaiembed"
	_ "github.com/tedyyan/WrenAI/pkg/provider/openaillm"
	_ "github.com/tedyyan/WrenAI/pkg/provider/qdrant"
)
