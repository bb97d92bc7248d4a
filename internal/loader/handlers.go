package loader

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/DDbuding/ComfyUI-Buding-tools/internal/capability"
	"github.com/DDbuding/ComfyUI-Buding-tools/internal/descriptor"
	"github.com/DDbuding/ComfyUI-Buding-tools/internal/manifest"
)

// Builder produces a node's execution entry point. It runs inside the
// loader's failure boundary: it may return an error (a
// *capability.UnavailableError marks the load as degraded rather than
// failed) or even panic without taking the load phase down.
type Builder func(ctx context.Context, caps *capability.Set, m *manifest.Manifest) (descriptor.ExecFunc, error)

// Handlers maps the build handler names used in manifests to the compiled
// Go builders that implement them.
type Handlers struct {
	builders map[string]Builder
}

// NewHandlers creates an empty handler set.
func NewHandlers() *Handlers {
	return &Handlers{builders: make(map[string]Builder)}
}

// Register registers a builder under a handler name. Handler registration
// happens before loading starts; a duplicate name is a programmer error.
func (h *Handlers) Register(name string, builder Builder) {
	if _, exists := h.builders[name]; exists {
		panic(fmt.Sprintf("node builder with name '%s' already registered", name))
	}
	slog.Debug("Registering node builder.", "name", name)
	h.builders[name] = builder
}

func (h *Handlers) lookup(name string) (Builder, bool) {
	builder, ok := h.builders[name]
	return builder, ok
}
