package app

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/DDbuding/ComfyUI-Buding-tools/internal/capability"
	"github.com/DDbuding/ComfyUI-Buding-tools/internal/diag"
	"github.com/DDbuding/ComfyUI-Buding-tools/internal/loader"
	"github.com/DDbuding/ComfyUI-Buding-tools/internal/registry"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW     io.Writer
	logger   *slog.Logger
	config   *Config
	caps     *capability.Set
	handlers *loader.Handlers
	diagLog  *diag.Log

	// handle publishes the current registry once the first load completes.
	handle     *registry.Handle
	httpServer *http.Server
}

// NewApp is the constructor for the main application. A nil handlers set
// registers the bundle's built-in node units; a nil capability set probes
// the stock external tools.
func NewApp(outW io.Writer, appConfig *Config, handlers *loader.Handlers, caps *capability.Set) *App {
	logger := newLogger(appConfig.LogLevel, appConfig.LogFormat, outW)
	logger.Debug("Logger configured successfully.")

	if handlers == nil {
		handlers = coreHandlers()
	}
	if caps == nil {
		caps = capability.Defaults()
	}

	return &App{
		outW:     outW,
		logger:   logger,
		config:   appConfig,
		caps:     caps,
		handlers: handlers,
		diagLog:  diag.New(),
	}
}

// Registry returns the currently published registry. It is nil before the
// first load completes. This is primarily for testing.
func (a *App) Registry() *registry.Registry {
	if a.handle == nil {
		return nil
	}
	return a.handle.Current()
}

// Diagnostics returns the app's diagnostics log.
func (a *App) Diagnostics() *diag.Log {
	return a.diagLog
}
