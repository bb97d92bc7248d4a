package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/DDbuding/ComfyUI-Buding-tools/internal/ctxlog"
	"github.com/DDbuding/ComfyUI-Buding-tools/internal/loader"
	"github.com/DDbuding/ComfyUI-Buding-tools/internal/registry"
	"github.com/DDbuding/ComfyUI-Buding-tools/internal/unitlist"
)

// Run executes the main application lifecycle: probe capabilities once,
// load all units, assemble and publish the registry, then either exit with
// a report (one-shot mode) or serve the palette until the context ends,
// rebuilding on SIGHUP.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	// Capabilities are probed exactly once per process; hot reloads reuse
	// the same flags.
	flags := a.caps.ProbeAll(ctx)
	available := 0
	for _, f := range flags {
		if f.Available {
			available++
		}
	}
	a.logger.Info("Capability probe finished.", "available", available, "total", len(flags))

	reg, records, err := a.load(ctx)
	if err != nil {
		return err
	}
	a.diagLog.Append(records...)
	a.handle = registry.NewHandle(reg)
	a.report(reg)

	if a.config.PalettePort <= 0 {
		a.logger.Debug("No palette port configured, exiting after one-shot load.")
		return nil
	}

	a.startPaletteServer(ctx)
	defer a.closePaletteServer(ctx)

	reloads := make(chan os.Signal, 1)
	signal.Notify(reloads, syscall.SIGHUP)
	defer signal.Stop(reloads)

	for {
		select {
		case <-ctx.Done():
			a.logger.Info("Shutting down.")
			return nil
		case <-reloads:
			a.logger.Info("SIGHUP received, rebuilding node registry.")
			a.reload(ctx)
		}
	}
}

// reload performs one hot-reload cycle. A failed rebuild (a collision
// introduced by an on-disk change, or an unreadable nodes directory) must
// not take down the serving process: the previous registry stays published
// and the previous run's diagnostics stay intact.
func (a *App) reload(ctx context.Context) {
	reg, records, err := a.load(ctx)
	if err != nil {
		a.logger.Error("Reload failed, keeping previous registry.", "error", err)
		return
	}
	a.diagLog.Reset()
	a.diagLog.Append(records...)
	a.handle.Swap(reg)
	a.report(reg)
}

// load performs one complete load run: enumerate, load in isolation,
// assemble. Only a registry collision (or an unreadable nodes directory) is
// an error; per-unit failures are absorbed into records and stubs. The
// caller decides whether the records reach the diagnostics log, so a failed
// run never clobbers the published run's records.
func (a *App) load(ctx context.Context) (*registry.Registry, []loader.Record, error) {
	units, err := unitlist.Enumerate(ctx, a.config.NodesPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to enumerate node units: %w", err)
	}
	a.logger.Debug("Node units enumerated.", "count", len(units))

	nodes, records := loader.New(a.handlers, a.caps).LoadAll(ctx, units)

	reg, err := registry.Assemble(nodes)
	if err != nil {
		return nil, records, fmt.Errorf("failed to assemble node registry: %w", err)
	}
	return reg, records, nil
}

// report prints the operator-facing startup summary.
func (a *App) report(reg *registry.Registry) {
	summary := a.diagLog.Summary()
	a.logger.Info("Node palette assembled.",
		"run_id", a.diagLog.RunID(),
		"nodes", reg.Len(),
		"loaded", summary.Loaded,
		"stubbed", summary.Stubbed,
		"failed", summary.Failed,
	)

	for _, record := range a.diagLog.Records() {
		if record.Outcome == loader.Loaded {
			continue
		}
		fmt.Fprintf(a.outW, "degraded unit %s (%s): %s\n", record.Unit, record.Outcome, record.ErrorDetail)
	}
	fmt.Fprintf(a.outW, "node palette ready: %d nodes (%d loaded, %d stubbed, %d failed)\n",
		reg.Len(), summary.Loaded, summary.Stubbed, summary.Failed)
}
