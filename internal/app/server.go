package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/DDbuding/ComfyUI-Buding-tools/internal/descriptor"
	"github.com/DDbuding/ComfyUI-Buding-tools/internal/diag"
)

// paletteInput is the wire form of one input schema entry.
type paletteInput struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Description string `json:"description,omitempty"`
	Optional    bool   `json:"optional,omitempty"`
	HasDefault  bool   `json:"has_default,omitempty"`
}

// paletteOutput is the wire form of one output schema entry.
type paletteOutput struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Description string `json:"description,omitempty"`
}

// paletteEntry is what the host reads per node to populate its palette.
type paletteEntry struct {
	ID                  string          `json:"id"`
	DisplayName         string          `json:"display_name"`
	Category            string          `json:"category,omitempty"`
	Stub                bool            `json:"stub"`
	MissingCapabilities []string        `json:"missing_capabilities,omitempty"`
	Inputs              []paletteInput  `json:"inputs"`
	Outputs             []paletteOutput `json:"outputs"`
}

func paletteEntryFromNode(node *descriptor.Node) paletteEntry {
	entry := paletteEntry{
		ID:                  node.ID,
		DisplayName:         node.DisplayName,
		Category:            node.Category,
		Stub:                node.Stub,
		MissingCapabilities: node.MissingCapabilities,
		Inputs:              make([]paletteInput, 0, len(node.Inputs)),
		Outputs:             make([]paletteOutput, 0, len(node.Outputs)),
	}
	for _, in := range node.Inputs {
		entry.Inputs = append(entry.Inputs, paletteInput{
			Name:        in.Name,
			Type:        in.Type.FriendlyName(),
			Description: in.Description,
			Optional:    in.Optional,
			HasDefault:  in.Default != nil,
		})
	}
	for _, out := range node.Outputs {
		entry.Outputs = append(entry.Outputs, paletteOutput{
			Name:        out.Name,
			Type:        out.Type.FriendlyName(),
			Description: out.Description,
		})
	}
	return entry
}

// healthHandler answers liveness probes.
func (a *App) healthHandler(w http.ResponseWriter, r *http.Request) {
	a.logger.Debug("Health check endpoint hit.", "remote_addr", r.RemoteAddr, "path", r.URL.Path)
	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "OK")
}

// paletteHandler serves the host registration surface: every advertised
// node, real or stub, keyed by id in load order.
func (a *App) paletteHandler(w http.ResponseWriter, r *http.Request) {
	reg := a.handle.Current()

	entries := make([]paletteEntry, 0, reg.Len())
	for _, id := range reg.IDs() {
		node, _ := reg.Get(id)
		entries = append(entries, paletteEntryFromNode(node))
	}

	writeJSON(w, entries)
}

// diagnosticsHandler serves the per-unit load records and outcome counts.
func (a *App) diagnosticsHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, struct {
		RunID   string          `json:"run_id"`
		Summary diag.Summary    `json:"summary"`
		Records json.RawMessage `json:"records"`
	}{
		RunID:   a.diagLog.RunID(),
		Summary: a.diagLog.Summary(),
		Records: mustMarshal(a.diagLog.Records()),
	})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

func mustMarshal(v any) json.RawMessage {
	b, err := json.Marshal(v)
	if err != nil {
		return json.RawMessage(`[]`)
	}
	return b
}

// startPaletteServer runs the palette HTTP surface in the background.
func (a *App) startPaletteServer(ctx context.Context) {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", a.healthHandler)
	mux.HandleFunc("/palette", a.paletteHandler)
	mux.HandleFunc("/diagnostics", a.diagnosticsHandler)

	addr := fmt.Sprintf(":%d", a.config.PalettePort)
	a.httpServer = &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	go func() {
		a.logger.Info("🎨 Palette server starting", "address", fmt.Sprintf("http://localhost%s/palette", addr))
		if err := a.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Error("Palette server failed unexpectedly", "error", err)
		}
	}()
}

func (a *App) closePaletteServer(ctx context.Context) {
	if a.httpServer == nil {
		return
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	a.logger.Info("🎨 Shutting down palette server...")
	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("Palette server shutdown failed", "error", err)
	}
}
