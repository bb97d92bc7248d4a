package loader

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/DDbuding/ComfyUI-Buding-tools/internal/capability"
	"github.com/DDbuding/ComfyUI-Buding-tools/internal/ctxlog"
	"github.com/DDbuding/ComfyUI-Buding-tools/internal/descriptor"
	"github.com/DDbuding/ComfyUI-Buding-tools/internal/manifest"
)

// ScriptFilename is the scripted body a unit may ship instead of a compiled
// builder. It is evaluated with the yaegi interpreter at load time.
const ScriptFilename = "unit.go"

// Unit names one loadable node unit and the directory holding its manifest
// and (for scripted units) its body.
type Unit struct {
	Name string
	Dir  string
}

// Loader performs isolated, sequential load attempts over an ordered list
// of units.
type Loader struct {
	handlers *Handlers
	caps     *capability.Set
}

// New creates a loader backed by the given compiled builders and capability
// flags.
func New(handlers *Handlers, caps *capability.Set) *Loader {
	return &Loader{handlers: handlers, caps: caps}
}

// LoadAll attempts to load every unit in order and returns the surviving
// descriptors (real and stub) plus one record per attempt. Outcomes are
// independent: no unit's failure blocks another's attempt, and LoadAll
// itself never fails.
func (l *Loader) LoadAll(ctx context.Context, units []Unit) ([]*descriptor.Node, []Record) {
	logger := ctxlog.FromContext(ctx)

	nodes := make([]*descriptor.Node, 0, len(units))
	records := make([]Record, 0, len(units))

	for _, unit := range units {
		node, record := l.loadOne(ctx, unit)
		records = append(records, record)
		if node != nil {
			nodes = append(nodes, node)
		}

		switch record.Outcome {
		case Loaded:
			logger.Debug("Unit loaded.", "unit", unit.Name, "node", record.NodeID)
		case Stubbed:
			logger.Warn("Unit loaded as stub.", "unit", unit.Name, "node", record.NodeID,
				"missing_capabilities", record.MissingCapabilities)
		case Failed:
			logger.Error("Unit failed to load.", "unit", unit.Name, "node", record.NodeID,
				"error", record.ErrorDetail, "stub_synthesized", node != nil)
		}
	}

	return nodes, records
}

// loadOne performs a single isolated load attempt.
func (l *Loader) loadOne(ctx context.Context, unit Unit) (*descriptor.Node, Record) {
	record := Record{Unit: unit.Name}

	m, err := manifest.Load(ctx, filepath.Join(unit.Dir, manifest.Filename))
	if err != nil {
		// Catastrophic: without static metadata there is nothing to stub.
		record.Outcome = Failed
		record.ErrorDetail = err.Error()
		return nil, record
	}
	record.NodeID = m.ID

	if missing := l.unmetCapabilities(m.Requires); len(missing) > 0 {
		record.Outcome = Stubbed
		record.MissingCapabilities = missing
		record.ErrorDetail = (&capability.UnavailableError{Missing: missing}).Error()
		return synthesizeStub(unit, m, missing, record.ErrorDetail), record
	}

	builder, err := l.resolveBody(unit, m)
	if err != nil {
		record.Outcome = Failed
		record.ErrorDetail = err.Error()
		return synthesizeStub(unit, m, nil, record.ErrorDetail), record
	}

	exec, err := runBuilder(ctx, builder, l.caps, m)
	if err != nil {
		var unavailable *capability.UnavailableError
		if errors.As(err, &unavailable) {
			record.Outcome = Stubbed
			record.MissingCapabilities = unavailable.Missing
			record.ErrorDetail = err.Error()
			return synthesizeStub(unit, m, unavailable.Missing, record.ErrorDetail), record
		}
		record.Outcome = Failed
		record.ErrorDetail = err.Error()
		return synthesizeStub(unit, m, nil, record.ErrorDetail), record
	}

	node := &descriptor.Node{
		ID:          m.ID,
		DisplayName: m.DisplayName,
		Category:    m.Category,
		Unit:        unit.Name,
		Inputs:      m.Inputs,
		Outputs:     m.Outputs,
		Execute:     exec,
	}
	if err := node.Validate(); err != nil {
		record.Outcome = Failed
		record.ErrorDetail = err.Error()
		return synthesizeStub(unit, m, nil, record.ErrorDetail), record
	}

	record.Outcome = Loaded
	return node, record
}

// resolveBody finds the unit's executable body: a compiled builder
// registered under the manifest's handler name, or a scripted unit.go in
// the unit directory.
func (l *Loader) resolveBody(unit Unit, m *manifest.Manifest) (Builder, error) {
	if builder, ok := l.handlers.lookup(m.BuildHandler); ok {
		return builder, nil
	}

	scriptPath := filepath.Join(unit.Dir, ScriptFilename)
	if _, err := os.Stat(scriptPath); err == nil {
		return scriptedBuilder(scriptPath), nil
	}

	return nil, fmt.Errorf("no builder registered for handler %q and unit has no %s", m.BuildHandler, ScriptFilename)
}

// runBuilder invokes a builder inside its own failure boundary so a panic
// in one unit's body never propagates to another's attempt.
func runBuilder(ctx context.Context, builder Builder, caps *capability.Set, m *manifest.Manifest) (exec descriptor.ExecFunc, err error) {
	defer func() {
		if r := recover(); r != nil {
			exec = nil
			err = fmt.Errorf("unit body panicked: %v", r)
		}
	}()
	return builder(ctx, caps, m)
}

func (l *Loader) unmetCapabilities(requires []string) []string {
	var missing []string
	for _, id := range requires {
		if !l.caps.Probe(id).Available {
			missing = append(missing, id)
		}
	}
	return missing
}
