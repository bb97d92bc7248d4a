// Package unitlist produces the ordered list of loadable node units the
// loader operates on. The loader itself never scans directories; it takes
// an already-resolved list, so enumeration stays a thin, replaceable
// collaborator.
package unitlist

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/DDbuding/ComfyUI-Buding-tools/internal/ctxlog"
	"github.com/DDbuding/ComfyUI-Buding-tools/internal/fsutil"
	"github.com/DDbuding/ComfyUI-Buding-tools/internal/loader"
	"github.com/DDbuding/ComfyUI-Buding-tools/internal/manifest"
)

// OrderFilename is the optional file in the nodes directory that pins an
// explicit unit load order. Without it, units load in sorted directory
// order.
const OrderFilename = "units.yaml"

type orderFile struct {
	Units []string `yaml:"units"`
}

// Enumerate returns the units under nodesPath in load order. A missing
// nodes directory means an empty bundle, not an error. A unit listed in
// units.yaml but absent on disk is still returned: its load attempt will
// fail in isolation and show up in diagnostics, which beats silently
// dropping it here.
func Enumerate(ctx context.Context, nodesPath string) ([]loader.Unit, error) {
	logger := ctxlog.FromContext(ctx)

	names, err := orderedNames(nodesPath)
	if err != nil {
		return nil, err
	}

	units := make([]loader.Unit, 0, len(names))
	for _, name := range names {
		units = append(units, loader.Unit{
			Name: name,
			Dir:  filepath.Join(nodesPath, name),
		})
	}

	logger.Debug("Node units enumerated.", "path", nodesPath, "count", len(units))
	return units, nil
}

func orderedNames(nodesPath string) ([]string, error) {
	orderPath := filepath.Join(nodesPath, OrderFilename)
	data, err := os.ReadFile(orderPath)
	if err == nil {
		var order orderFile
		if err := yaml.Unmarshal(data, &order); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", orderPath, err)
		}
		return order.Units, nil
	}
	if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read %s: %w", orderPath, err)
	}

	return fsutil.ListSubdirsWithFile(nodesPath, manifest.Filename)
}
