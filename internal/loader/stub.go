package loader

import (
	"context"
	"fmt"

	"github.com/zclconf/go-cty/cty"

	"github.com/DDbuding/ComfyUI-Buding-tools/internal/capability"
	"github.com/DDbuding/ComfyUI-Buding-tools/internal/descriptor"
	"github.com/DDbuding/ComfyUI-Buding-tools/internal/manifest"
)

// synthesizeStub builds a placeholder descriptor for a unit whose body
// failed to load but whose manifest was readable. The stub carries the same
// id, display name and schemas the real unit declares, so the host's
// palette stays stable across dependency changes. Its Execute never
// computes anything: it deterministically fails with an error naming what
// went missing.
func synthesizeStub(unit Unit, m *manifest.Manifest, missing []string, detail string) *descriptor.Node {
	execErr := stubError(m.ID, missing, detail)

	return &descriptor.Node{
		ID:                  m.ID,
		DisplayName:         m.DisplayName,
		Category:            m.Category,
		Unit:                unit.Name,
		Inputs:              m.Inputs,
		Outputs:             m.Outputs,
		Stub:                true,
		MissingCapabilities: missing,
		Execute: func(ctx context.Context, inputs map[string]cty.Value) (map[string]cty.Value, error) {
			return nil, execErr
		},
	}
}

func stubError(id string, missing []string, detail string) error {
	if len(missing) > 0 {
		return fmt.Errorf("node %q: %w", id, &capability.UnavailableError{Missing: missing})
	}
	return fmt.Errorf("node %q failed to load and cannot run: %s", id, detail)
}
