// Package manifest parses the static HCL metadata that every node unit ships
// alongside its executable body. Parsing a manifest must not execute any
// unit code.
package manifest

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty/convert"

	"github.com/DDbuding/ComfyUI-Buding-tools/internal/ctxlog"
	"github.com/DDbuding/ComfyUI-Buding-tools/internal/descriptor"
)

// Filename is the manifest file every node unit directory must contain.
const Filename = "manifest.hcl"

// Manifest is the resolved, format-agnostic form of a unit's manifest: type
// expressions translated to cty types and defaults converted to their
// declared types.
type Manifest struct {
	ID           string
	DisplayName  string
	Category     string
	Requires     []string
	BuildHandler string
	Inputs       []descriptor.InputSpec
	Outputs      []descriptor.OutputSpec
}

// Load reads and resolves a single manifest file.
func Load(ctx context.Context, path string) (*Manifest, error) {
	logger := ctxlog.FromContext(ctx)

	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse manifest %s: %w", path, diags)
	}

	var file File
	if diags := gohcl.DecodeBody(hclFile.Body, nil, &file); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode manifest %s: %w", path, diags)
	}
	if file.Node == nil {
		return nil, fmt.Errorf("manifest %s declares no node block", path)
	}

	m, err := resolve(file.Node)
	if err != nil {
		return nil, fmt.Errorf("manifest %s: %w", path, err)
	}

	logger.Debug("Manifest loaded.", "path", path, "id", m.ID)
	return m, nil
}

func resolve(def *NodeDefinition) (*Manifest, error) {
	if def.ID == "" {
		return nil, fmt.Errorf("node id must not be empty")
	}
	if def.DisplayName == "" {
		return nil, fmt.Errorf("node %q: display_name is required", def.ID)
	}
	if def.Lifecycle == nil || def.Lifecycle.Build == "" {
		return nil, fmt.Errorf("node %q: lifecycle block with a build handler is required", def.ID)
	}

	m := &Manifest{
		ID:           def.ID,
		DisplayName:  def.DisplayName,
		Category:     def.Category,
		Requires:     def.Requires,
		BuildHandler: def.Lifecycle.Build,
	}

	seen := make(map[string]struct{}, len(def.Inputs))
	for _, in := range def.Inputs {
		if _, dup := seen[in.Name]; dup {
			return nil, fmt.Errorf("node %q: input %q declared twice", def.ID, in.Name)
		}
		seen[in.Name] = struct{}{}

		ty, err := typeExprToCtyType(in.Type)
		if err != nil {
			return nil, fmt.Errorf("node %q: input %q: %w", def.ID, in.Name, err)
		}
		spec := descriptor.InputSpec{
			Name:        in.Name,
			Type:        ty,
			Description: in.Description,
			Optional:    in.Optional,
		}
		if in.Default != nil {
			converted, err := convert.Convert(*in.Default, ty)
			if err != nil {
				return nil, fmt.Errorf("node %q: input %q: default is not convertible to its declared type: %w", def.ID, in.Name, err)
			}
			spec.Default = &converted
		}
		m.Inputs = append(m.Inputs, spec)
	}

	seen = make(map[string]struct{}, len(def.Outputs))
	for _, out := range def.Outputs {
		if _, dup := seen[out.Name]; dup {
			return nil, fmt.Errorf("node %q: output %q declared twice", def.ID, out.Name)
		}
		seen[out.Name] = struct{}{}

		ty, err := typeExprToCtyType(out.Type)
		if err != nil {
			return nil, fmt.Errorf("node %q: output %q: %w", def.ID, out.Name, err)
		}
		m.Outputs = append(m.Outputs, descriptor.OutputSpec{
			Name:        out.Name,
			Type:        ty,
			Description: out.Description,
		})
	}

	return m, nil
}
