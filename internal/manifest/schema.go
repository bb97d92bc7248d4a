package manifest

import (
	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
)

// Lifecycle maps the node's build event to a registered Go builder (or, for
// scripted units, to a function defined in the unit's unit.go).
type Lifecycle struct {
	Build string `hcl:"build"`
}

// InputDefinition defines a single input argument for a node.
type InputDefinition struct {
	Name        string         `hcl:"name,label"`
	Type        hcl.Expression `hcl:"type"`
	Description string         `hcl:"description,optional"`
	Default     *cty.Value     `hcl:"default,optional"`
	Optional    bool           `hcl:"optional,optional"`
}

// OutputDefinition defines a single output value produced by a node.
type OutputDefinition struct {
	Name        string         `hcl:"name,label"`
	Type        hcl.Expression `hcl:"type"`
	Description string         `hcl:"description,optional"`
}

// NodeDefinition represents the HCL manifest for a single node unit. The
// manifest is static metadata: it is readable without executing any of the
// unit's code, which is what makes stub synthesis possible after a failed
// load.
type NodeDefinition struct {
	ID          string              `hcl:"id,label"`
	DisplayName string              `hcl:"display_name"`
	Category    string              `hcl:"category,optional"`
	Requires    []string            `hcl:"requires,optional"`
	Lifecycle   *Lifecycle          `hcl:"lifecycle,block"`
	Inputs      []*InputDefinition  `hcl:"input,block"`
	Outputs     []*OutputDefinition `hcl:"output,block"`
}

// File represents the top-level structure of a manifest.hcl file.
type File struct {
	Node *NodeDefinition `hcl:"node,block"`
	Body hcl.Body        `hcl:",remain"`
}
