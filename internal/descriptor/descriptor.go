// Package descriptor defines the contract every node unit must satisfy: a
// unique identifier, a display name, typed input/output schemas, and an
// execution entry point. A descriptor is either real (backed by a working
// body) or a stub standing in for a unit that failed to load.
package descriptor

import (
	"context"
	"fmt"

	"github.com/zclconf/go-cty/cty"
)

// InputSpec declares a single input of a node.
type InputSpec struct {
	Name        string
	Type        cty.Type
	Description string
	Default     *cty.Value
	Optional    bool
}

// OutputSpec declares a single output of a node.
type OutputSpec struct {
	Name        string
	Type        cty.Type
	Description string
}

// ExecFunc is a node's execution entry point. Inputs are keyed by the names
// declared in the input schema and have already been decoded against it.
type ExecFunc func(ctx context.Context, inputs map[string]cty.Value) (map[string]cty.Value, error)

// Node is the descriptor the host queries to populate its palette. Once a
// node has been handed to the registry it is never mutated.
type Node struct {
	ID          string
	DisplayName string
	Category    string
	// Unit is the name of the node unit that declared this descriptor.
	Unit    string
	Inputs  []InputSpec
	Outputs []OutputSpec
	Execute ExecFunc
	// Stub marks a descriptor synthesized for a unit that failed to load.
	// Its Execute fails deterministically instead of computing anything.
	Stub bool
	// MissingCapabilities lists the capability ids a stub is waiting on.
	// Empty for real descriptors and for stubs caused by non-capability
	// failures.
	MissingCapabilities []string
}

// Validate checks the schema invariants a loaded descriptor must satisfy.
// A violation is a per-unit load failure, not a process error.
func (n *Node) Validate() error {
	if n.ID == "" {
		return fmt.Errorf("descriptor has an empty id")
	}
	if n.DisplayName == "" {
		return fmt.Errorf("descriptor %q has an empty display name", n.ID)
	}
	if n.Execute == nil {
		return fmt.Errorf("descriptor %q has no execution entry point", n.ID)
	}
	seen := make(map[string]struct{}, len(n.Inputs))
	for _, in := range n.Inputs {
		if in.Name == "" {
			return fmt.Errorf("descriptor %q declares an unnamed input", n.ID)
		}
		if _, dup := seen[in.Name]; dup {
			return fmt.Errorf("descriptor %q declares input %q twice", n.ID, in.Name)
		}
		seen[in.Name] = struct{}{}
	}
	seen = make(map[string]struct{}, len(n.Outputs))
	for _, out := range n.Outputs {
		if out.Name == "" {
			return fmt.Errorf("descriptor %q declares an unnamed output", n.ID)
		}
		if _, dup := seen[out.Name]; dup {
			return fmt.Errorf("descriptor %q declares output %q twice", n.ID, out.Name)
		}
		seen[out.Name] = struct{}{}
	}
	return nil
}
