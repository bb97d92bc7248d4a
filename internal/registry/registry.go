// Package registry assembles the merged mapping from node id to descriptor
// that the host queries at startup. A registry is built once and never
// mutated afterward; hot reload builds a fresh registry and publishes it
// through a Handle with a single atomic swap.
package registry

import (
	"fmt"

	"github.com/DDbuding/ComfyUI-Buding-tools/internal/descriptor"
)

// CollisionError reports two descriptors declaring the same node id. This
// is a packaging defect, not a recoverable per-unit failure: assembly must
// abort rather than silently keep one of the two.
type CollisionError struct {
	ID         string
	FirstUnit  string
	SecondUnit string
}

func (e *CollisionError) Error() string {
	return fmt.Sprintf("node id %q is declared by both unit %q and unit %q; rename one of them",
		e.ID, e.FirstUnit, e.SecondUnit)
}

// Registry is the complete, immutable set of node descriptors for one load
// run. Iteration order follows load order.
type Registry struct {
	nodes map[string]*descriptor.Node
	order []string
}

// Assemble merges loaded and stub descriptors into one registry. It fails
// fast on an id collision and publishes nothing in that case.
func Assemble(nodes []*descriptor.Node) (*Registry, error) {
	reg := &Registry{
		nodes: make(map[string]*descriptor.Node, len(nodes)),
		order: make([]string, 0, len(nodes)),
	}
	for _, node := range nodes {
		if existing, ok := reg.nodes[node.ID]; ok {
			return nil, &CollisionError{
				ID:         node.ID,
				FirstUnit:  existing.Unit,
				SecondUnit: node.Unit,
			}
		}
		reg.nodes[node.ID] = node
		reg.order = append(reg.order, node.ID)
	}
	return reg, nil
}

// Get returns the descriptor registered under the given node id.
func (r *Registry) Get(id string) (*descriptor.Node, bool) {
	node, ok := r.nodes[id]
	return node, ok
}

// IDs returns all node ids in load order.
func (r *Registry) IDs() []string {
	ids := make([]string, len(r.order))
	copy(ids, r.order)
	return ids
}

// Len returns the number of registered descriptors.
func (r *Registry) Len() int {
	return len(r.order)
}
