package descriptor

import (
	"fmt"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
)

// DecodeInputs validates a raw argument map against the node's input schema,
// applying declared defaults and converting values to their declared types.
// The host calls this once per invocation before handing the result to
// Execute.
func (n *Node) DecodeInputs(given map[string]cty.Value) (map[string]cty.Value, error) {
	decoded := make(map[string]cty.Value, len(n.Inputs))

	for _, spec := range n.Inputs {
		raw, ok := given[spec.Name]
		if !ok || raw.IsNull() {
			if spec.Default != nil {
				decoded[spec.Name] = *spec.Default
				continue
			}
			if spec.Optional {
				decoded[spec.Name] = cty.NullVal(spec.Type)
				continue
			}
			return nil, fmt.Errorf("node %q: required input %q is missing", n.ID, spec.Name)
		}

		converted, err := convert.Convert(raw, spec.Type)
		if err != nil {
			return nil, fmt.Errorf("node %q: input %q: %w", n.ID, spec.Name, err)
		}
		decoded[spec.Name] = converted
	}

	for name := range given {
		if !n.declaresInput(name) {
			return nil, fmt.Errorf("node %q: unknown input %q", n.ID, name)
		}
	}

	return decoded, nil
}

func (n *Node) declaresInput(name string) bool {
	for _, spec := range n.Inputs {
		if spec.Name == name {
			return true
		}
	}
	return false
}
