package loader

import (
	"encoding/json"
	"fmt"

	"github.com/zclconf/go-cty/cty"
	ctyjson "github.com/zclconf/go-cty/cty/json"
)

// nativeFromCty converts a cty value into plain Go values (string, float64,
// bool, []any, map[string]any) by round-tripping through JSON. Scripted
// bodies only ever see native values.
func nativeFromCty(v cty.Value) (any, error) {
	if v.IsNull() {
		return nil, nil
	}
	b, err := ctyjson.Marshal(v, v.Type())
	if err != nil {
		return nil, err
	}
	var native any
	if err := json.Unmarshal(b, &native); err != nil {
		return nil, err
	}
	return native, nil
}

// ctyFromNative converts a plain Go value into a cty value of the wanted
// type. For `any` outputs the type is implied from the value itself.
func ctyFromNative(v any, want cty.Type) (cty.Value, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return cty.NilVal, fmt.Errorf("value is not JSON-representable: %w", err)
	}
	if want == cty.DynamicPseudoType {
		implied, err := ctyjson.ImpliedType(b)
		if err != nil {
			return cty.NilVal, err
		}
		want = implied
	}
	return ctyjson.Unmarshal(b, want)
}
