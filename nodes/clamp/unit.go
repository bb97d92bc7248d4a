// Package clamp limits a numeric value to a configurable maximum, the
// batch-size guard used between loader and controller nodes.
package clamp

import (
	"context"
	"math"

	"github.com/zclconf/go-cty/cty"

	"github.com/DDbuding/ComfyUI-Buding-tools/internal/capability"
	"github.com/DDbuding/ComfyUI-Buding-tools/internal/descriptor"
	"github.com/DDbuding/ComfyUI-Buding-tools/internal/loader"
	"github.com/DDbuding/ComfyUI-Buding-tools/internal/manifest"
)

// Register registers this unit's builder.
func Register(h *loader.Handlers) {
	h.Register("BuildValueClamper", build)
}

func build(ctx context.Context, caps *capability.Set, m *manifest.Manifest) (descriptor.ExecFunc, error) {
	return run, nil
}

func run(ctx context.Context, inputs map[string]cty.Value) (map[string]cty.Value, error) {
	value := numberArg(inputs["value"])
	max := numberArg(inputs["max"])

	clamped := value
	if value >= max {
		clamped = max
	} else {
		// Values below the limit are truncated to whole counts, matching
		// the node's use as a batch-size source.
		clamped = math.Trunc(value)
	}

	return map[string]cty.Value{
		"clamped": cty.NumberFloatVal(clamped),
	}, nil
}

func numberArg(v cty.Value) float64 {
	f, _ := v.AsBigFloat().Float64()
	return f
}
