// Package indexstep advances a batch index with optional wraparound, used
// to drive batch-run controllers through a fixed-size queue.
package indexstep

import (
	"context"
	"fmt"
	"math"

	"github.com/zclconf/go-cty/cty"

	"github.com/DDbuding/ComfyUI-Buding-tools/internal/capability"
	"github.com/DDbuding/ComfyUI-Buding-tools/internal/descriptor"
	"github.com/DDbuding/ComfyUI-Buding-tools/internal/loader"
	"github.com/DDbuding/ComfyUI-Buding-tools/internal/manifest"
)

// Register registers this unit's builder.
func Register(h *loader.Handlers) {
	h.Register("BuildIndexStepper", build)
}

func build(ctx context.Context, caps *capability.Set, m *manifest.Manifest) (descriptor.ExecFunc, error) {
	return run, nil
}

func run(ctx context.Context, inputs map[string]cty.Value) (map[string]cty.Value, error) {
	index := intArg(inputs["index"])
	total := intArg(inputs["total"])
	step := intArg(inputs["step"])
	wrap := inputs["wrap"].True()

	if total <= 0 {
		return nil, fmt.Errorf("total must be positive, got %d", total)
	}

	next := index + step
	wrapped := false
	if next >= total || next < 0 {
		if !wrap {
			return nil, fmt.Errorf("index %d is out of range [0, %d) and wrap is disabled", next, total)
		}
		next = ((next % total) + total) % total
		wrapped = true
	}

	return map[string]cty.Value{
		"next":    cty.NumberIntVal(next),
		"wrapped": cty.BoolVal(wrapped),
	}, nil
}

func intArg(v cty.Value) int64 {
	f, _ := v.AsBigFloat().Float64()
	return int64(math.Trunc(f))
}
