// Package pathload lists files from a directory by extension, the common
// front node of every batch workflow in this bundle.
package pathload

import (
	"context"
	"fmt"

	"github.com/zclconf/go-cty/cty"

	"github.com/DDbuding/ComfyUI-Buding-tools/internal/capability"
	"github.com/DDbuding/ComfyUI-Buding-tools/internal/descriptor"
	"github.com/DDbuding/ComfyUI-Buding-tools/internal/fsutil"
	"github.com/DDbuding/ComfyUI-Buding-tools/internal/loader"
	"github.com/DDbuding/ComfyUI-Buding-tools/internal/manifest"
)

// Register registers this unit's builder.
func Register(h *loader.Handlers) {
	h.Register("BuildPathLoader", build)
}

func build(ctx context.Context, caps *capability.Set, m *manifest.Manifest) (descriptor.ExecFunc, error) {
	return run, nil
}

func run(ctx context.Context, inputs map[string]cty.Value) (map[string]cty.Value, error) {
	directory := inputs["directory"].AsString()
	extension := inputs["extension"].AsString()

	if extension == "" {
		return nil, fmt.Errorf("extension must not be empty")
	}

	files, err := fsutil.FindFilesByExtension(directory, extension)
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", directory, err)
	}

	values := make([]cty.Value, len(files))
	for i, f := range files {
		values[i] = cty.StringVal(f)
	}
	fileList := cty.ListValEmpty(cty.String)
	if len(values) > 0 {
		fileList = cty.ListVal(values)
	}

	return map[string]cty.Value{
		"files": fileList,
		"count": cty.NumberIntVal(int64(len(files))),
	}, nil
}
