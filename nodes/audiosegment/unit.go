// Package audiosegment cuts an audio file into fixed-length segments by
// shelling out to ffmpeg. The unit loads as a stub when ffmpeg is not on
// PATH.
package audiosegment

import (
	"context"
	"fmt"
	"math"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/zclconf/go-cty/cty"

	"github.com/DDbuding/ComfyUI-Buding-tools/internal/capability"
	"github.com/DDbuding/ComfyUI-Buding-tools/internal/descriptor"
	"github.com/DDbuding/ComfyUI-Buding-tools/internal/loader"
	"github.com/DDbuding/ComfyUI-Buding-tools/internal/manifest"
)

// Register registers this unit's builder.
func Register(h *loader.Handlers) {
	h.Register("BuildAudioSegmenter", build)
}

func build(ctx context.Context, caps *capability.Set, m *manifest.Manifest) (descriptor.ExecFunc, error) {
	flag := caps.Probe("ffmpeg")
	if !flag.Available {
		return nil, &capability.UnavailableError{Missing: []string{"ffmpeg"}}
	}
	return runner(flag.Handle), nil
}

func runner(ffmpegPath string) descriptor.ExecFunc {
	return func(ctx context.Context, inputs map[string]cty.Value) (map[string]cty.Value, error) {
		audioPath := inputs["audio_path"].AsString()
		outputDir := inputs["output_dir"].AsString()
		segmentSeconds, _ := inputs["segment_seconds"].AsBigFloat().Float64()

		if segmentSeconds <= 0 {
			return nil, fmt.Errorf("segment_seconds must be positive")
		}
		if err := os.MkdirAll(outputDir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create output directory: %w", err)
		}

		ext := filepath.Ext(audioPath)
		if ext == "" {
			ext = ".wav"
		}
		pattern := filepath.Join(outputDir, "segment_%03d"+ext)

		args := []string{
			"-hide_banner", "-y",
			"-i", audioPath,
			"-f", "segment",
			"-segment_time", fmt.Sprintf("%d", int64(math.Ceil(segmentSeconds))),
			"-c", "copy",
			pattern,
		}
		cmd := exec.CommandContext(ctx, ffmpegPath, args...)
		if out, err := cmd.CombinedOutput(); err != nil {
			return nil, fmt.Errorf("ffmpeg failed: %w: %s", err, strings.TrimSpace(string(out)))
		}

		segments, err := filepath.Glob(filepath.Join(outputDir, "segment_*"+ext))
		if err != nil {
			return nil, err
		}

		return map[string]cty.Value{
			"output_pattern": cty.StringVal(pattern),
			"segment_count":  cty.NumberIntVal(int64(len(segments))),
		}, nil
	}
}
