// Package videoprobe reads duration and frame rate from a video file via
// ffprobe, feeding the batch arithmetic nodes. Loads as a stub without
// ffprobe on PATH.
package videoprobe

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/zclconf/go-cty/cty"

	"github.com/DDbuding/ComfyUI-Buding-tools/internal/capability"
	"github.com/DDbuding/ComfyUI-Buding-tools/internal/descriptor"
	"github.com/DDbuding/ComfyUI-Buding-tools/internal/loader"
	"github.com/DDbuding/ComfyUI-Buding-tools/internal/manifest"
)

type probeResult struct {
	Streams []struct {
		AvgFrameRate string `json:"avg_frame_rate"`
	} `json:"streams"`
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
}

// Register registers this unit's builder.
func Register(h *loader.Handlers) {
	h.Register("BuildVideoProbe", build)
}

func build(ctx context.Context, caps *capability.Set, m *manifest.Manifest) (descriptor.ExecFunc, error) {
	flag := caps.Probe("ffprobe")
	if !flag.Available {
		return nil, &capability.UnavailableError{Missing: []string{"ffprobe"}}
	}
	return runner(flag.Handle), nil
}

func runner(ffprobePath string) descriptor.ExecFunc {
	return func(ctx context.Context, inputs map[string]cty.Value) (map[string]cty.Value, error) {
		videoPath := inputs["video_path"].AsString()

		cmd := exec.CommandContext(ctx, ffprobePath,
			"-v", "error",
			"-select_streams", "v:0",
			"-show_entries", "stream=avg_frame_rate",
			"-show_entries", "format=duration",
			"-of", "json",
			videoPath,
		)
		out, err := cmd.Output()
		if err != nil {
			return nil, fmt.Errorf("ffprobe failed for %s: %w", videoPath, err)
		}

		var result probeResult
		if err := json.Unmarshal(out, &result); err != nil {
			return nil, fmt.Errorf("unexpected ffprobe output: %w", err)
		}

		duration, err := strconv.ParseFloat(result.Format.Duration, 64)
		if err != nil {
			return nil, fmt.Errorf("ffprobe reported no duration for %s", videoPath)
		}

		fps := 0.0
		if len(result.Streams) > 0 {
			fps = parseFrameRate(result.Streams[0].AvgFrameRate)
		}

		return map[string]cty.Value{
			"duration": cty.NumberFloatVal(duration),
			"fps":      cty.NumberFloatVal(fps),
		}, nil
	}
}

// parseFrameRate resolves ffprobe's rational frame rates ("30000/1001").
func parseFrameRate(rate string) float64 {
	num, den, found := strings.Cut(rate, "/")
	if !found {
		f, _ := strconv.ParseFloat(rate, 64)
		return f
	}
	n, err1 := strconv.ParseFloat(num, 64)
	d, err2 := strconv.ParseFloat(den, 64)
	if err1 != nil || err2 != nil || d == 0 {
		return 0
	}
	return n / d
}
