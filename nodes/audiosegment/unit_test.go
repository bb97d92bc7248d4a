package audiosegment

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"

	"github.com/DDbuding/ComfyUI-Buding-tools/internal/capability"
)

func TestBuild_WithoutFfmpeg(t *testing.T) {
	t.Parallel()

	caps := capability.NewSet(capability.Probe{
		ID:      "ffmpeg",
		Acquire: func() (string, error) { return "", errors.New("not found") },
	})

	_, err := build(context.Background(), caps, nil)

	var unavailable *capability.UnavailableError
	require.ErrorAs(t, err, &unavailable)
	assert.Equal(t, []string{"ffmpeg"}, unavailable.Missing)
}

func TestRunner_SegmentsAudio(t *testing.T) {
	t.Parallel()

	// A stand-in ffmpeg that writes two segment files where the output
	// pattern points, exercising the command plumbing without real media.
	dir := t.TempDir()
	fake := filepath.Join(dir, "ffmpeg")
	script := `#!/bin/sh
for a in "$@"; do pattern="$a"; done
printf x > "$(printf "$pattern" 0)"
printf x > "$(printf "$pattern" 1)"
`
	require.NoError(t, os.WriteFile(fake, []byte(script), 0o755))
	outputDir := filepath.Join(dir, "segments")

	outputs, err := runner(fake)(context.Background(), map[string]cty.Value{
		"audio_path":      cty.StringVal("story.wav"),
		"output_dir":      cty.StringVal(outputDir),
		"segment_seconds": cty.NumberIntVal(30),
	})
	require.NoError(t, err)

	count, _ := outputs["segment_count"].AsBigFloat().Int64()
	assert.Equal(t, int64(2), count)
	assert.Equal(t, filepath.Join(outputDir, "segment_%03d.wav"), outputs["output_pattern"].AsString())
}

func TestRunner_RejectsNonPositiveSegmentLength(t *testing.T) {
	t.Parallel()

	_, err := runner("/bin/true")(context.Background(), map[string]cty.Value{
		"audio_path":      cty.StringVal("story.wav"),
		"output_dir":      cty.StringVal(t.TempDir()),
		"segment_seconds": cty.NumberIntVal(0),
	})
	require.Error(t, err)
	assert.ErrorContains(t, err, "segment_seconds must be positive")
}

func TestRunner_SurfacesFfmpegFailure(t *testing.T) {
	t.Parallel()

	fake := filepath.Join(t.TempDir(), "ffmpeg")
	require.NoError(t, os.WriteFile(fake, []byte("#!/bin/sh\necho 'no such file' >&2\nexit 1\n"), 0o755))

	_, err := runner(fake)(context.Background(), map[string]cty.Value{
		"audio_path":      cty.StringVal("missing.wav"),
		"output_dir":      cty.StringVal(t.TempDir()),
		"segment_seconds": cty.NumberIntVal(30),
	})
	require.Error(t, err)
	assert.ErrorContains(t, err, "ffmpeg failed")
	assert.ErrorContains(t, err, "no such file")
}
