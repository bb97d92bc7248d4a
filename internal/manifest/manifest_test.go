package manifest

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

func writeManifest(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), Filename)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_FullManifest(t *testing.T) {
	t.Parallel()

	path := writeManifest(t, `
node "buding_Audio Segmenter" {
  display_name = "🎵 buding_Audio Segmenter"
  category     = "buding/audio"
  requires     = ["ffmpeg"]

  lifecycle {
    build = "BuildAudioSegmenter"
  }

  input "audio_path" {
    type        = string
    description = "Path to the source audio file."
  }

  input "segment_seconds" {
    type    = number
    default = 30
  }

  input "labels" {
    type     = list(string)
    optional = true
  }

  output "output_pattern" {
    type = string
  }

  output "segment_count" {
    type = number
  }
}
`)

	m, err := Load(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, "buding_Audio Segmenter", m.ID)
	assert.Equal(t, "🎵 buding_Audio Segmenter", m.DisplayName)
	assert.Equal(t, "buding/audio", m.Category)
	assert.Equal(t, []string{"ffmpeg"}, m.Requires)
	assert.Equal(t, "BuildAudioSegmenter", m.BuildHandler)

	require.Len(t, m.Inputs, 3)
	assert.Equal(t, "audio_path", m.Inputs[0].Name)
	assert.Equal(t, cty.String, m.Inputs[0].Type)
	assert.Equal(t, "Path to the source audio file.", m.Inputs[0].Description)

	require.NotNil(t, m.Inputs[1].Default)
	assert.True(t, cty.NumberIntVal(30).RawEquals(*m.Inputs[1].Default))

	assert.Equal(t, cty.List(cty.String), m.Inputs[2].Type)
	assert.True(t, m.Inputs[2].Optional)

	require.Len(t, m.Outputs, 2)
	assert.Equal(t, "output_pattern", m.Outputs[0].Name)
	assert.Equal(t, cty.Number, m.Outputs[1].Type)
}

func TestLoad_ConvertsDefaultToDeclaredType(t *testing.T) {
	t.Parallel()

	path := writeManifest(t, `
node "n" {
  display_name = "N"
  lifecycle { build = "BuildN" }

  input "count" {
    type    = number
    default = "5"
  }
}
`)

	m, err := Load(context.Background(), path)
	require.NoError(t, err)
	require.NotNil(t, m.Inputs[0].Default)
	assert.True(t, cty.NumberIntVal(5).RawEquals(*m.Inputs[0].Default))
}

func TestLoad_Errors(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name        string
		content     string
		errContains string
	}{
		{
			name:        "no node block",
			content:     `# empty`,
			errContains: "declares no node block",
		},
		{
			name: "missing display name",
			content: `
node "n" {
  lifecycle { build = "BuildN" }
}
`,
			errContains: "display_name is required",
		},
		{
			name: "missing lifecycle",
			content: `
node "n" {
  display_name = "N"
}
`,
			errContains: "lifecycle block",
		},
		{
			name: "duplicate input",
			content: `
node "n" {
  display_name = "N"
  lifecycle { build = "BuildN" }
  input "a" { type = string }
  input "a" { type = number }
}
`,
			errContains: `input "a" declared twice`,
		},
		{
			name: "duplicate output",
			content: `
node "n" {
  display_name = "N"
  lifecycle { build = "BuildN" }
  output "a" { type = string }
  output "a" { type = number }
}
`,
			errContains: `output "a" declared twice`,
		},
		{
			name: "unknown type keyword",
			content: `
node "n" {
  display_name = "N"
  lifecycle { build = "BuildN" }
  input "a" { type = widget }
}
`,
			errContains: `input "a"`,
		},
		{
			name: "default not convertible",
			content: `
node "n" {
  display_name = "N"
  lifecycle { build = "BuildN" }
  input "a" {
    type    = number
    default = "not a number"
  }
}
`,
			errContains: "default is not convertible",
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			path := writeManifest(t, tc.content)
			_, err := Load(context.Background(), path)
			require.Error(t, err)
			assert.ErrorContains(t, err, tc.errContains)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	t.Parallel()

	_, err := Load(context.Background(), filepath.Join(t.TempDir(), Filename))
	require.Error(t, err)
}

func TestLoad_MalformedHCL(t *testing.T) {
	t.Parallel()

	path := writeManifest(t, `node "n" { display_name =`)
	_, err := Load(context.Background(), path)
	require.Error(t, err)
	assert.ErrorContains(t, err, "failed to parse manifest")
}
