package reverse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuild_ReversesRunes(t *testing.T) {
	t.Parallel()

	body, err := Build()
	require.NoError(t, err)

	outputs, err := body(map[string]any{"text": "故事开始了"})
	require.NoError(t, err)
	assert.Equal(t, "了始开事故", outputs["text"])

	outputs, err = body(map[string]any{"text": "abc"})
	require.NoError(t, err)
	assert.Equal(t, "cba", outputs["text"])
}

func TestBuild_MissingInputIsEmpty(t *testing.T) {
	t.Parallel()

	body, err := Build()
	require.NoError(t, err)

	outputs, err := body(map[string]any{})
	require.NoError(t, err)
	assert.Equal(t, "", outputs["text"])
}
