package textclean

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

func cleanAll(t *testing.T, text string) string {
	t.Helper()
	outputs, err := run(context.Background(), map[string]cty.Value{
		"text":            cty.StringVal(text),
		"strip_prefix":    cty.True,
		"strip_brackets":  cty.True,
		"collapse_spaces": cty.True,
	})
	require.NoError(t, err)
	return outputs["text"].AsString()
}

func TestRun_StripsListPrefixes(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name string
		in   string
		want string
	}{
		{name: "arabic with dot", in: "1. 他走进了森林", want: "他走进了森林"},
		{name: "arabic with letter suffix", in: "12a) 他走进了森林", want: "他走进了森林"},
		{name: "chinese numeral", in: "三、他走进了森林", want: "他走进了森林"},
		{name: "parenthesized counter", in: "（2）他走进了森林", want: "他走进了森林"},
		{name: "no prefix untouched", in: "他走进了森林", want: "他走进了森林"},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, cleanAll(t, tc.in))
		})
	}
}

func TestRun_StripsBracketContainers(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "他说了一句话", cleanAll(t, "他说了一句话《旁白》"))
	assert.Equal(t, "场景描述", cleanAll(t, "【镜头三】场景描述"))
	assert.Equal(t, "a line", cleanAll(t, "a line (aside)"))
	assert.Equal(t, "keep this", cleanAll(t, "keep [note] this"))
}

func TestRun_CollapsesWhitespacePerLine(t *testing.T) {
	t.Parallel()

	got := cleanAll(t, "  first   line  \r\nsecond\rthird   one")
	assert.Equal(t, "first line\nsecond\nthird one", got)
}

func TestRun_FlagsDisableStages(t *testing.T) {
	t.Parallel()

	outputs, err := run(context.Background(), map[string]cty.Value{
		"text":            cty.StringVal("1. keep (this)"),
		"strip_prefix":    cty.False,
		"strip_brackets":  cty.False,
		"collapse_spaces": cty.False,
	})
	require.NoError(t, err)
	assert.Equal(t, "1. keep (this)", outputs["text"].AsString())
}
