package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Defaults(t *testing.T) {
	t.Parallel()

	config, shouldExit, err := Parse(nil, &bytes.Buffer{})

	require.NoError(t, err)
	assert.False(t, shouldExit)
	assert.Equal(t, "nodes", config.NodesPath)
	assert.Equal(t, 0, config.PalettePort)
	assert.Equal(t, "json", config.LogFormat)
	assert.Equal(t, "info", config.LogLevel)
}

func TestParse_NodesPathSources(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name string
		args []string
		want string
	}{
		{name: "nodes flag", args: []string{"-nodes", "/opt/bundle/nodes"}, want: "/opt/bundle/nodes"},
		{name: "shorthand flag", args: []string{"-n", "/opt/short"}, want: "/opt/short"},
		{name: "positional argument", args: []string{"/opt/positional"}, want: "/opt/positional"},
		{name: "flag wins over positional", args: []string{"-nodes", "/opt/flag", "/opt/positional"}, want: "/opt/flag"},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			config, _, err := Parse(tc.args, &bytes.Buffer{})
			require.NoError(t, err)
			assert.Equal(t, tc.want, config.NodesPath)
		})
	}
}

func TestParse_HelpRequestsCleanExit(t *testing.T) {
	t.Parallel()

	var output bytes.Buffer
	config, shouldExit, err := Parse([]string{"-h"}, &output)

	require.NoError(t, err)
	assert.True(t, shouldExit)
	assert.Nil(t, config)
	assert.Contains(t, output.String(), "Usage:")
	assert.Contains(t, output.String(), "NODES_PATH")
}

func TestParse_InvalidArguments(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name string
		args []string
	}{
		{name: "unknown flag", args: []string{"-definitely-not-a-flag"}},
		{name: "bad log format", args: []string{"-log-format", "xml"}},
		{name: "bad log level", args: []string{"-log-level", "loud"}},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, _, err := Parse(tc.args, &bytes.Buffer{})

			var exitErr *ExitError
			require.ErrorAs(t, err, &exitErr)
			assert.Equal(t, 2, exitErr.Code)
		})
	}
}

func TestParse_PalettePort(t *testing.T) {
	t.Parallel()

	config, _, err := Parse([]string{"-palette-port", "8475"}, &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, 8475, config.PalettePort)
}
