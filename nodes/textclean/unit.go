// Package textclean strips list prefixes, bracket containers and excess
// whitespace from story text before it reaches prompt-building nodes.
package textclean

import (
	"context"
	"regexp"
	"strings"

	"github.com/zclconf/go-cty/cty"

	"github.com/DDbuding/ComfyUI-Buding-tools/internal/capability"
	"github.com/DDbuding/ComfyUI-Buding-tools/internal/descriptor"
	"github.com/DDbuding/ComfyUI-Buding-tools/internal/loader"
	"github.com/DDbuding/ComfyUI-Buding-tools/internal/manifest"
)

var (
	// Line prefixes: Chinese numerals, arabic numerals with optional letter
	// suffixes, and parenthesized counters.
	prefixPatterns = []*regexp.Regexp{
		regexp.MustCompile(`^\s*[一二三四五六七八九十百千万]+[\.\-、\)）\]]+\s*`),
		regexp.MustCompile(`^\s*\d+[a-zA-Z]{0,2}[\.\-、\)）\]]+\s*`),
		regexp.MustCompile(`^\s*[（(]\d+[a-zA-Z]{0,2}[）)]\s*`),
		regexp.MustCompile(`^\s*\d+[\.\)）]\s*`),
	}

	// Bracket containers are removed together with their content.
	bracketPatterns = []*regexp.Regexp{
		regexp.MustCompile(`《[^》]*》`),
		regexp.MustCompile(`【[^】]*】`),
		regexp.MustCompile(`（[^）]*）`),
		regexp.MustCompile(`\([^)]*\)`),
		regexp.MustCompile(`\[[^\]]*\]`),
	}

	multiSpace = regexp.MustCompile(` +`)
)

// Register registers this unit's builder.
func Register(h *loader.Handlers) {
	h.Register("BuildTextCleaner", build)
}

func build(ctx context.Context, caps *capability.Set, m *manifest.Manifest) (descriptor.ExecFunc, error) {
	return run, nil
}

func run(ctx context.Context, inputs map[string]cty.Value) (map[string]cty.Value, error) {
	text := inputs["text"].AsString()
	stripPrefix := inputs["strip_prefix"].True()
	stripBrackets := inputs["strip_brackets"].True()
	collapseSpaces := inputs["collapse_spaces"].True()

	lines := strings.Split(normalizeNewlines(text), "\n")
	for i, line := range lines {
		if stripPrefix {
			line = stripLinePrefix(line)
		}
		if stripBrackets {
			line = stripBracketContent(line)
		}
		if collapseSpaces {
			line = collapseLineSpaces(line)
		}
		lines[i] = line
	}

	return map[string]cty.Value{
		"text": cty.StringVal(strings.Join(lines, "\n")),
	}, nil
}

func normalizeNewlines(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}

func stripLinePrefix(line string) string {
	for _, p := range prefixPatterns {
		if loc := p.FindStringIndex(line); loc != nil && loc[0] == 0 {
			return line[loc[1]:]
		}
	}
	return line
}

func stripBracketContent(line string) string {
	for _, p := range bracketPatterns {
		line = p.ReplaceAllString(line, "")
	}
	return line
}

func collapseLineSpaces(line string) string {
	return multiSpace.ReplaceAllString(strings.TrimSpace(line), " ")
}
