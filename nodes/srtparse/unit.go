// Package srtparse converts an SRT subtitle file into a JSON entry list so
// downstream timing nodes can work with structured data.
package srtparse

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/zclconf/go-cty/cty"

	"github.com/DDbuding/ComfyUI-Buding-tools/internal/capability"
	"github.com/DDbuding/ComfyUI-Buding-tools/internal/descriptor"
	"github.com/DDbuding/ComfyUI-Buding-tools/internal/loader"
	"github.com/DDbuding/ComfyUI-Buding-tools/internal/manifest"
)

// Entry is one parsed subtitle cue.
type Entry struct {
	Index int     `json:"index"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

var timecodeLine = regexp.MustCompile(`^(\d{2}):(\d{2}):(\d{2})[,.](\d{1,3})\s*-->\s*(\d{2}):(\d{2}):(\d{2})[,.](\d{1,3})`)

// Register registers this unit's builder.
func Register(h *loader.Handlers) {
	h.Register("BuildSRTParser", build)
}

func build(ctx context.Context, caps *capability.Set, m *manifest.Manifest) (descriptor.ExecFunc, error) {
	return run, nil
}

func run(ctx context.Context, inputs map[string]cty.Value) (map[string]cty.Value, error) {
	path := inputs["path"].AsString()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read subtitle file: %w", err)
	}

	entries, err := Parse(string(data))
	if err != nil {
		return nil, err
	}

	encoded, err := json.Marshal(entries)
	if err != nil {
		return nil, err
	}

	return map[string]cty.Value{
		"entries": cty.StringVal(string(encoded)),
		"count":   cty.NumberIntVal(int64(len(entries))),
	}, nil
}

// Parse splits SRT content into entries. Malformed blocks are skipped
// rather than failing the whole file; subtitle files in the wild are messy.
func Parse(content string) ([]Entry, error) {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.TrimPrefix(content, "\uFEFF")

	var entries []Entry
	for _, block := range strings.Split(content, "\n\n") {
		lines := nonEmptyLines(block)
		if len(lines) < 2 {
			continue
		}

		// The index line is optional in practice.
		cursor := 0
		index := len(entries) + 1
		if n, err := strconv.Atoi(strings.TrimSpace(lines[0])); err == nil {
			index = n
			cursor = 1
		}
		if cursor >= len(lines) {
			continue
		}

		match := timecodeLine.FindStringSubmatch(lines[cursor])
		if match == nil {
			continue
		}
		start := timecodeSeconds(match[1], match[2], match[3], match[4])
		end := timecodeSeconds(match[5], match[6], match[7], match[8])

		entries = append(entries, Entry{
			Index: index,
			Start: start,
			End:   end,
			Text:  strings.Join(lines[cursor+1:], "\n"),
		})
	}

	if len(entries) == 0 {
		return nil, fmt.Errorf("no subtitle entries found")
	}
	return entries, nil
}

func nonEmptyLines(block string) []string {
	var lines []string
	for _, line := range strings.Split(block, "\n") {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, strings.TrimSpace(line))
		}
	}
	return lines
}

func timecodeSeconds(h, m, s, ms string) float64 {
	hours, _ := strconv.Atoi(h)
	minutes, _ := strconv.Atoi(m)
	seconds, _ := strconv.Atoi(s)
	// Pad short millisecond fields: "5" means 500ms in some exporters.
	for len(ms) < 3 {
		ms += "0"
	}
	millis, _ := strconv.Atoi(ms)
	return float64(hours)*3600 + float64(minutes)*60 + float64(seconds) + float64(millis)/1000
}
