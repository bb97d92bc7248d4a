package app

import (
	"github.com/DDbuding/ComfyUI-Buding-tools/internal/loader"
	"github.com/DDbuding/ComfyUI-Buding-tools/nodes/audiosegment"
	"github.com/DDbuding/ComfyUI-Buding-tools/nodes/clamp"
	"github.com/DDbuding/ComfyUI-Buding-tools/nodes/indexstep"
	"github.com/DDbuding/ComfyUI-Buding-tools/nodes/pathload"
	"github.com/DDbuding/ComfyUI-Buding-tools/nodes/srtparse"
	"github.com/DDbuding/ComfyUI-Buding-tools/nodes/textclean"
	"github.com/DDbuding/ComfyUI-Buding-tools/nodes/videoprobe"
)

// coreHandlers registers the builders compiled into the binary. Scripted
// units (unit.go next to the manifest) need no entry here.
func coreHandlers() *loader.Handlers {
	h := loader.NewHandlers()
	audiosegment.Register(h)
	clamp.Register(h)
	indexstep.Register(h)
	pathload.Register(h)
	srtparse.Register(h)
	textclean.Register(h)
	videoprobe.Register(h)
	return h
}
