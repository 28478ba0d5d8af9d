// ABOUTME: Raster image renderer bridging probed terminal capabilities to the image pipeline.
// ABOUTME: Emits kitty, iTerm2, or half-block output; obscured graphics render as blank space.

package output

import (
	"fmt"
	"strings"

	"github.com/mauromedda/nbterm-go/pkg/tui/image"
	"github.com/mauromedda/nbterm-go/pkg/tui/probe"
)

// CellSizer reports the pixel size of one character cell; satisfied by
// probe.Capabilities.
type CellSizer interface {
	image.KittyProber
	CellPixelSize() probe.PixelSize
}

// ImageRenderer renders raster image bytes (PNG, JPEG, GIF, WebP) for the
// terminal. The protocol and cell geometry are fixed at construction from
// probed capabilities; a nil sizer yields the half-block fallback.
type ImageRenderer struct {
	proto image.Protocol
	cellW int
	cellH int

	// graphic, when set, gates output: while the graphic is obscured the
	// renderer emits blank lines of the same extent so layout is stable.
	graphic *Graphic
}

// NewImageRenderer picks the image protocol and cell geometry for this
// terminal. Pass the graphic the owning control is constructed with so the
// two agree on visibility.
func NewImageRenderer(caps CellSizer, g *Graphic) *ImageRenderer {
	r := &ImageRenderer{proto: image.ProtoNone, graphic: g}
	if caps != nil {
		r.proto = image.Choose(caps)
		cell := caps.CellPixelSize()
		r.cellW, r.cellH = cell.Width, cell.Height
	}
	return r
}

// NewImageRendererForProtocol builds a renderer with a caller-chosen
// protocol, bypassing detection. Used when configuration forces one.
func NewImageRendererForProtocol(proto image.Protocol, cell probe.PixelSize, g *Graphic) *ImageRenderer {
	return &ImageRenderer{proto: proto, cellW: cell.Width, cellH: cell.Height, graphic: g}
}

// Protocol returns the protocol chosen at construction.
func (r *ImageRenderer) Protocol() image.Protocol { return r.proto }

// Render produces terminal output for the image sized to the given cell
// width. When the attached graphic is obscured it returns blank lines
// covering the image's cell extent instead of emitting graphics sequences
// that would paint over whatever is on top.
func (r *ImageRenderer) Render(data []byte, width, height int) (string, error) {
	sizing := image.Sizing{MaxCols: width, CellWidth: r.cellW, CellHeight: r.cellH}

	if r.graphic != nil && !r.graphic.Visible() {
		return blankExtent(data, sizing), nil
	}

	lines, err := image.Render(data, r.proto, sizing)
	if err != nil {
		return "", fmt.Errorf("rendering image: %w", err)
	}
	return strings.Join(lines, "\n"), nil
}

// blankExtent returns blank lines matching the cell extent the image would
// occupy, so hidden graphics keep their layout slot. Lines are single
// spaces rather than empty so the count survives newline trimming.
func blankExtent(data []byte, s image.Sizing) string {
	dim, err := image.GetDimensions(data)
	if err != nil {
		return " "
	}
	_, rows := image.CellExtent(dim, s)
	lines := make([]string, rows)
	for i := range lines {
		lines[i] = " "
	}
	return strings.Join(lines, "\n")
}
