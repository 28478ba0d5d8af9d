// ABOUTME: SVG renderer producing a sized placeholder frame.
// ABOUTME: Reads intrinsic dimensions from the svg element; no rasterization.

package output

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// SVGRenderer renders vector images as a bordered placeholder sized from
// the document's intrinsic dimensions. Rasterizing SVG needs an external
// toolchain, so the frame stands in while keeping layout honest.
type SVGRenderer struct {
	// CellWidth and CellHeight convert pixel dimensions to cells; zero
	// values use the common 10x22 cell.
	CellWidth  int
	CellHeight int
}

var svgFrameStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	Align(lipgloss.Center, lipgloss.Center).
	Faint(true)

// Render draws the placeholder frame, capped at the available width.
func (r *SVGRenderer) Render(data []byte, width, height int) (string, error) {
	w, h, err := svgDimensions(data)
	if err != nil {
		return "", fmt.Errorf("reading SVG dimensions: %w", err)
	}

	cellW := r.CellWidth
	cellH := r.CellHeight
	if cellW < 1 {
		cellW = 10
	}
	if cellH < 1 {
		cellH = 22
	}

	cols := max(w/cellW, 8)
	rows := max(h/cellH, 1)
	if width > 2 && cols > width-2 {
		cols = width - 2
	}

	label := fmt.Sprintf("SVG %dx%d", w, h)
	return svgFrameStyle.Width(cols).Height(rows).Render(label), nil
}

// svgDimensions pulls width and height off the root svg element, falling
// back to the viewBox when the explicit attributes are missing.
func svgDimensions(data []byte) (w, h int, err error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	for {
		tok, err := dec.Token()
		if err != nil {
			return 0, 0, fmt.Errorf("no svg element found: %w", err)
		}
		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Local != "svg" {
			continue
		}

		var viewBox string
		for _, attr := range start.Attr {
			switch attr.Name.Local {
			case "width":
				w = parseSVGLength(attr.Value)
			case "height":
				h = parseSVGLength(attr.Value)
			case "viewBox":
				viewBox = attr.Value
			}
		}
		if (w == 0 || h == 0) && viewBox != "" {
			if fields := strings.Fields(viewBox); len(fields) == 4 {
				if w == 0 {
					w = parseSVGLength(fields[2])
				}
				if h == 0 {
					h = parseSVGLength(fields[3])
				}
			}
		}
		if w < 1 || h < 1 {
			return 0, 0, fmt.Errorf("svg element carries no usable dimensions")
		}
		return w, h, nil
	}
}

// parseSVGLength reads a length value, tolerating a px suffix and
// fractional digits. Percentages and other units yield 0.
func parseSVGLength(s string) int {
	s = strings.TrimSuffix(strings.TrimSpace(s), "px")
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f < 0 {
		return 0
	}
	return int(f)
}
