// ABOUTME: Markdown renderer backed by glamour.
// ABOUTME: Picks a dark or light style from the probed terminal background color.

package output

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/glamour"
)

// MarkdownRenderer renders markdown source into ANSI-styled terminal text.
type MarkdownRenderer struct {
	style string
}

// NewMarkdownRenderer selects the glamour style from the terminal's
// background color ("" when unknown, which defers to glamour's auto style).
func NewMarkdownRenderer(bgColor string) *MarkdownRenderer {
	style := ""
	if bgColor != "" {
		if isDark(bgColor) {
			style = "dark"
		} else {
			style = "light"
		}
	}
	return &MarkdownRenderer{style: style}
}

// Render renders data as markdown wrapped to the given width. Height is
// ignored: markdown reflows by width alone.
func (m *MarkdownRenderer) Render(data []byte, width, _ int) (string, error) {
	opts := []glamour.TermRendererOption{glamour.WithWordWrap(width)}
	if m.style != "" {
		opts = append(opts, glamour.WithStandardStyle(m.style))
	} else {
		opts = append(opts, glamour.WithAutoStyle())
	}

	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return "", fmt.Errorf("building markdown renderer: %w", err)
	}
	out, err := r.Render(string(data))
	if err != nil {
		return "", fmt.Errorf("rendering markdown: %w", err)
	}
	return out, nil
}

// isDark reports whether a "#rrggbb" color is closer to black than white,
// using the rec601 luma weights.
func isDark(hex string) bool {
	if len(hex) != 7 || hex[0] != '#' {
		return true
	}
	r, err1 := strconv.ParseUint(hex[1:3], 16, 8)
	g, err2 := strconv.ParseUint(hex[3:5], 16, 8)
	b, err3 := strconv.ParseUint(hex[5:7], 16, 8)
	if err1 != nil || err2 != nil || err3 != nil {
		return true
	}
	luma := 0.299*float64(r) + 0.587*float64(g) + 0.114*float64(b)
	return luma < 128
}
