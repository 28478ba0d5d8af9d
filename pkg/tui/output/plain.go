// ABOUTME: Plain text renderer: passes content through with hard wrapping.

package output

import "strings"

// PlainRenderer emits text unchanged apart from hard-wrapping overlong
// unstyled lines and expanding tabs.
type PlainRenderer struct{}

// NewPlainRenderer returns a PlainRenderer.
func NewPlainRenderer() *PlainRenderer {
	return &PlainRenderer{}
}

// Render wraps data to the given width. Height is ignored.
func (p *PlainRenderer) Render(data []byte, width, _ int) (string, error) {
	s := strings.ReplaceAll(string(data), "\t", "    ")
	return wrapLongLines(s, width), nil
}
