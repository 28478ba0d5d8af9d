// ABOUTME: Graphic tracks a terminal graphic's placement and visibility.
// ABOUTME: Publishes move/resize events that image controls subscribe to for cache invalidation.

package output

import (
	"sync"

	"github.com/mauromedda/nbterm-go/internal/eventbus"
)

// Placement describes where a graphic sits on screen, in cells.
type Placement struct {
	Col     int
	Row     int
	Cols    int
	Rows    int
	Visible bool
}

// Graphic is the placement record for one on-screen terminal graphic.
// Image controls key their render cache on Visible so scrolling a graphic
// out from under a dialog (or back) forces a re-render.
type Graphic struct {
	mu        sync.Mutex
	placement Placement

	// OnResize fires when the graphic's size or visibility changes;
	// OnMove when its position changes.
	OnResize *eventbus.Bus[Placement]
	OnMove   *eventbus.Bus[Placement]
}

// NewGraphic returns a visible graphic with no placement yet.
func NewGraphic() *Graphic {
	return &Graphic{
		placement: Placement{Visible: true},
		OnResize:  eventbus.New[Placement](),
		OnMove:    eventbus.New[Placement](),
	}
}

// Visible reports whether the graphic is currently unobscured.
func (g *Graphic) Visible() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.placement.Visible
}

// Placement returns the current placement.
func (g *Graphic) Placement() Placement {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.placement
}

// SetVisible updates obscurity state, firing OnResize on change.
func (g *Graphic) SetVisible(v bool) {
	g.mu.Lock()
	if g.placement.Visible == v {
		g.mu.Unlock()
		return
	}
	g.placement.Visible = v
	p := g.placement
	g.mu.Unlock()

	g.OnResize.Publish(p)
}

// Move updates the graphic's position, firing OnMove on change.
func (g *Graphic) Move(col, row int) {
	g.mu.Lock()
	if g.placement.Col == col && g.placement.Row == row {
		g.mu.Unlock()
		return
	}
	g.placement.Col, g.placement.Row = col, row
	p := g.placement
	g.mu.Unlock()

	g.OnMove.Publish(p)
}

// Resize updates the graphic's size, firing OnResize on change.
func (g *Graphic) Resize(cols, rows int) {
	g.mu.Lock()
	if g.placement.Cols == cols && g.placement.Rows == rows {
		g.mu.Unlock()
		return
	}
	g.placement.Cols, g.placement.Rows = cols, rows
	p := g.placement
	g.mu.Unlock()

	g.OnResize.Publish(p)
}
