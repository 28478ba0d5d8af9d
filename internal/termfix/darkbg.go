// ABOUTME: Pre-sets lipgloss dark background before BubbleTea's init() sends OSC queries
// ABOUTME: Must be imported (with _) before any package that imports bubbletea

package termfix

import "github.com/charmbracelet/lipgloss"

func init() {
	// Tell lipgloss we have a dark background so it never sends its own
	// OSC 10/11 queries. The probe engine owns the terminal's read side;
	// an async lipgloss response would land in the middle of a capability
	// query and corrupt it. The real background color is probed later and
	// applied with lipgloss.SetHasDarkBackground.
	//
	// This package must NOT import bubbletea (directly or transitively)
	// so that Go's init order guarantees this runs first.
	lipgloss.SetHasDarkBackground(true)
}
