// ABOUTME: Lipgloss-styled capability report for the default subcommand
// ABOUTME: Probes every capability and prints a two-column summary table

package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mauromedda/nbterm-go/pkg/tui/image"
	"github.com/mauromedda/nbterm-go/pkg/tui/probe"
)

var (
	reportTitleStyle = lipgloss.NewStyle().Bold(true).MarginBottom(1)
	reportKeyStyle   = lipgloss.NewStyle().Faint(true).Width(20)
	reportYesStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	reportNoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	reportBoxStyle   = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				Padding(0, 2)
)

// capabilityReport probes everything and formats the results.
func capabilityReport(caps *probe.Capabilities) string {
	caps.ProbeAll()

	var rows []string
	row := func(key, value string) {
		rows = append(rows, reportKeyStyle.Render(key)+value)
	}
	boolRow := func(key string, v bool) {
		if v {
			row(key, reportYesStyle.Render("yes"))
		} else {
			row(key, reportNoStyle.Render("no"))
		}
	}

	bg := caps.BackgroundColor()
	if bg == "" {
		row("background", reportNoStyle.Render("unknown"))
	} else {
		swatch := lipgloss.NewStyle().Background(lipgloss.Color(bg)).Render("   ")
		row("background", bg+" "+swatch)
	}

	px := caps.TermPixelSize()
	if px.Width > 0 {
		row("text area", fmt.Sprintf("%d x %d px", px.Width, px.Height))
	} else {
		row("text area", reportNoStyle.Render("not reported"))
	}

	cell := caps.CellPixelSize()
	row("cell size", fmt.Sprintf("%d x %d px", cell.Width, cell.Height))

	boolRow("sixel", caps.HasSixelGraphics())
	boolRow("kitty graphics", caps.HasKittyGraphics())
	row("image protocol", image.Choose(caps).String())

	title := reportTitleStyle.Render("Terminal capabilities")
	body := strings.Join(rows, "\n")
	return reportBoxStyle.Render(title + "\n" + body)
}

// isDarkHex reports whether a "#rrggbb" color is closer to black than
// white, using the rec601 luma weights. Unparseable input counts as dark.
func isDarkHex(hex string) bool {
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
