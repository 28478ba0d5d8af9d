// ABOUTME: BubbleTea pager for the view subcommand
// ABOUTME: One render control per file; window resizes drive the render cache

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mauromedda/nbterm-go/internal/config"
	"github.com/mauromedda/nbterm-go/internal/log"
	"github.com/mauromedda/nbterm-go/pkg/tui/image"
	"github.com/mauromedda/nbterm-go/pkg/tui/output"
	"github.com/mauromedda/nbterm-go/pkg/tui/probe"
	"github.com/mauromedda/nbterm-go/pkg/tui/terminal"
)

// document pairs one file with its render control.
type document struct {
	name    string
	control *output.Control
	graphic *output.Graphic
}

type viewerModel struct {
	docs   []document
	active int

	width  int
	height int
	offset int

	err error
}

var (
	statusStyle = lipgloss.NewStyle().Reverse(true)
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
)

// runViewer opens the files in a pager. Each resize re-renders only what
// the cache does not already hold for that width.
func runViewer(term *terminal.ProcessTerminal, caps *probe.Capabilities, cfg *config.Settings, files []string) error {
	docs := make([]document, 0, len(files))
	for _, path := range files {
		doc, err := openDocument(path, caps, cfg)
		if err != nil {
			return err
		}
		docs = append(docs, doc)
	}
	defer func() {
		for _, d := range docs {
			d.control.Close()
		}
	}()

	m := viewerModel{docs: docs}
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}

// openDocument reads a file and picks its renderer from the extension.
func openDocument(path string, caps *probe.Capabilities, cfg *config.Settings) (document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return document{}, fmt.Errorf("reading %s: %w", path, err)
	}

	doc := document{name: filepath.Base(path)}
	var r output.Renderer
	var opts []output.ControlOption
	if cfg.CacheSize > 0 {
		opts = append(opts, output.WithCacheSize(cfg.CacheSize))
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown":
		r = output.NewMarkdownRenderer(caps.BackgroundColor())
	case ".html", ".htm":
		r = output.NewHTMLRenderer()
	case ".tex", ".latex":
		r = output.NewLatexRenderer()
	case ".svg":
		cell := caps.CellPixelSize()
		r = &output.SVGRenderer{CellWidth: cell.Width, CellHeight: cell.Height}
	case ".png", ".jpg", ".jpeg", ".gif", ".webp":
		doc.graphic = output.NewGraphic()
		r = imageRenderer(caps, cfg, doc.graphic)
		opts = append(opts, output.WithGraphic(doc.graphic))
	default:
		r = output.NewPlainRenderer()
	}

	doc.control = output.NewControl(data, r, opts...)
	return doc, nil
}

// imageRenderer honors a forced protocol from configuration, otherwise
// detects one from the probed capabilities.
func imageRenderer(caps *probe.Capabilities, cfg *config.Settings, g *output.Graphic) output.Renderer {
	if cfg.NoGraphics {
		return output.NewImageRendererForProtocol(image.ProtoNone, caps.CellPixelSize(), g)
	}
	switch cfg.ImageProtocol {
	case "kitty":
		return output.NewImageRendererForProtocol(image.ProtoKitty, caps.CellPixelSize(), g)
	case "iterm2":
		return output.NewImageRendererForProtocol(image.ProtoITerm2, caps.CellPixelSize(), g)
	case "halfblock":
		return output.NewImageRendererForProtocol(image.ProtoNone, caps.CellPixelSize(), g)
	default:
		return output.NewImageRenderer(caps, g)
	}
}

func (m viewerModel) Init() tea.Cmd {
	return nil
}

func (m viewerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.offset = 0
		log.Debug("resize to %dx%d", msg.Width, msg.Height)

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "j", "down":
			m.offset++
		case "k", "up":
			if m.offset > 0 {
				m.offset--
			}
		case "g", "home":
			m.offset = 0
		case "pgdown", " ":
			m.offset += m.contentHeight()
		case "pgup":
			m.offset = max(m.offset-m.contentHeight(), 0)
		case "tab", "l", "right":
			m.active = (m.active + 1) % len(m.docs)
			m.offset = 0
		case "shift+tab", "h", "left":
			m.active = (m.active + len(m.docs) - 1) % len(m.docs)
			m.offset = 0
		}
	}
	return m, nil
}

// contentHeight is the pager body height, excluding the status line.
func (m viewerModel) contentHeight() int {
	return max(m.height-1, 1)
}

func (m viewerModel) View() string {
	if m.width == 0 {
		return "loading..."
	}

	doc := m.docs[m.active]
	lines, err := doc.control.Lines(m.width, m.contentHeight())
	if err != nil {
		return errorStyle.Render(fmt.Sprintf("render failed: %v", err)) + "\n" + m.statusLine(0)
	}

	offset := m.offset
	if offset > max(len(lines)-m.contentHeight(), 0) {
		offset = max(len(lines)-m.contentHeight(), 0)
	}
	visible := lines[offset:min(offset+m.contentHeight(), len(lines))]

	var b strings.Builder
	for _, line := range visible {
		b.WriteString(line)
		b.WriteString("\n")
	}
	for i := len(visible); i < m.contentHeight(); i++ {
		b.WriteString("\n")
	}
	b.WriteString(m.statusLine(len(lines)))
	return b.String()
}

// statusLine shows the active document, position, and document count.
func (m viewerModel) statusLine(total int) string {
	doc := m.docs[m.active]
	left := fmt.Sprintf(" %s (%d/%d) ", doc.name, m.active+1, len(m.docs))
	right := fmt.Sprintf(" %d/%d ", min(m.offset+m.contentHeight(), total), total)
	pad := m.width - len(left) - len(right)
	if pad < 0 {
		pad = 0
	}
	return statusStyle.Render(left + strings.Repeat(" ", pad) + right)
}
