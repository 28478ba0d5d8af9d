// ABOUTME: HTML renderer: walks the parse tree and emits readable terminal text.
// ABOUTME: Uses golang.org/x/net/html; block elements break lines, inline styling uses SGR.

package output

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
)

const (
	sgrBold      = "\x1b[1m"
	sgrItalic    = "\x1b[3m"
	sgrDim       = "\x1b[2m"
	sgrUnderline = "\x1b[4m"
	sgrReset     = "\x1b[0m"
)

// HTMLRenderer extracts readable text from HTML cell output.
type HTMLRenderer struct{}

// NewHTMLRenderer returns an HTMLRenderer.
func NewHTMLRenderer() *HTMLRenderer {
	return &HTMLRenderer{}
}

// Render parses data as HTML and flattens it to styled text lines. The
// width argument caps hard-wrapped plain text; markup-driven breaks take
// precedence. Height is ignored.
func (h *HTMLRenderer) Render(data []byte, width, _ int) (string, error) {
	doc, err := html.Parse(strings.NewReader(string(data)))
	if err != nil {
		return "", fmt.Errorf("parsing html: %w", err)
	}

	var b strings.Builder
	walkHTML(doc, &b, false)
	return wrapLongLines(strings.TrimSpace(b.String()), width), nil
}

// walkHTML flattens the node tree into b.
func walkHTML(n *html.Node, b *strings.Builder, inPre bool) {
	if n.Type == html.ElementNode {
		switch n.Data {
		case "script", "style", "head", "iframe", "noscript":
			return
		case "h1", "h2", "h3", "h4", "h5", "h6":
			b.WriteString("\n\n" + sgrBold)
			defer b.WriteString(sgrReset + "\n")
		case "p", "div", "section", "article", "table":
			b.WriteString("\n\n")
		case "tr":
			b.WriteString("\n")
		case "td", "th":
			defer b.WriteString("\t")
		case "br":
			b.WriteString("\n")
		case "li":
			b.WriteString("\n• ")
		case "pre":
			b.WriteString("\n")
			inPre = true
		case "code":
			if !inPre {
				b.WriteString(sgrDim)
				defer b.WriteString(sgrReset)
			}
		case "strong", "b":
			b.WriteString(sgrBold)
			defer b.WriteString(sgrReset)
		case "em", "i":
			b.WriteString(sgrItalic)
			defer b.WriteString(sgrReset)
		case "a":
			b.WriteString(sgrUnderline)
			defer b.WriteString(sgrReset)
		}
	}

	if n.Type == html.TextNode {
		if inPre {
			b.WriteString(n.Data)
		} else {
			b.WriteString(collapseSpace(n.Data))
		}
	}

	for child := n.FirstChild; child != nil; child = child.NextSibling {
		walkHTML(child, b, inPre)
	}
}

// collapseSpace folds runs of whitespace into single spaces, the way
// browsers lay out non-preformatted text.
func collapseSpace(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		if s == "" {
			return ""
		}
		return " "
	}
	out := strings.Join(fields, " ")
	if s[0] == ' ' || s[0] == '\n' || s[0] == '\t' {
		out = " " + out
	}
	if last := s[len(s)-1]; last == ' ' || last == '\n' || last == '\t' {
		out += " "
	}
	return out
}

// wrapLongLines hard-wraps lines longer than width at the last space
// before the limit, or mid-word when there is none.
func wrapLongLines(s string, width int) string {
	if width < 1 {
		return s
	}
	var out []string
	for _, line := range strings.Split(s, "\n") {
		// Styled lines are left alone: cutting inside an SGR sequence would
		// corrupt it, and styled runs are short in practice.
		if strings.ContainsRune(line, 0x1b) {
			out = append(out, line)
			continue
		}
		for len(line) > width {
			cut := strings.LastIndexByte(line[:width], ' ')
			if cut <= 0 {
				cut = width
			}
			out = append(out, strings.TrimRight(line[:cut], " "))
			line = strings.TrimLeft(line[cut:], " ")
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}
