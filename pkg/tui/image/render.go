// ABOUTME: High-level image rendering dispatcher.
// ABOUTME: Routes to kitty, iTerm2, or half-block output based on the chosen protocol.

package image

import (
	"bytes"
	"fmt"
	goimage "image"
	"image/png"

	// Register decoders for standard formats.
	_ "image/gif"
	_ "image/jpeg"

	_ "golang.org/x/image/webp"
)

const (
	// MaxFileSize is the largest payload sent inline to a terminal (4.5 MB).
	MaxFileSize = 4_500_000
	// MaxDimension is the maximum width or height in pixels before downscale.
	MaxDimension = 2000
)

// Sizing carries the geometry needed to size an image in terminal cells.
// CellWidth/CellHeight come from the probed character cell pixel size.
type Sizing struct {
	MaxCols    int
	CellWidth  int
	CellHeight int
}

// Render produces terminal-ready output lines for the given image data
// using the chosen protocol:
//   - kitty: ensures PNG, emits the chunked graphics sequence (single line)
//   - iTerm2: emits OSC 1337 (single line)
//   - none: decodes and renders half-block ANSI art (multiple lines)
//
// Half-block decode failures degrade to a text placeholder, never an error.
func Render(data []byte, proto Protocol, s Sizing) ([]string, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("empty image data")
	}
	if len(data) > MaxFileSize {
		shrunk, _, _, err := Downscale(data, MaxDimension, MaxFileSize)
		if err != nil {
			return nil, fmt.Errorf("shrinking oversized image: %w", err)
		}
		data = shrunk
	}

	switch proto {
	case ProtoKitty:
		return renderKitty(data, s)
	case ProtoITerm2:
		return []string{EncodeITerm2(data, fmt.Sprintf("%d", s.MaxCols))}, nil
	default:
		return renderHalfBlock(data, s.MaxCols)
	}
}

// CellExtent returns the cell columns and rows an image of the given pixel
// dimensions occupies under a sizing, capped at MaxCols.
func CellExtent(dim Dimensions, s Sizing) (cols, rows int) {
	cellW := s.CellWidth
	cellH := s.CellHeight
	if cellW < 1 {
		cellW = 1
	}
	if cellH < 1 {
		cellH = 1
	}
	cols = (dim.Width + cellW - 1) / cellW
	rows = (dim.Height + cellH - 1) / cellH
	if s.MaxCols > 0 && cols > s.MaxCols {
		rows = rows * s.MaxCols / cols
		cols = s.MaxCols
	}
	return max(cols, 1), max(rows, 1)
}

func renderKitty(data []byte, s Sizing) ([]string, error) {
	pngData, err := ensurePNG(data)
	if err != nil {
		return nil, fmt.Errorf("preparing PNG for kitty: %w", err)
	}
	dim, err := GetDimensions(pngData)
	if err != nil || dim.Width < 1 || dim.Height < 1 {
		dim = Dimensions{Width: s.MaxCols * s.CellWidth, Height: s.MaxCols * s.CellHeight}
	}
	cols, rows := CellExtent(dim, s)
	return []string{EncodeKitty(pngData, cols, rows)}, nil
}

func renderHalfBlock(data []byte, maxCols int) ([]string, error) {
	img, _, err := goimage.Decode(bytes.NewReader(data))
	if err != nil {
		dim, _ := GetDimensions(data)
		return []string{fmt.Sprintf("[image %dx%d]", dim.Width, dim.Height)}, nil
	}
	lines := RenderHalfBlock(img, maxCols)
	if len(lines) == 0 {
		return []string{"[image]"}, nil
	}
	return lines, nil
}

// ensurePNG re-encodes the image as PNG if it isn't already.
func ensurePNG(data []byte) ([]byte, error) {
	if len(data) >= 4 && data[0] == 0x89 && data[1] == 'P' && data[2] == 'N' && data[3] == 'G' {
		return data, nil
	}
	img, _, err := goimage.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding for PNG conversion: %w", err)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encoding PNG: %w", err)
	}
	return buf.Bytes(), nil
}
