// ABOUTME: ANSI half-block character fallback renderer for terminals without image protocols.
// ABOUTME: Uses U+2584 with truecolor fg/bg escapes to double vertical resolution.

package image

import (
	"fmt"
	goimage "image"
	"strings"

	"golang.org/x/image/draw"
)

// RenderHalfBlock converts an image to ANSI art using the lower-half block
// character: for every two pixel rows the background carries the top pixel
// color and the foreground the bottom one. The image is scaled to maxCols
// width preserving aspect ratio.
func RenderHalfBlock(img goimage.Image, maxCols int) []string {
	bounds := img.Bounds()
	srcW := bounds.Dx()
	srcH := bounds.Dy()
	if srcW == 0 || srcH == 0 || maxCols == 0 {
		return nil
	}

	targetW := srcW
	targetH := srcH
	if targetW > maxCols {
		targetH = targetH * maxCols / targetW
		targetW = maxCols
	}
	targetW = max(targetW, 1)
	targetH = max(targetH, 1)

	var scaled goimage.Image
	if targetW != srcW || targetH != srcH {
		dst := goimage.NewRGBA(goimage.Rect(0, 0, targetW, targetH))
		draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
		scaled = dst
	} else {
		scaled = img
	}

	var lines []string
	for y := 0; y < targetH; y += 2 {
		var b strings.Builder
		for x := range targetW {
			topR, topG, topB := rgbAt(scaled, x, y)

			var botR, botG, botB uint8
			if y+1 < targetH {
				botR, botG, botB = rgbAt(scaled, x, y+1)
			}

			fmt.Fprintf(&b, "\x1b[48;2;%d;%d;%dm\x1b[38;2;%d;%d;%dm▄",
				topR, topG, topB, botR, botG, botB)
		}
		b.WriteString("\x1b[0m")
		lines = append(lines, b.String())
	}
	return lines
}

// rgbAt extracts the 8-bit RGB components of the pixel at (x, y).
func rgbAt(img goimage.Image, x, y int) (uint8, uint8, uint8) {
	r, g, b, _ := img.At(x, y).RGBA()
	return uint8(r >> 8), uint8(g >> 8), uint8(b >> 8)
}
