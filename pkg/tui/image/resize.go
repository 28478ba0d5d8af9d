// ABOUTME: Downscale pipeline for images too large to send to a terminal inline.
// ABOUTME: CatmullRom interpolation; falls back from PNG to JPEG when the size limit demands.

package image

import (
	"bytes"
	"fmt"
	goimage "image"
	"image/jpeg"
	"image/png"

	"golang.org/x/image/draw"
)

// Downscale shrinks image data to fit within maxDim pixels per side and
// maxBytes encoded size. It returns the new bytes, final dimensions, and
// MIME type. Data already within both limits passes through unchanged.
func Downscale(data []byte, maxDim, maxBytes int) ([]byte, Dimensions, string, error) {
	if len(data) == 0 {
		return nil, Dimensions{}, "", fmt.Errorf("empty image data")
	}

	dim, err := GetDimensions(data)
	if err != nil {
		return nil, Dimensions{}, "", fmt.Errorf("reading dimensions: %w", err)
	}
	if dim.Width <= maxDim && dim.Height <= maxDim && len(data) <= maxBytes {
		return data, dim, detectMIME(data), nil
	}

	img, _, err := goimage.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, Dimensions{}, "", fmt.Errorf("decoding image: %w", err)
	}

	targetW, targetH := fitDimensions(dim.Width, dim.Height, maxDim)

	// Encode at the fitted size; if still over budget, keep halving-ish.
	for _, scale := range []float64{1, 0.75, 0.5, 0.35, 0.25} {
		w := max(int(float64(targetW)*scale), 1)
		h := max(int(float64(targetH)*scale), 1)
		out, mime, err := encodeWithFallback(scaleImage(img, w, h), maxBytes)
		if err != nil {
			return nil, Dimensions{}, "", err
		}
		if len(out) <= maxBytes || scale == 0.25 {
			return out, Dimensions{Width: w, Height: h}, mime, nil
		}
	}
	// Unreachable: the loop returns on its last iteration.
	return nil, Dimensions{}, "", fmt.Errorf("downscale failed")
}

// fitDimensions shrinks (w, h) to fit within maxDim preserving aspect ratio.
func fitDimensions(w, h, maxDim int) (int, int) {
	if w <= maxDim && h <= maxDim {
		return w, h
	}
	if w >= h {
		return maxDim, max(h*maxDim/w, 1)
	}
	return max(w*maxDim/h, 1), maxDim
}

func scaleImage(src goimage.Image, w, h int) goimage.Image {
	if b := src.Bounds(); b.Dx() == w && b.Dy() == h {
		return src
	}
	dst := goimage.NewRGBA(goimage.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)
	return dst
}

// encodeWithFallback tries PNG first, then JPEG at decreasing quality.
func encodeWithFallback(img goimage.Image, maxBytes int) ([]byte, string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, "", fmt.Errorf("encoding PNG: %w", err)
	}
	if buf.Len() <= maxBytes {
		return buf.Bytes(), "image/png", nil
	}

	for _, q := range []int{85, 70, 55, 40} {
		buf.Reset()
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: q}); err != nil {
			return nil, "", fmt.Errorf("encoding JPEG: %w", err)
		}
		if buf.Len() <= maxBytes {
			break
		}
	}
	return buf.Bytes(), "image/jpeg", nil
}

// detectMIME returns a MIME type from magic bytes.
func detectMIME(data []byte) string {
	switch {
	case len(data) >= 4 && data[0] == 0x89 && data[1] == 'P' && data[2] == 'N' && data[3] == 'G':
		return "image/png"
	case len(data) >= 2 && data[0] == 0xFF && data[1] == 0xD8:
		return "image/jpeg"
	case len(data) >= 3 && data[0] == 'G' && data[1] == 'I' && data[2] == 'F':
		return "image/gif"
	case len(data) >= 12 && string(data[0:4]) == "RIFF" && string(data[8:12]) == "WEBP":
		return "image/webp"
	default:
		return "application/octet-stream"
	}
}
