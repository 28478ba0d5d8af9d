// ABOUTME: Fast image dimension extraction from header bytes.
// ABOUTME: Parses PNG, JPEG, GIF, and WebP headers without a full decode.

package image

import (
	"encoding/binary"
	"fmt"
)

// Dimensions holds the width and height of an image in pixels.
type Dimensions struct {
	Width  int
	Height int
}

// GetDimensions extracts width and height from image header bytes.
// Supports PNG, JPEG, GIF, and WebP. Returns an error for unrecognized
// formats or truncated data.
func GetDimensions(data []byte) (Dimensions, error) {
	if len(data) < 8 {
		return Dimensions{}, fmt.Errorf("data too short (%d bytes)", len(data))
	}

	switch {
	case data[0] == 0x89 && data[1] == 'P' && data[2] == 'N' && data[3] == 'G':
		return pngDimensions(data)
	case data[0] == 0xFF && data[1] == 0xD8:
		return jpegDimensions(data)
	case data[0] == 'G' && data[1] == 'I' && data[2] == 'F':
		return gifDimensions(data)
	case len(data) >= 30 && string(data[0:4]) == "RIFF" && string(data[8:12]) == "WEBP":
		return webpDimensions(data)
	}
	return Dimensions{}, fmt.Errorf("unrecognized image format")
}

// pngDimensions reads width/height from the IHDR chunk.
func pngDimensions(data []byte) (Dimensions, error) {
	if len(data) < 24 {
		return Dimensions{}, fmt.Errorf("PNG data too short for IHDR")
	}
	return Dimensions{
		Width:  int(binary.BigEndian.Uint32(data[16:20])),
		Height: int(binary.BigEndian.Uint32(data[20:24])),
	}, nil
}

// jpegDimensions scans segment markers for a start-of-frame header.
func jpegDimensions(data []byte) (Dimensions, error) {
	i := 2
	for i < len(data)-1 {
		if data[i] != 0xFF {
			i++
			continue
		}
		marker := data[i+1]

		// SOF0, SOF1, SOF2 carry the frame dimensions.
		if marker >= 0xC0 && marker <= 0xC2 {
			if i+9 >= len(data) {
				return Dimensions{}, fmt.Errorf("JPEG SOF truncated")
			}
			return Dimensions{
				Height: int(binary.BigEndian.Uint16(data[i+5 : i+7])),
				Width:  int(binary.BigEndian.Uint16(data[i+7 : i+9])),
			}, nil
		}

		// Skip other segments by their declared length.
		if i+3 >= len(data) {
			break
		}
		if marker == 0xFF || marker == 0x00 || (marker >= 0xD0 && marker <= 0xD9) {
			i += 2
			continue
		}
		i += 2 + int(binary.BigEndian.Uint16(data[i+2:i+4]))
	}
	return Dimensions{}, fmt.Errorf("no JPEG SOF marker found")
}

// gifDimensions reads the logical screen descriptor (little-endian).
func gifDimensions(data []byte) (Dimensions, error) {
	if len(data) < 10 {
		return Dimensions{}, fmt.Errorf("GIF data too short")
	}
	return Dimensions{
		Width:  int(binary.LittleEndian.Uint16(data[6:8])),
		Height: int(binary.LittleEndian.Uint16(data[8:10])),
	}, nil
}

// webpDimensions handles the VP8, VP8L, and VP8X chunk variants.
func webpDimensions(data []byte) (Dimensions, error) {
	switch string(data[12:16]) {
	case "VP8 ":
		if len(data) < 30 {
			return Dimensions{}, fmt.Errorf("WebP VP8 data too short")
		}
		return Dimensions{
			Width:  int(binary.LittleEndian.Uint16(data[26:28]) & 0x3FFF),
			Height: int(binary.LittleEndian.Uint16(data[28:30]) & 0x3FFF),
		}, nil
	case "VP8L":
		if len(data) < 25 {
			return Dimensions{}, fmt.Errorf("WebP VP8L data too short")
		}
		bits := binary.LittleEndian.Uint32(data[21:25])
		return Dimensions{
			Width:  int(bits&0x3FFF) + 1,
			Height: int((bits>>14)&0x3FFF) + 1,
		}, nil
	case "VP8X":
		if len(data) < 30 {
			return Dimensions{}, fmt.Errorf("WebP VP8X data too short")
		}
		w := int(data[24]) | int(data[25])<<8 | int(data[26])<<16
		h := int(data[27]) | int(data[28])<<8 | int(data[29])<<16
		return Dimensions{Width: w + 1, Height: h + 1}, nil
	}
	return Dimensions{}, fmt.Errorf("unrecognized WebP variant")
}
