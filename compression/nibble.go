package compression

import (
	"errors"
	"fmt"
)

// Tile geometry shared with the wan package. The Original strategy operates
// on whole 8x8 tiles; everything else only cares about pixel pairs.
const (
	TileDimension = 8
	TilePixels    = TileDimension * TileDimension
	TileBytes     = TilePixels / 2
)

var (
	// ErrOddPixelCount is returned when a pixel buffer cannot be split into
	// nibble pairs.
	ErrOddPixelCount = errors.New("pixel count is not even")
	// ErrPixelRange is returned when a color index does not fit in 4 bits.
	ErrPixelRange = errors.New("color index out of 4-bit range")
	// ErrNotTileAligned is returned by the Original strategy when the buffer
	// is not a whole number of 8x8 tiles.
	ErrNotTileAligned = errors.New("pixel count is not a multiple of the 8x8 tile size")
)

// packPair packs two color indices into one byte, first pixel in the high
// nibble.
func packPair(first, second uint8) (byte, error) {
	if first > 0x0f || second > 0x0f {
		return 0, fmt.Errorf("%w: got pair (%d, %d)", ErrPixelRange, first, second)
	}
	return first<<4 | second, nil
}

// PackPixels packs 4-bit color indices two per byte, first pixel of each pair
// in the high nibble.
func PackPixels(pixels []uint8) ([]byte, error) {
	if len(pixels)%2 != 0 {
		return nil, fmt.Errorf("%w: got %d pixels", ErrOddPixelCount, len(pixels))
	}
	packed := make([]byte, len(pixels)/2)
	for i := range packed {
		b, err := packPair(pixels[i*2], pixels[i*2+1])
		if err != nil {
			return nil, fmt.Errorf("packing pixel pair %d: %w", i, err)
		}
		packed[i] = b
	}
	return packed, nil
}

// UnpackPixels expands packed bytes back into color indices, high nibble
// first. It is the exact inverse of PackPixels.
func UnpackPixels(packed []byte) []uint8 {
	pixels := make([]uint8, len(packed)*2)
	for i, b := range packed {
		pixels[i*2] = b >> 4
		pixels[i*2+1] = b & 0x0f
	}
	return pixels
}
