package wan

import (
	"fmt"
	"image"

	"github.com/arcln/pmd-wan/compression"
)

// FragmentResolution is the pixel size of one archived image.
type FragmentResolution struct {
	X, Y uint16
}

// NbPixels returns the number of pixels an image of this resolution holds.
func (r FragmentResolution) NbPixels() int {
	return int(r.X) * int(r.Y)
}

// ImageBytes is the decoded pixel buffer of one archived image: row-major
// 4-bit color indices, index 0 transparent. The buffer is rebuilt in full by
// the decoder and handed to the compressor as-is; nothing mutates it in
// place.
type ImageBytes struct {
	Resolution FragmentResolution
	ZIndex     uint32
	Pixels     []uint8
}

func (b ImageBytes) validate() error {
	if len(b.Pixels) != b.Resolution.NbPixels() {
		return fmt.Errorf("image has %d pixels, want %dx%d=%d",
			len(b.Pixels), b.Resolution.X, b.Resolution.Y, b.Resolution.NbPixels())
	}
	return nil
}

// ImageStore holds every pixel image of an archive, in directory order.
// Fragments reference images by index into this store.
type ImageStore struct {
	Images []ImageBytes
}

// Fragment places one archived image inside a frame.
type Fragment struct {
	ImageIndex int
	Offset     image.Point
	Flip       FragmentFlip
}

// PadToTileGrid appends transparent pixels on the trailing edges of a pixel
// buffer so both dimensions become multiples of the engine's 8-pixel tile
// unit. Existing pixels keep their relative order; nothing is inserted
// before them on any row.
func PadToTileGrid(pixels []uint8, res FragmentResolution) ([]uint8, FragmentResolution, error) {
	if len(pixels) != res.NbPixels() {
		return nil, FragmentResolution{}, fmt.Errorf("buffer has %d pixels, want %dx%d=%d",
			len(pixels), res.X, res.Y, res.NbPixels())
	}
	padded := FragmentResolution{X: roundUpToTile(res.X), Y: roundUpToTile(res.Y)}
	if padded == res {
		return pixels, res, nil
	}
	out := make([]uint8, padded.NbPixels())
	for y := 0; y < int(res.Y); y++ {
		copy(out[y*int(padded.X):], pixels[y*int(res.X):(y+1)*int(res.X)])
	}
	return out, padded, nil
}

func roundUpToTile(v uint16) uint16 {
	const tile = compression.TileDimension
	return (v + tile - 1) / tile * tile
}
