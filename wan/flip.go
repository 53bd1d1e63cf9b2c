package wan

import "fmt"

// FragmentFlip mirrors an image when a frame places it. Flips are
// involutions, so the same flip maps a fragment to the candidate it matched
// and back.
type FragmentFlip uint8

const (
	FlipNone FragmentFlip = iota
	FlipHorizontal
	FlipVertical
	FlipBoth
)

// Flips lists every allowed transform, identity first. Fragment matching
// tries them in this order.
var Flips = [4]FragmentFlip{FlipNone, FlipHorizontal, FlipVertical, FlipBoth}

func (f FragmentFlip) String() string {
	switch f {
	case FlipNone:
		return "none"
	case FlipHorizontal:
		return "horizontal"
	case FlipVertical:
		return "vertical"
	case FlipBoth:
		return "both"
	default:
		return fmt.Sprintf("FragmentFlip(%d)", uint8(f))
	}
}

func (f FragmentFlip) horizontal() bool {
	return f == FlipHorizontal || f == FlipBoth
}

func (f FragmentFlip) vertical() bool {
	return f == FlipVertical || f == FlipBoth
}

// Apply returns a flipped copy of a row-major pixel buffer. FlipNone still
// copies, so callers may hold on to the result.
func (f FragmentFlip) Apply(pixels []uint8, res FragmentResolution) ([]uint8, error) {
	if len(pixels) != res.NbPixels() {
		return nil, fmt.Errorf("buffer has %d pixels, want %dx%d=%d",
			len(pixels), res.X, res.Y, res.NbPixels())
	}
	w, h := int(res.X), int(res.Y)
	out := make([]uint8, len(pixels))
	for y := 0; y < h; y++ {
		sy := y
		if f.vertical() {
			sy = h - 1 - y
		}
		for x := 0; x < w; x++ {
			sx := x
			if f.horizontal() {
				sx = w - 1 - x
			}
			out[y*w+x] = pixels[sy*w+sx]
		}
	}
	return out, nil
}
