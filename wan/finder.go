package wan

import (
	"bytes"
	"fmt"

	"github.com/golang/glog"
)

// FragmentMatch identifies an archived image that reproduces a candidate
// buffer once Flip is applied to it.
type FragmentMatch struct {
	ImageIndex int
	Flip       FragmentFlip
}

type libraryFragment struct {
	imageIndex int
	resolution FragmentResolution
	pixels     []uint8
}

// FragmentLibrary holds the canonical pixel buffers of every fragment an
// assembler has registered so far, in registration order. Lookup is a full
// linear scan; archive assembly is an offline batch job and libraries stay
// small, so a content-hash index would buy nothing yet.
type FragmentLibrary struct {
	fragments []libraryFragment
}

// Len returns how many fragments have been registered.
func (l *FragmentLibrary) Len() int {
	return len(l.fragments)
}

// Register adds a canonical buffer under the given image index. The buffer
// must already be tile-aligned; candidates get padded before comparison and
// could never match an unaligned canonical form.
func (l *FragmentLibrary) Register(imageIndex int, res FragmentResolution, pixels []uint8) error {
	if len(pixels) != res.NbPixels() {
		return fmt.Errorf("buffer has %d pixels, want %dx%d=%d", len(pixels), res.X, res.Y, res.NbPixels())
	}
	if res.X != roundUpToTile(res.X) || res.Y != roundUpToTile(res.Y) {
		return fmt.Errorf("canonical fragment resolution %dx%d is not tile aligned", res.X, res.Y)
	}
	canonical := make([]uint8, len(pixels))
	copy(canonical, pixels)
	l.fragments = append(l.fragments, libraryFragment{
		imageIndex: imageIndex,
		resolution: res,
		pixels:     canonical,
	})
	return nil
}

// FindMatchingFragment pads the candidate to the tile grid, then looks for a
// registered fragment whose canonical buffer is byte-identical to the
// candidate under one of the four flips. Earlier registrations win;
// identity is preferred over flipped matches for the same fragment. Not
// finding anything is a normal outcome, telling the caller to register the
// candidate as a new fragment.
func (l *FragmentLibrary) FindMatchingFragment(candidate []uint8, res FragmentResolution) (FragmentMatch, bool, error) {
	padded, paddedRes, err := PadToTileGrid(candidate, res)
	if err != nil {
		return FragmentMatch{}, false, fmt.Errorf("padding candidate: %v", err)
	}

	flipped := make(map[FragmentFlip][]uint8, len(Flips))
	for _, fragment := range l.fragments {
		if fragment.resolution != paddedRes {
			continue
		}
		for _, flip := range Flips {
			buf, ok := flipped[flip]
			if !ok {
				buf, err = flip.Apply(padded, paddedRes)
				if err != nil {
					return FragmentMatch{}, false, err
				}
				flipped[flip] = buf
			}
			if bytes.Equal(buf, fragment.pixels) {
				glog.V(3).Infof("candidate %dx%d matched image %d with flip %v",
					paddedRes.X, paddedRes.Y, fragment.imageIndex, flip)
				return FragmentMatch{ImageIndex: fragment.imageIndex, Flip: flip}, true, nil
			}
		}
	}
	return FragmentMatch{}, false, nil
}
