package compression

import (
	"errors"
	"fmt"
	"io"

	"github.com/golang/glog"
)

// ErrBadStrategy is returned when a strategy's parameters cannot produce a
// replayable stream.
var ErrBadStrategy = errors.New("invalid compression strategy")

type strategyKind int

const (
	kindOriginal strategyKind = iota
	kindOptimised
	kindNone
)

// Strategy selects how a pixel buffer is turned into runs. The choice only
// affects how many entries and bytes come out; every resulting table replays
// through Decompress the same way.
type Strategy struct {
	kind strategyKind

	multipleOfValue   int
	minTransparentRun int
}

// Original compresses whole 8x8 tiles, the way the game's own assets are
// laid out: a tile is either written in full or skipped as a filler run, and
// adjacent tiles of equal kind merge into one entry.
func Original() Strategy {
	return Strategy{kind: kindOriginal}
}

// Optimised compresses at pixel granularity. A transparent run may open
// whenever the scan position is a multiple of multipleOfValue and at least
// minTransparentRun transparent pixels follow; the run is then extended
// greedily and trimmed back to the alignment boundary so later re-assembly
// stays aligned.
func Optimised(multipleOfValue, minTransparentRun int) Strategy {
	return Strategy{
		kind:              kindOptimised,
		multipleOfValue:   multipleOfValue,
		minTransparentRun: minTransparentRun,
	}
}

// NoCompression packs every pixel pair into a single literal entry. It is
// the fallback that is always correct, never smaller.
func NoCompression() Strategy {
	return Strategy{kind: kindNone}
}

func (s Strategy) String() string {
	switch s.kind {
	case kindOriginal:
		return "original"
	case kindOptimised:
		return fmt.Sprintf("optimised(%d,%d)", s.multipleOfValue, s.minTransparentRun)
	default:
		return "none"
	}
}

// Compress encodes pixels into sink and returns the assembly table that
// reconstructs them. The sink only ever receives sequential appends and
// position queries; on error, whatever was already appended must be
// discarded by the caller.
func (s Strategy) Compress(pixels []uint8, zIndex uint32, sink io.WriteSeeker) ([]AssemblyEntry, error) {
	if len(pixels)%2 != 0 {
		return nil, fmt.Errorf("%w: got %d pixels", ErrOddPixelCount, len(pixels))
	}

	var (
		table []AssemblyEntry
		err   error
	)
	switch s.kind {
	case kindOriginal:
		table, err = compressOriginal(pixels, zIndex, sink)
	case kindOptimised:
		table, err = s.compressOptimised(pixels, zIndex, sink)
	case kindNone:
		table, err = compressNone(pixels, zIndex, sink)
	}
	if err != nil {
		return nil, err
	}
	glog.V(3).Infof("compressed %d pixels into %d entries using %v", len(pixels), len(table), s)
	return table, nil
}

func sinkPosition(sink io.WriteSeeker) (uint64, error) {
	pos, err := sink.Seek(0, io.SeekCurrent)
	if err != nil {
		return 0, fmt.Errorf("querying sink position: %w", err)
	}
	return uint64(pos), nil
}

func allTransparent(pixels []uint8) bool {
	for _, p := range pixels {
		if p != 0 {
			return false
		}
	}
	return true
}

func compressOriginal(pixels []uint8, zIndex uint32, sink io.WriteSeeker) ([]AssemblyEntry, error) {
	if len(pixels)%TilePixels != 0 {
		return nil, fmt.Errorf("%w: got %d pixels", ErrNotTileAligned, len(pixels))
	}

	var table []AssemblyEntry
	var open *openRun

	for tile := 0; tile < len(pixels)/TilePixels; tile++ {
		area := pixels[tile*TilePixels : (tile+1)*TilePixels]
		null := allTransparent(area)

		pos, err := sinkPosition(sink)
		if err != nil {
			return nil, err
		}
		if !null {
			packed, err := PackPixels(area)
			if err != nil {
				return nil, fmt.Errorf("packing tile %d: %w", tile, err)
			}
			if _, err := sink.Write(packed); err != nil {
				return nil, fmt.Errorf("writing tile %d: %w", tile, err)
			}
		}

		// A nullity change closes the open entry and opens a new one;
		// otherwise the tile merges into the current run.
		if open == nil || open.filler != null {
			if open != nil {
				table = append(table, open.entry())
			}
			open = startRun(null, pos, zIndex)
		}
		open.advance(TilePixels)
	}
	if open != nil {
		table = append(table, open.entry())
	}
	return table, nil
}

func (s Strategy) compressOptimised(pixels []uint8, zIndex uint32, sink io.WriteSeeker) ([]AssemblyEntry, error) {
	multiple, minRun := s.multipleOfValue, s.minTransparentRun
	if multiple <= 0 || minRun <= 0 {
		return nil, fmt.Errorf("%w: multiple-of %d, min transparent run %d", ErrBadStrategy, multiple, minRun)
	}
	if multiple%2 != 0 {
		// An odd boundary would leave the literal stream between two runs
		// with an unpairable pixel.
		return nil, fmt.Errorf("%w: multiple-of value %d is odd", ErrBadStrategy, multiple)
	}

	includeStart, err := sinkPosition(sink)
	if err != nil {
		return nil, err
	}
	includeBytes := uint64(0)

	var table []AssemblyEntry

	flushLiteral := func() error {
		if includeBytes == 0 {
			return nil
		}
		table = append(table, AssemblyEntry{
			SourceOffset: includeStart,
			PixelAmount:  includeBytes * 2,
			ByteAmount:   includeBytes,
			ZIndex:       zIndex,
		})
		includeBytes = 0
		includeStart, err = sinkPosition(sink)
		return err
	}

	i := 0
	for {
		if i%multiple == 0 && i+minRun < len(pixels) && allTransparent(pixels[i:i+minRun]) {
			run := 0
			for i+run < len(pixels) && pixels[i+run] == 0 {
				run++
			}
			// Trim back to the alignment boundary; the remainder is
			// re-parked for literal encoding.
			run -= run % multiple
			if run > 0 {
				if err := flushLiteral(); err != nil {
					return nil, err
				}
				table = append(table, AssemblyEntry{
					PixelAmount: uint64(run),
					ByteAmount:  uint64(run) / 2,
					ZIndex:      zIndex,
					Filler:      true,
				})
				i += run
				continue
			}
			// The whole run trimmed away (multiple-of value larger than the
			// run itself): fall through and encode the pixels literally.
		}

		if i >= len(pixels) {
			break
		}
		b, err := packPair(pixels[i], pixels[i+1])
		if err != nil {
			return nil, fmt.Errorf("packing pixel pair at %d: %w", i, err)
		}
		if _, err := sink.Write([]byte{b}); err != nil {
			return nil, fmt.Errorf("writing pixel pair at %d: %w", i, err)
		}
		i += 2
		includeBytes++
	}
	if err := flushLiteral(); err != nil {
		return nil, err
	}
	return table, nil
}

func compressNone(pixels []uint8, zIndex uint32, sink io.WriteSeeker) ([]AssemblyEntry, error) {
	start, err := sinkPosition(sink)
	if err != nil {
		return nil, err
	}
	packed, err := PackPixels(pixels)
	if err != nil {
		return nil, err
	}
	if _, err := sink.Write(packed); err != nil {
		return nil, fmt.Errorf("writing pixel stream: %w", err)
	}
	return []AssemblyEntry{{
		SourceOffset: start,
		PixelAmount:  uint64(len(pixels)),
		ByteAmount:   uint64(len(packed)),
		ZIndex:       zIndex,
	}}, nil
}
