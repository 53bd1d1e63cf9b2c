package compression

import (
	"errors"
	"fmt"
)

// ErrBadEntry is returned when an assembly entry violates the
// byte-amount/pixel-amount invariant.
var ErrBadEntry = errors.New("inconsistent assembly entry")

// AssemblyEntry describes one run of a compressed image.
//
// A filler entry stands for PixelAmount transparent pixels that were never
// written to the byte stream; its SourceOffset is meaningless. A literal
// entry covers ByteAmount bytes starting at SourceOffset in the stream,
// holding PixelAmount nibble-packed pixels.
//
// Filler-ness is carried as an explicit tag. Offset zero is a legitimate
// first-byte position and must never be read as "no offset".
type AssemblyEntry struct {
	SourceOffset uint64
	PixelAmount  uint64
	ByteAmount   uint64
	ZIndex       uint32
	Filler       bool
}

func (e AssemblyEntry) validate() error {
	if e.ByteAmount*2 != e.PixelAmount {
		return fmt.Errorf("%w: %d pixels but %d bytes", ErrBadEntry, e.PixelAmount, e.ByteAmount)
	}
	return nil
}

// openRun is the currently accumulating entry during compression. It is the
// explicit form of the two differently-shaped "open entry" cases: a filler
// run only grows a pixel count, a literal run additionally pins the stream
// offset its first byte was written at.
type openRun struct {
	filler bool
	offset uint64
	pixels uint64
	z      uint32
}

// start opens a fresh run at the given stream position. Filler runs ignore
// the position on replay but record it anyway so the transition function
// stays uniform.
func startRun(filler bool, offset uint64, z uint32) *openRun {
	return &openRun{filler: filler, offset: offset, z: z}
}

func (r *openRun) advance(pixels uint64) {
	r.pixels += pixels
}

func (r *openRun) entry() AssemblyEntry {
	offset := r.offset
	if r.filler {
		// The tag alone marks the run as unwritten; don't leak a stream
		// position that replay must never use.
		offset = 0
	}
	return AssemblyEntry{
		SourceOffset: offset,
		PixelAmount:  r.pixels,
		ByteAmount:   r.pixels / 2,
		ZIndex:       r.z,
		Filler:       r.filler,
	}
}
