package compression

import (
	"errors"
	"fmt"
	"io"
)

// ErrLengthMismatch is returned when replaying an assembly table does not
// yield the expected number of pixels.
var ErrLengthMismatch = errors.New("reconstructed pixel count differs from expected")

// Decompress replays an assembly table against the byte stream the image was
// compressed into and rebuilds the flat pixel buffer. Filler entries expand
// to transparent pixels without reading the source.
func Decompress(entries []AssemblyEntry, source io.ReadSeeker, expectedPixelAmount uint64) ([]uint8, error) {
	pixels := make([]uint8, 0, expectedPixelAmount)

	for i, entry := range entries {
		if err := entry.validate(); err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
		if entry.Filler {
			pixels = append(pixels, make([]uint8, entry.PixelAmount)...)
			continue
		}
		if _, err := source.Seek(int64(entry.SourceOffset), io.SeekStart); err != nil {
			return nil, fmt.Errorf("seeking to pixel run at %d: %w", entry.SourceOffset, err)
		}
		packed := make([]byte, entry.ByteAmount)
		if _, err := io.ReadFull(source, packed); err != nil {
			return nil, fmt.Errorf("reading %d-byte pixel run at %d: %w", entry.ByteAmount, entry.SourceOffset, err)
		}
		pixels = append(pixels, UnpackPixels(packed)...)
	}

	if uint64(len(pixels)) != expectedPixelAmount {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrLengthMismatch, len(pixels), expectedPixelAmount)
	}
	return pixels, nil
}
