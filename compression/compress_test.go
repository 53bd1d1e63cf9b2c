package compression_test

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xaionaro-go/bytesextra"

	"github.com/arcln/pmd-wan/compression"
)

// sink returns an in-memory write-seeker big enough for the worst case (no
// transparency at all), plus the backing storage to inspect afterwards.
func sink(pixelCount int) (io.ReadWriteSeeker, []byte) {
	storage := make([]byte, pixelCount/2)
	return bytesextra.NewReadWriteSeeker(storage), storage
}

func opaqueTile() []uint8 {
	tile := make([]uint8, compression.TilePixels)
	for i := range tile {
		tile[i] = uint8(i%15) + 1
	}
	return tile
}

func TestCompressOriginalAllTransparent(t *testing.T) {
	pixels := make([]uint8, compression.TilePixels)
	w, _ := sink(len(pixels))

	table, err := compression.Original().Compress(pixels, 1, w)
	require.NoError(t, err)

	require.Len(t, table, 1)
	assert.True(t, table[0].Filler)
	assert.Equal(t, uint64(64), table[0].PixelAmount)
	assert.Equal(t, uint64(32), table[0].ByteAmount)

	pos, err := w.Seek(0, io.SeekCurrent)
	require.NoError(t, err)
	assert.Zero(t, pos, "filler tiles must write no bytes")
}

func TestCompressNoneNoTransparency(t *testing.T) {
	pixels := opaqueTile()
	w, storage := sink(len(pixels))

	table, err := compression.NoCompression().Compress(pixels, 0, w)
	require.NoError(t, err)

	require.Len(t, table, 1)
	assert.False(t, table[0].Filler)
	assert.Equal(t, uint64(0), table[0].SourceOffset)
	assert.Equal(t, uint64(64), table[0].PixelAmount)
	assert.Equal(t, uint64(32), table[0].ByteAmount)

	// First pixel lands in the high nibble.
	assert.Equal(t, byte(pixels[0]<<4|pixels[1]), storage[0])
}

func TestCompressOriginalMergesTiles(t *testing.T) {
	var pixels []uint8
	pixels = append(pixels, opaqueTile()...)
	pixels = append(pixels, make([]uint8, 2*compression.TilePixels)...)
	w, _ := sink(len(pixels))

	table, err := compression.Original().Compress(pixels, 7, w)
	require.NoError(t, err)

	require.Len(t, table, 2)
	assert.False(t, table[0].Filler)
	assert.Equal(t, uint64(64), table[0].PixelAmount)
	assert.True(t, table[1].Filler, "adjacent null tiles should merge")
	assert.Equal(t, uint64(128), table[1].PixelAmount)
	assert.Equal(t, uint64(64), table[1].ByteAmount)
	assert.Equal(t, uint32(7), table[0].ZIndex)
}

func TestCompressOriginalRejectsUnalignedBuffer(t *testing.T) {
	w, _ := sink(32)
	_, err := compression.Original().Compress(make([]uint8, 32), 0, w)
	assert.ErrorIs(t, err, compression.ErrNotTileAligned)
}

func TestCompressRejectsOddPixelCount(t *testing.T) {
	w, _ := sink(4)
	_, err := compression.NoCompression().Compress(make([]uint8, 3), 0, w)
	assert.ErrorIs(t, err, compression.ErrOddPixelCount)
}

func TestCompressRejectsOutOfRangePixel(t *testing.T) {
	w, _ := sink(2)
	_, err := compression.NoCompression().Compress([]uint8{16, 0}, 0, w)
	assert.ErrorIs(t, err, compression.ErrPixelRange)
}

func TestOptimisedRejectsOddMultiple(t *testing.T) {
	w, _ := sink(64)
	_, err := compression.Optimised(3, 8).Compress(make([]uint8, 64), 0, w)
	assert.ErrorIs(t, err, compression.ErrBadStrategy)
}

func TestOptimisedTransparentRunsStayAligned(t *testing.T) {
	const multiple, minRun = 8, 6

	// Transparent spans of assorted lengths between opaque islands.
	var pixels []uint8
	for _, span := range []int{5, 9, 17, 40, 3} {
		pixels = append(pixels, 1, 2)
		pixels = append(pixels, make([]uint8, span)...)
	}
	if len(pixels)%2 != 0 {
		pixels = append(pixels, 1)
	}

	w, _ := sink(len(pixels))
	table, err := compression.Optimised(multiple, minRun).Compress(pixels, 0, w)
	require.NoError(t, err)

	for i, entry := range table {
		if !entry.Filler {
			continue
		}
		assert.Zerof(t, entry.PixelAmount%multiple, "filler entry %d has unaligned length %d", i, entry.PixelAmount)
	}
}

func TestOptimisedShortRunStaysLiteral(t *testing.T) {
	// The transparent run qualifies by length but trims to nothing against
	// the large alignment boundary, so it must be encoded literally instead
	// of looping forever or emitting an empty entry.
	pixels := []uint8{1, 1}
	pixels = append(pixels, make([]uint8, 30)...)
	pixels = append(pixels, 2, 2)

	w, _ := sink(len(pixels))
	table, err := compression.Optimised(64, 8).Compress(pixels, 0, w)
	require.NoError(t, err)

	require.Len(t, table, 1)
	assert.False(t, table[0].Filler)
	assert.Equal(t, uint64(len(pixels)), table[0].PixelAmount)
}

func TestOptimisedLiteralOffsetsFollowSink(t *testing.T) {
	const multiple, minRun = 2, 4

	var pixels []uint8
	pixels = append(pixels, 1, 2, 3, 4)
	pixels = append(pixels, make([]uint8, 8)...)
	pixels = append(pixels, 5, 6)

	w, storage := sink(len(pixels))
	table, err := compression.Optimised(multiple, minRun).Compress(pixels, 0, w)
	require.NoError(t, err)

	require.Len(t, table, 3)
	assert.Equal(t, uint64(0), table[0].SourceOffset)
	assert.True(t, table[1].Filler)
	assert.Equal(t, uint64(8), table[1].PixelAmount)
	assert.Equal(t, uint64(2), table[2].SourceOffset, "second literal starts right after the first one's bytes")
	assert.Equal(t, []byte{0x12, 0x34, 0x56}, bytes.TrimRight(storage, "\x00")[:3])
}
