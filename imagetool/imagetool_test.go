package imagetool

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arcln/pmd-wan/wan"
)

var (
	red  = color.RGBA{R: 255, A: 255}
	blue = color.RGBA{B: 255, A: 255}
)

// squareImage draws an opaque square of the given color in the top-left
// corner of a transparent canvas.
func squareImage(canvas, square int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, canvas, canvas))
	for y := 0; y < square; y++ {
		for x := 0; x < square; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func TestQuantizeReservesTransparentIndex(t *testing.T) {
	pm := Quantize(squareImage(8, 4, red))

	assert.Equal(t, color.RGBA{}, pm.Palette[0])
	assert.LessOrEqual(t, len(pm.Palette), MaxPaletteColors)
	assert.Equal(t, uint8(0), pm.ColorIndexAt(7, 7))
	assert.NotEqual(t, uint8(0), pm.ColorIndexAt(0, 0))
}

func TestAddFrameSkipsTransparentTiles(t *testing.T) {
	asm := NewAssembler(wan.SpriteTypePropsUI)

	// A 16x16 canvas with a red 8x8 tile in the corner: one stored image,
	// one fragment, three tiles skipped.
	frame, err := asm.AddFrame(squareImage(16, 8, red))
	require.NoError(t, err)
	assert.Equal(t, 0, frame)

	w := asm.Result()
	require.Len(t, w.ImageStore.Images, 1)
	require.Len(t, w.FrameStore.Frames, 1)
	require.Len(t, w.FrameStore.Frames[0].Fragments, 1)
	assert.Equal(t, image.Pt(0, 0), w.FrameStore.Frames[0].Fragments[0].Offset)
}

func TestAddFrameReusesIdenticalTiles(t *testing.T) {
	asm := NewAssembler(wan.SpriteTypePropsUI)

	// A fully red 16x8 image is two identical tiles; only one image should
	// land in the store.
	img := image.NewRGBA(image.Rect(0, 0, 16, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 16; x++ {
			img.SetRGBA(x, y, red)
		}
	}
	_, err := asm.AddFrame(img)
	require.NoError(t, err)

	w := asm.Result()
	assert.Len(t, w.ImageStore.Images, 1)
	require.Len(t, w.FrameStore.Frames[0].Fragments, 2)
	assert.Equal(t, 0, w.FrameStore.Frames[0].Fragments[0].ImageIndex)
	assert.Equal(t, 0, w.FrameStore.Frames[0].Fragments[1].ImageIndex)
	assert.Equal(t, image.Pt(8, 0), w.FrameStore.Frames[0].Fragments[1].Offset)
}

func TestAddFrameReusesFlippedTiles(t *testing.T) {
	asm := NewAssembler(wan.SpriteTypePropsUI)

	// Left tile has a red stripe down its left edge, right tile down its
	// right edge: the right tile is the left one flipped horizontally.
	img := image.NewRGBA(image.Rect(0, 0, 16, 8))
	for y := 0; y < 8; y++ {
		img.SetRGBA(0, y, red)
		img.SetRGBA(15, y, red)
	}
	_, err := asm.AddFrame(img)
	require.NoError(t, err)

	w := asm.Result()
	assert.Len(t, w.ImageStore.Images, 1)
	require.Len(t, w.FrameStore.Frames[0].Fragments, 2)
	assert.Equal(t, wan.FlipNone, w.FrameStore.Frames[0].Fragments[0].Flip)
	assert.Equal(t, wan.FlipHorizontal, w.FrameStore.Frames[0].Fragments[1].Flip)
	assert.Equal(t, 0, w.FrameStore.Frames[0].Fragments[1].ImageIndex)
}

func TestAddFrameSharesTilesAcrossFrames(t *testing.T) {
	asm := NewAssembler(wan.SpriteTypePropsUI)

	first, err := asm.AddFrame(squareImage(8, 8, red))
	require.NoError(t, err)
	second, err := asm.AddFrame(squareImage(8, 8, red))
	require.NoError(t, err)
	assert.Equal(t, 0, first)
	assert.Equal(t, 1, second)

	w := asm.Result()
	assert.Len(t, w.ImageStore.Images, 1)
	assert.Equal(t, 0, w.FrameStore.Frames[1].Fragments[0].ImageIndex)
}

func TestPaletteGrowsAcrossFrames(t *testing.T) {
	asm := NewAssembler(wan.SpriteTypePropsUI)

	_, err := asm.AddFrame(squareImage(8, 8, red))
	require.NoError(t, err)
	_, err = asm.AddFrame(squareImage(8, 8, blue))
	require.NoError(t, err)

	w := asm.Result()
	require.Len(t, w.Palette.Colors, 3)
	assert.Equal(t, color.RGBA{}, w.Palette.Colors[0])
	assert.Equal(t, red, w.Palette.Colors[1])
	assert.Equal(t, blue, w.Palette.Colors[2])
}

func TestTooManyColors(t *testing.T) {
	asm := NewAssembler(wan.SpriteTypePropsUI)

	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			img.SetRGBA(x, y, color.RGBA{R: uint8(x * 16), G: uint8(y * 16), B: uint8(x + y), A: 255})
		}
	}
	_, err := asm.AddFrame(img)
	assert.ErrorIs(t, err, ErrTooManyColors)
}

func TestAddAnimationValidatesFrames(t *testing.T) {
	asm := NewAssembler(wan.SpriteTypeChara)
	frame, err := asm.AddFrame(squareImage(8, 8, red))
	require.NoError(t, err)

	anim, err := asm.AddAnimation([]int{frame, frame}, 4)
	require.NoError(t, err)
	assert.Equal(t, 0, anim)

	_, err = asm.AddAnimation([]int{5}, 4)
	assert.Error(t, err)

	w := asm.Result()
	require.Len(t, w.AnimationStore.Animations, 1)
	assert.Equal(t, uint8(4), w.AnimationStore.Animations[0].Frames[0].Duration)
}

func TestCreateFromImages(t *testing.T) {
	images := []image.Image{
		squareImage(8, 8, red),
		squareImage(8, 4, red),
	}
	w, err := CreateFromImages(images, wan.SpriteTypeChara, 6)
	require.NoError(t, err)

	assert.Equal(t, wan.SpriteTypeChara, w.SpriteType)
	assert.Len(t, w.FrameStore.Frames, 2)
	require.Len(t, w.AnimationStore.Animations, 1)
	assert.Len(t, w.AnimationStore.Animations[0].Frames, 2)

	_, err = CreateFromImages(nil, wan.SpriteTypeChara, 6)
	assert.Error(t, err)
}
