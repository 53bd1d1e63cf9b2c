// Package imagetool builds WAN archives out of ordinary Go images.
//
// It quantizes input images to the 16-color indexed form the archive
// stores, cuts them into 8x8 tiles, and reuses already-registered tiles
// (in any flip) instead of storing duplicates.
package imagetool

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/ericpauley/go-quantize/quantize"
	"github.com/golang/glog"
	"github.com/pkg/errors"

	"github.com/arcln/pmd-wan/compression"
	"github.com/arcln/pmd-wan/wan"
)

// MaxPaletteColors is the full palette size, transparent entry included.
const MaxPaletteColors = 16

// alphaThreshold decides which quantized pixels become the transparent
// index. Semi-transparent sources have no representation in the archive.
const alphaThreshold = 128

// ErrTooManyColors is returned when the input images need more opaque
// colors than a single palette can hold.
var ErrTooManyColors = fmt.Errorf("image needs more than %d palette colors", MaxPaletteColors-1)

// Quantize reduces an image to a paletted image with at most 15 opaque
// colors, with the transparent color at palette index 0.
func Quantize(img image.Image) *image.Paletted {
	pl := make(color.Palette, 0, MaxPaletteColors)
	pl = append(pl, color.RGBA{})

	q := quantize.MedianCutQuantizer{}
	pl = q.Quantize(pl, img)

	pm := image.NewPaletted(img.Bounds(), pl)
	draw.Draw(pm, img.Bounds(), img, img.Bounds().Min, draw.Over)
	return pm
}

// paletteBuilder allocates archive palette indices on first use of a color.
// Index 0 stays reserved for transparency.
type paletteBuilder struct {
	colors  []color.RGBA
	indices map[color.RGBA]uint8
}

func newPaletteBuilder() *paletteBuilder {
	return &paletteBuilder{
		colors:  []color.RGBA{{}},
		indices: map[color.RGBA]uint8{},
	}
}

func (pb *paletteBuilder) indexFor(c color.RGBA) (uint8, error) {
	if idx, ok := pb.indices[c]; ok {
		return idx, nil
	}
	if len(pb.colors) >= MaxPaletteColors {
		return 0, ErrTooManyColors
	}
	idx := uint8(len(pb.colors))
	pb.colors = append(pb.colors, c)
	pb.indices[c] = idx
	return idx, nil
}

// Assembler accumulates frames built from images into one WAN archive.
// The zero value is not usable; construct with NewAssembler.
type Assembler struct {
	wan     *wan.WanImage
	library wan.FragmentLibrary
	palette *paletteBuilder
}

// NewAssembler returns an assembler producing an archive of the given
// sprite type.
func NewAssembler(spriteType wan.SpriteType) *Assembler {
	return &Assembler{
		wan:     &wan.WanImage{SpriteType: spriteType},
		palette: newPaletteBuilder(),
	}
}

// AddFrame converts an image into one frame of the archive and returns the
// frame's index. Tiles already present in the archive, under any flip, are
// referenced instead of stored again.
func (a *Assembler) AddFrame(img image.Image) (int, error) {
	pixels, res, err := a.indexImage(img)
	if err != nil {
		return 0, errors.Wrap(err, "indexing frame image")
	}
	pixels, res, err = wan.PadToTileGrid(pixels, res)
	if err != nil {
		return 0, errors.Wrap(err, "padding frame image")
	}

	var frame wan.Frame
	tileRes := wan.FragmentResolution{X: compression.TileDimension, Y: compression.TileDimension}
	for ty := 0; ty < int(res.Y); ty += compression.TileDimension {
		for tx := 0; tx < int(res.X); tx += compression.TileDimension {
			tile := cutTile(pixels, res, tx, ty)
			if allTransparent(tile) {
				continue
			}

			match, found, err := a.library.FindMatchingFragment(tile, tileRes)
			if err != nil {
				return 0, errors.Wrapf(err, "matching tile at (%d, %d)", tx, ty)
			}
			if !found {
				match = wan.FragmentMatch{ImageIndex: len(a.wan.ImageStore.Images), Flip: wan.FlipNone}
				a.wan.ImageStore.Images = append(a.wan.ImageStore.Images, wan.ImageBytes{
					Resolution: tileRes,
					Pixels:     tile,
				})
				if err := a.library.Register(match.ImageIndex, tileRes, tile); err != nil {
					return 0, errors.Wrapf(err, "registering tile at (%d, %d)", tx, ty)
				}
			}
			frame.Fragments = append(frame.Fragments, wan.Fragment{
				ImageIndex: match.ImageIndex,
				Offset:     image.Pt(tx, ty),
				Flip:       match.Flip,
			})
		}
	}

	a.wan.FrameStore.Frames = append(a.wan.FrameStore.Frames, frame)
	glog.V(3).Infof("added frame %d: %d fragments, %d images in store",
		len(a.wan.FrameStore.Frames)-1, len(frame.Fragments), len(a.wan.ImageStore.Images))
	return len(a.wan.FrameStore.Frames) - 1, nil
}

// AddAnimation appends an animation playing the given frames, each for the
// same duration in game ticks, and returns its index.
func (a *Assembler) AddAnimation(frameIndices []int, duration uint8) (int, error) {
	anim := wan.Animation{Frames: make([]wan.AnimationFrame, len(frameIndices))}
	for i, fi := range frameIndices {
		if fi < 0 || fi >= len(a.wan.FrameStore.Frames) {
			return 0, fmt.Errorf("animation references frame %d, have %d", fi, len(a.wan.FrameStore.Frames))
		}
		anim.Frames[i] = wan.AnimationFrame{Duration: duration, FrameIndex: uint16(fi)}
	}
	a.wan.AnimationStore.Animations = append(a.wan.AnimationStore.Animations, anim)
	return len(a.wan.AnimationStore.Animations) - 1, nil
}

// Result finalizes the archive. The assembler must not be used afterwards.
func (a *Assembler) Result() *wan.WanImage {
	a.wan.Palette.Colors = a.palette.colors
	return a.wan
}

// indexImage converts an image to row-major palette indices, allocating
// palette entries as new colors appear. The input must already be reduced
// to at most 15 opaque colors; Quantize does that.
func (a *Assembler) indexImage(img image.Image) ([]uint8, wan.FragmentResolution, error) {
	bounds := img.Bounds()
	if bounds.Dx() > 0xffff || bounds.Dy() > 0xffff {
		return nil, wan.FragmentResolution{}, fmt.Errorf("image size %dx%d does not fit the archive", bounds.Dx(), bounds.Dy())
	}
	res := wan.FragmentResolution{X: uint16(bounds.Dx()), Y: uint16(bounds.Dy())}

	pixels := make([]uint8, res.NbPixels())
	i := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := color.RGBAModel.Convert(img.At(x, y)).(color.RGBA)
			if c.A < alphaThreshold {
				i++
				continue
			}
			idx, err := a.palette.indexFor(c)
			if err != nil {
				return nil, wan.FragmentResolution{}, err
			}
			pixels[i] = idx
			i++
		}
	}
	return pixels, res, nil
}

func cutTile(pixels []uint8, res wan.FragmentResolution, tx, ty int) []uint8 {
	tile := make([]uint8, compression.TilePixels)
	for y := 0; y < compression.TileDimension; y++ {
		row := (ty+y)*int(res.X) + tx
		copy(tile[y*compression.TileDimension:], pixels[row:row+compression.TileDimension])
	}
	return tile
}

func allTransparent(pixels []uint8) bool {
	for _, p := range pixels {
		if p != 0 {
			return false
		}
	}
	return true
}

// CreateFromImages builds a complete archive out of a sequence of images:
// one frame per image and a single animation playing them in order, each
// frame shown for duration game ticks.
func CreateFromImages(images []image.Image, spriteType wan.SpriteType, duration uint8) (*wan.WanImage, error) {
	if len(images) == 0 {
		return nil, fmt.Errorf("no images to build an archive from")
	}

	asm := NewAssembler(spriteType)
	frames := make([]int, len(images))
	for i, img := range images {
		fi, err := asm.AddFrame(Quantize(img))
		if err != nil {
			return nil, errors.Wrapf(err, "adding image %d", i)
		}
		frames[i] = fi
	}
	if _, err := asm.AddAnimation(frames, duration); err != nil {
		return nil, errors.Wrap(err, "adding animation")
	}
	return asm.Result(), nil
}
