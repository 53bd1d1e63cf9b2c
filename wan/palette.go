package wan

import (
	"image/color"
)

// Palette is the color table of an archive. Pixel value N looks up
// Colors[N]; index 0 is transparent regardless of the stored color, which
// the game's assets usually leave as black.
type Palette struct {
	Colors []color.RGBA
}

// Color resolves a 4-bit index to a drawable color. Index 0 and indices past
// the table resolve to fully transparent.
func (p Palette) Color(index uint8) color.Color {
	if index == 0 || int(index) >= len(p.Colors) {
		return color.RGBA{}
	}
	return p.Colors[index]
}
