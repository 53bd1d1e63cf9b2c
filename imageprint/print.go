// Package imageprint prints sprite images on terminal. UNSUPPORTED debug
// package.
//
// This package has an API with no stability guarantees.
package imageprint

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	ic "image/color"
	"image/png"

	"github.com/gookit/color"

	"github.com/arcln/pmd-wan/wan"
)

type dumper interface {
	Printf(s string, arg ...interface{})
}
type fmtDumperT struct{}

func (fmtDumperT) Printf(s string, arg ...interface{}) {
	fmt.Printf(s, arg...)
}

var fmtDumper fmtDumperT

func shade(col ic.Color, escapesTrueColor, blanks, noColor bool) {
	cR, cG, cB, cA := col.RGBA()
	if cA > 0 {
		var d dumper

		if noColor {
			d = &fmtDumper
		} else if escapesTrueColor {
			fmt.Printf("\x1b[48;2;%d;%d;%dm", uint8(cR>>8), uint8(cG>>8), uint8(cB>>8))
			d = &fmtDumper
		} else {
			d = color.RGB(uint8(cR>>8), uint8(cG>>8), uint8(cB>>8), true)
		}
		if blanks {
			d.Printf("  ")
		} else {
			a := ((cR + cG + cB) / 3) >> 8
			switch {
			case a < 32:
				d.Printf("..")
			case a < 64:
				d.Printf("--")
			case a < 128:
				d.Printf("==")
			default:
				d.Printf("##")
			}
		}

		if escapesTrueColor {
			fmt.Printf("\x1b[0m")
		}
	} else {
		// Transparent pixels come out dotted so sprite edges stay visible
		// against the terminal background.
		fmt.Printf("\x1b[0m. ")
	}
}

// Print256Color draws an image using 256color'd ascii art.
func Print256Color(i image.Image, blanks bool) {
	forEachPixel(i, func(col ic.Color) { shade(col, false, blanks, false) })
}

// Print24bit draws an image using 24bit color escape sequences by changing
// background.
func Print24bit(i image.Image, blanks bool) {
	forEachPixel(i, func(col ic.Color) { shade(col, true, blanks, false) })
}

// PrintNoColor draws an image without using color escape sequences. Only
// makes sense with blanks=false.
func PrintNoColor(i image.Image, blanks bool) {
	forEachPixel(i, func(col ic.Color) { shade(col, true, blanks, true) })
}

func forEachPixel(i image.Image, pixel func(ic.Color)) {
	for y := i.Bounds().Min.Y; y < i.Bounds().Max.Y; y++ {
		for x := i.Bounds().Min.X; x < i.Bounds().Max.X; x++ {
			pixel(i.At(x, y))
		}
		fmt.Printf("\x1b[0m\n")
	}
}

// PrintIndexed dumps a raw 4-bit pixel buffer as one hex digit per pixel,
// with transparent pixels as dots. Handy when the palette, not the pixel
// data, is under suspicion.
func PrintIndexed(pixels []uint8, res wan.FragmentResolution) {
	for y := 0; y < int(res.Y); y++ {
		for x := 0; x < int(res.X); x++ {
			p := pixels[y*int(res.X)+x]
			if p == 0 {
				fmt.Printf(".")
			} else {
				fmt.Printf("%x", p)
			}
		}
		fmt.Printf("\n")
	}
}

// PrintITerm draws an image using iTerm2's escape sequences.
//
// https://www.iterm2.com/documentation-images.html
func PrintITerm(i image.Image, fn string) {
	if !isTermItermWez() {
		return
	}
	name := base64.StdEncoding.EncodeToString([]byte(fn))
	b := &bytes.Buffer{}
	bEnc := base64.NewEncoder(base64.StdEncoding, b)
	png.Encode(bEnc, i)
	fmt.Printf("\n\033]1337;File=name=%s;inline=1;size=%d,width=%dpx;height=%dpx:%s\a\n", name, len(b.String()), i.Bounds().Size().X, i.Bounds().Size().Y, b.String())
}
