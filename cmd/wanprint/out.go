package main

import (
	"flag"
	"image"

	"github.com/nfnt/resize"

	"github.com/arcln/pmd-wan/imageprint"
)

var (
	col      = flag.Bool("col", true, "whether to use color at all")
	col256   = flag.Bool("col256", false, "whether to use 256 col instead of 24 bit")
	iterm    = flag.Bool("iterm", false, "whether to print with iterm escape code instead of 24 bit")
	rasterm  = flag.Bool("rasterm", false, "whether to print with rasterm (kitty, iterm, sixel)")
	blanks   = flag.Bool("blanks", true, "whether to just use colored blanks instead of some bad ascii art")
	downsize = flag.Bool("downsize", false, "whether to shrink the image to the terminal size first")
	scale    = flag.Uint("scale", 1, "integer upscale factor; sprites are tiny")
)

func out(img image.Image) {
	if *scale > 1 {
		b := img.Bounds()
		img = resize.Resize(uint(b.Dx())**scale, uint(b.Dy())**scale, img, resize.NearestNeighbor)
	}

	if *downsize {
		termSize, err := getTermSize()
		if err == nil {
			if (termSize.xPixel != 0 && termSize.yPixel != 0) && (*rasterm || *iterm) {
				// Prefer native size if there's a chance we print an image
				// rather than character cells.
				img = resize.Thumbnail(termSize.xPixel/2, termSize.yPixel/2, img, resize.Lanczos3)
			} else {
				img = resize.Thumbnail(termSize.rows/2, termSize.cols/2, img, resize.Lanczos3)
			}
		}
	}

	if *rasterm {
		imageprint.PrintRasTerm(img)
	} else if !*col {
		imageprint.PrintNoColor(img, *blanks)
	} else if *iterm {
		imageprint.PrintITerm(img, "image.png")
	} else if *col256 {
		imageprint.Print256Color(img, *blanks)
	} else {
		imageprint.Print24bit(img, *blanks)
	}
}
