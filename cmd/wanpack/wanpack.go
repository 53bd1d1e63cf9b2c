// Command wanpack builds sprite archives out of PNG images.
//
// Each input image becomes one frame, in argument order, joined by a single
// animation. With -per_image, every input instead becomes its own
// single-frame archive, converted in parallel.
package main

import (
	"flag"
	"fmt"
	"image"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	"badc0de.net/pkg/flagutil/v1"

	"github.com/golang/glog"
	"golang.org/x/sync/errgroup"

	"github.com/arcln/pmd-wan/compression"
	"github.com/arcln/pmd-wan/imagetool"
	"github.com/arcln/pmd-wan/wan"
)

var (
	outPath    = flag.String("out", "out.wan", "path of the archive to write")
	spriteKind = flag.Int("sprite_type", int(wan.SpriteTypePropsUI), "sprite type to record in the archive")
	duration   = flag.Int("duration", 6, "animation frame duration in game ticks")
	strategy   = flag.String("compression", "original", "compression strategy: original, optimised or none")
	perImage   = flag.Bool("per_image", false, "write one single-frame archive per input instead of one archive")
)

func pickStrategy() (compression.Strategy, error) {
	switch *strategy {
	case "original":
		return compression.Original(), nil
	case "optimised":
		return compression.Optimised(compression.TilePixels, 2*compression.TileDimension), nil
	case "none":
		return compression.NoCompression(), nil
	}
	return compression.Strategy{}, fmt.Errorf("unknown compression strategy %q", *strategy)
}

func loadImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	return img, err
}

func writeArchive(w *wan.WanImage, strategy compression.Strategy, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := w.Encode(f, strategy); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func packOne(inputs []string, strategy compression.Strategy, outPath string) error {
	images := make([]image.Image, len(inputs))
	for i, path := range inputs {
		img, err := loadImage(path)
		if err != nil {
			return fmt.Errorf("could not read %s: %v", path, err)
		}
		images[i] = img
	}

	w, err := imagetool.CreateFromImages(images, wan.SpriteType(*spriteKind), uint8(*duration))
	if err != nil {
		return fmt.Errorf("could not build archive: %v", err)
	}
	if err := writeArchive(w, strategy, outPath); err != nil {
		return fmt.Errorf("could not write %s: %v", outPath, err)
	}
	glog.Infof("wrote %s: %d fragments, %d frames", outPath, len(w.ImageStore.Images), len(w.FrameStore.Frames))
	return nil
}

func main() {
	flagutil.Parse()
	flag.Set("logtostderr", "true")

	inputs := flag.Args()
	if len(inputs) == 0 {
		glog.Exit("no input images given")
	}
	strategy, err := pickStrategy()
	if err != nil {
		glog.Exit(err)
	}

	if !*perImage {
		if err := packOne(inputs, strategy, *outPath); err != nil {
			glog.Exit(err)
		}
		return
	}

	var g errgroup.Group
	g.SetLimit(4)
	for _, input := range inputs {
		input := input
		g.Go(func() error {
			out := strings.TrimSuffix(input, filepath.Ext(input)) + ".wan"
			return packOne([]string{input}, strategy, out)
		})
	}
	if err := g.Wait(); err != nil {
		glog.Exit(err)
	}
}
