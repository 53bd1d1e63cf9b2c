// Package render paints decoded WAN frames and animations into image.Image
// values using the archive's palette.
//
// It only consumes the wan package's decoded data model; archive bytes never
// reach this layer.
package render

import (
	"fmt"
	"image"

	"github.com/golang/glog"

	"github.com/arcln/pmd-wan/wan"
)

// Frame paints one frame on a canvas just big enough for its fragments.
// Fragments paint in frame order, later ones over earlier ones; index 0
// pixels stay transparent.
func Frame(w *wan.WanImage, frameIndex int) (image.Image, error) {
	if frameIndex < 0 || frameIndex >= len(w.FrameStore.Frames) {
		return nil, fmt.Errorf("no frame %d, have %d", frameIndex, len(w.FrameStore.Frames))
	}
	frame := w.FrameStore.Frames[frameIndex]
	bounds, err := frameBounds(w, frame)
	if err != nil {
		return nil, err
	}
	img := image.NewRGBA(bounds)
	if err := paintFrame(img, w, frame, image.Point{}); err != nil {
		return nil, err
	}
	return img, nil
}

// Animation paints every frame of one animation onto identically sized
// canvases, so the results can feed an encoder for an animated format
// directly. It also returns each frame's duration in game ticks.
func Animation(w *wan.WanImage, animIndex int) ([]image.Image, []int, error) {
	if animIndex < 0 || animIndex >= len(w.AnimationStore.Animations) {
		return nil, nil, fmt.Errorf("no animation %d, have %d", animIndex, len(w.AnimationStore.Animations))
	}
	anim := w.AnimationStore.Animations[animIndex]

	// One shared canvas keeps the sprite steady while per-frame offsets
	// move it around.
	var bounds image.Rectangle
	for _, af := range anim.Frames {
		frame := w.FrameStore.Frames[af.FrameIndex]
		fb, err := frameBounds(w, frame)
		if err != nil {
			return nil, nil, err
		}
		bounds = bounds.Union(fb.Add(af.Offset))
	}
	glog.V(3).Infof("animation %d canvas: %v over %d frames", animIndex, bounds, len(anim.Frames))

	images := make([]image.Image, len(anim.Frames))
	durations := make([]int, len(anim.Frames))
	for i, af := range anim.Frames {
		img := image.NewRGBA(bounds)
		if err := paintFrame(img, w, w.FrameStore.Frames[af.FrameIndex], af.Offset); err != nil {
			return nil, nil, err
		}
		images[i] = img
		durations[i] = int(af.Duration)
	}
	return images, durations, nil
}

// Fragment paints one archived image through the palette, without any frame
// placement or flip applied.
func Fragment(w *wan.WanImage, imageIndex int) (image.Image, error) {
	if imageIndex < 0 || imageIndex >= len(w.ImageStore.Images) {
		return nil, fmt.Errorf("no image %d, have %d", imageIndex, len(w.ImageStore.Images))
	}
	ib := w.ImageStore.Images[imageIndex]
	img := image.NewRGBA(image.Rect(0, 0, int(ib.Resolution.X), int(ib.Resolution.Y)))
	width := int(ib.Resolution.X)
	for i, idx := range ib.Pixels {
		if idx == 0 {
			continue
		}
		img.Set(i%width, i/width, w.Palette.Color(idx))
	}
	return img, nil
}

func frameBounds(w *wan.WanImage, frame wan.Frame) (image.Rectangle, error) {
	var bounds image.Rectangle
	for _, fragment := range frame.Fragments {
		if fragment.ImageIndex < 0 || fragment.ImageIndex >= len(w.ImageStore.Images) {
			return image.Rectangle{}, fmt.Errorf("fragment references image %d, have %d",
				fragment.ImageIndex, len(w.ImageStore.Images))
		}
		res := w.ImageStore.Images[fragment.ImageIndex].Resolution
		rect := image.Rect(0, 0, int(res.X), int(res.Y)).Add(fragment.Offset)
		bounds = bounds.Union(rect)
	}
	return bounds, nil
}

func paintFrame(dst *image.RGBA, w *wan.WanImage, frame wan.Frame, shift image.Point) error {
	for _, fragment := range frame.Fragments {
		ib := w.ImageStore.Images[fragment.ImageIndex]
		pixels, err := fragment.Flip.Apply(ib.Pixels, ib.Resolution)
		if err != nil {
			return fmt.Errorf("flipping image %d: %v", fragment.ImageIndex, err)
		}
		width := int(ib.Resolution.X)
		for i, idx := range pixels {
			if idx == 0 {
				continue
			}
			x := fragment.Offset.X + shift.X + i%width
			y := fragment.Offset.Y + shift.Y + i/width
			dst.Set(x, y, w.Palette.Color(idx))
		}
	}
	return nil
}
