package wan

// This file contains code directly related to writing the wan archive
// directory back out.

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/golang/glog"

	"github.com/arcln/pmd-wan/compression"
)

// Encode writes the archive to the passed writer using the given
// compression strategy for every image. The strategy is the caller's
// choice and is not recorded in the archive; any table replays the same
// way on decode.
//
// The writer must start at the archive's first byte: table offsets are
// absolute, and the header is rewritten in place at the end.
func (w *WanImage) Encode(ws io.WriteSeeker, strategy compression.Strategy) error {
	if err := w.validateForEncode(); err != nil {
		return err
	}

	h := header{
		Signature:        Signature,
		Version:          formatVersion,
		SpriteType:       uint16(w.SpriteType),
		ImageCount:       uint16(len(w.ImageStore.Images)),
		FrameCount:       uint16(len(w.FrameStore.Frames)),
		AnimationCount:   uint16(len(w.AnimationStore.Animations)),
		PaletteLen:       uint16(len(w.Palette.Colors)),
		FrameOffsetCount: uint16(len(w.FrameOffsets)),
	}

	// Reserve the header; the pixel data region starts right behind it.
	if err := binary.Write(ws, binary.LittleEndian, &h); err != nil {
		return fmt.Errorf("could not reserve wan header: %v", err)
	}

	tables := make([][]compression.AssemblyEntry, len(w.ImageStore.Images))
	for i, img := range w.ImageStore.Images {
		table, err := strategy.Compress(img.Pixels, img.ZIndex, ws)
		if err != nil {
			return fmt.Errorf("could not compress image %d: %v", i, err)
		}
		tables[i] = table
	}

	var err error
	if h.ImageTableOff, err = w.encodeImageTable(ws, tables); err != nil {
		return err
	}
	if h.FrameTableOff, err = w.encodeFrameTable(ws); err != nil {
		return err
	}
	if h.AnimTableOff, err = w.encodeAnimationTable(ws); err != nil {
		return err
	}
	if h.FrameOffsetsOff, err = w.encodeFrameOffsets(ws); err != nil {
		return err
	}
	if h.PaletteOff, err = w.encodePalette(ws); err != nil {
		return err
	}

	if _, err := ws.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("could not seek back to wan header: %v", err)
	}
	if err := binary.Write(ws, binary.LittleEndian, &h); err != nil {
		return fmt.Errorf("could not write wan header: %v", err)
	}
	glog.V(3).Infof("encoded wan: %d images, %d frames, %d animations using %v",
		h.ImageCount, h.FrameCount, h.AnimationCount, strategy)
	return nil
}

func (w *WanImage) validateForEncode() error {
	for _, n := range []int{
		len(w.ImageStore.Images), len(w.FrameStore.Frames),
		len(w.AnimationStore.Animations), len(w.Palette.Colors), len(w.FrameOffsets),
	} {
		if n > math.MaxUint16 {
			return fmt.Errorf("table with %d entries does not fit the directory", n)
		}
	}
	if len(w.FrameOffsets) != 0 && len(w.FrameOffsets) != len(w.FrameStore.Frames) {
		return fmt.Errorf("got %d frame offsets, want 0 or %d", len(w.FrameOffsets), len(w.FrameStore.Frames))
	}
	for i, img := range w.ImageStore.Images {
		if err := img.validate(); err != nil {
			return fmt.Errorf("image %d: %v", i, err)
		}
	}
	for i, frame := range w.FrameStore.Frames {
		for j, fragment := range frame.Fragments {
			if fragment.ImageIndex < 0 || fragment.ImageIndex >= len(w.ImageStore.Images) {
				return fmt.Errorf("frame %d fragment %d references image %d, have %d",
					i, j, fragment.ImageIndex, len(w.ImageStore.Images))
			}
		}
	}
	for i, anim := range w.AnimationStore.Animations {
		for j, frame := range anim.Frames {
			if int(frame.FrameIndex) >= len(w.FrameStore.Frames) {
				return fmt.Errorf("animation %d frame %d references frame %d, have %d",
					i, j, frame.FrameIndex, len(w.FrameStore.Frames))
			}
		}
	}
	return nil
}

func tableStart(ws io.WriteSeeker, what string) (uint32, error) {
	pos, err := ws.Seek(0, io.SeekCurrent)
	if err != nil {
		return 0, fmt.Errorf("could not position %s: %v", what, err)
	}
	if pos > math.MaxUint32 {
		return 0, fmt.Errorf("%s starts past the 4 GiB directory limit", what)
	}
	return uint32(pos), nil
}

func (w *WanImage) encodeImageTable(ws io.WriteSeeker, tables [][]compression.AssemblyEntry) (uint32, error) {
	off, err := tableStart(ws, "image table")
	if err != nil {
		return 0, err
	}
	for i, img := range w.ImageStore.Images {
		head := diskImageHead{
			ResX:       img.Resolution.X,
			ResY:       img.Resolution.Y,
			ZIndex:     img.ZIndex,
			EntryCount: uint16(len(tables[i])),
		}
		if err := binary.Write(ws, binary.LittleEndian, &head); err != nil {
			return 0, fmt.Errorf("could not write image %d directory entry: %v", i, err)
		}
		for j, entry := range tables[i] {
			var flags uint32
			if entry.Filler {
				flags |= fillerFlag
			}
			e := diskAssemblyEntry{
				Flags:        flags,
				SourceOffset: entry.SourceOffset,
				PixelAmount:  entry.PixelAmount,
			}
			if err := binary.Write(ws, binary.LittleEndian, &e); err != nil {
				return 0, fmt.Errorf("could not write image %d assembly entry %d: %v", i, j, err)
			}
		}
	}
	return off, nil
}

func (w *WanImage) encodeFrameTable(ws io.WriteSeeker) (uint32, error) {
	off, err := tableStart(ws, "frame table")
	if err != nil {
		return 0, err
	}
	for i, frame := range w.FrameStore.Frames {
		if err := binary.Write(ws, binary.LittleEndian, uint16(len(frame.Fragments))); err != nil {
			return 0, fmt.Errorf("could not write frame %d fragment count: %v", i, err)
		}
		for j, fragment := range frame.Fragments {
			f := diskFragment{
				ImageIndex: uint16(fragment.ImageIndex),
				OffsetX:    int16(fragment.Offset.X),
				OffsetY:    int16(fragment.Offset.Y),
				Flip:       uint8(fragment.Flip),
			}
			if err := binary.Write(ws, binary.LittleEndian, &f); err != nil {
				return 0, fmt.Errorf("could not write frame %d fragment %d: %v", i, j, err)
			}
		}
	}
	return off, nil
}

func (w *WanImage) encodeAnimationTable(ws io.WriteSeeker) (uint32, error) {
	off, err := tableStart(ws, "animation table")
	if err != nil {
		return 0, err
	}
	for i, anim := range w.AnimationStore.Animations {
		if err := binary.Write(ws, binary.LittleEndian, uint16(len(anim.Frames))); err != nil {
			return 0, fmt.Errorf("could not write animation %d frame count: %v", i, err)
		}
		for j, frame := range anim.Frames {
			f := diskAnimationFrame{
				FrameIndex: frame.FrameIndex,
				Duration:   frame.Duration,
				OffsetX:    int16(frame.Offset.X),
				OffsetY:    int16(frame.Offset.Y),
				ShiftX:     int16(frame.ShiftOffset.X),
				ShiftY:     int16(frame.ShiftOffset.Y),
			}
			if err := binary.Write(ws, binary.LittleEndian, &f); err != nil {
				return 0, fmt.Errorf("could not write animation %d frame %d: %v", i, j, err)
			}
		}
	}
	return off, nil
}

func (w *WanImage) encodeFrameOffsets(ws io.WriteSeeker) (uint32, error) {
	off, err := tableStart(ws, "frame offset table")
	if err != nil {
		return 0, err
	}
	for i, o := range w.FrameOffsets {
		d := diskFrameOffset{
			HeadX: int16(o.Head.X), HeadY: int16(o.Head.Y),
			LeftHandX: int16(o.LeftHand.X), LeftHandY: int16(o.LeftHand.Y),
			RightHandX: int16(o.RightHand.X), RightHandY: int16(o.RightHand.Y),
			CenterX: int16(o.Center.X), CenterY: int16(o.Center.Y),
		}
		if err := binary.Write(ws, binary.LittleEndian, &d); err != nil {
			return 0, fmt.Errorf("could not write frame offset %d: %v", i, err)
		}
	}
	return off, nil
}

func (w *WanImage) encodePalette(ws io.WriteSeeker) (uint32, error) {
	off, err := tableStart(ws, "palette")
	if err != nil {
		return 0, err
	}
	for i, c := range w.Palette.Colors {
		d := diskColor{R: c.R, G: c.G, B: c.B, A: c.A}
		if err := binary.Write(ws, binary.LittleEndian, &d); err != nil {
			return 0, fmt.Errorf("could not write palette color %d: %v", i, err)
		}
	}
	return off, nil
}
