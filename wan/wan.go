package wan

// This file contains code directly related to decoding the
// wan archive directory.

import (
	"encoding/binary"
	"fmt"
	"image"
	"image/color"
	"io"

	"github.com/golang/glog"

	"github.com/arcln/pmd-wan/compression"
)

// Signature identifies a WAN archive; on disk it reads "WAN\0".
const Signature = 0x004e4157

// formatVersion is bumped when the directory layout changes.
const formatVersion = 1

// WanImage is a fully decoded archive: every pixel image materialized,
// every frame and animation parsed, the palette loaded.
type WanImage struct {
	SpriteType     SpriteType
	ImageStore     ImageStore
	FrameStore     FrameStore
	FrameOffsets   []FrameOffset
	AnimationStore AnimationStore
	Palette        Palette
}

// header is the fixed-size archive directory. All table offsets are
// absolute file positions.
type header struct {
	Signature        uint32
	Version          uint16
	SpriteType       uint16
	ImageCount       uint16
	FrameCount       uint16
	AnimationCount   uint16
	PaletteLen       uint16
	FrameOffsetCount uint16
	Pad              uint16
	ImageTableOff    uint32
	FrameTableOff    uint32
	AnimTableOff     uint32
	PaletteOff       uint32
	FrameOffsetsOff  uint32
}

// On-disk shapes of the directory tables. Assembly entries carry an
// explicit filler flag; byte counts are derived, never stored.
type (
	diskImageHead struct {
		ResX       uint16
		ResY       uint16
		ZIndex     uint32
		EntryCount uint16
		Pad        uint16
	}
	diskAssemblyEntry struct {
		Flags        uint32
		SourceOffset uint64
		PixelAmount  uint64
	}
	diskFragment struct {
		ImageIndex uint16
		OffsetX    int16
		OffsetY    int16
		Flip       uint8
		Pad        uint8
	}
	diskAnimationFrame struct {
		FrameIndex uint16
		Duration   uint8
		Pad        uint8
		OffsetX    int16
		OffsetY    int16
		ShiftX     int16
		ShiftY     int16
	}
	diskFrameOffset struct {
		HeadX, HeadY           int16
		LeftHandX, LeftHandY   int16
		RightHandX, RightHandY int16
		CenterX, CenterY       int16
	}
	diskColor struct {
		R, G, B, A uint8
	}
)

const fillerFlag = 1 << 0

// Decode reads a whole WAN archive from the passed reader, which must be
// positioned at the start of the archive.
func Decode(r io.ReadSeeker) (*WanImage, error) {
	var h header
	if err := binary.Read(r, binary.LittleEndian, &h); err != nil {
		return nil, fmt.Errorf("could not read wan header: %v", err)
	}
	if h.Signature != Signature {
		return nil, fmt.Errorf("bad wan signature: got %08x, want %08x", h.Signature, Signature)
	}
	if h.Version != formatVersion {
		return nil, fmt.Errorf("unsupported wan version: got %d, want %d", h.Version, formatVersion)
	}
	glog.V(3).Infof("wan header: %d images, %d frames, %d animations, %d palette colors",
		h.ImageCount, h.FrameCount, h.AnimationCount, h.PaletteLen)

	w := &WanImage{SpriteType: SpriteType(h.SpriteType)}

	if err := w.decodeImages(r, h); err != nil {
		return nil, err
	}
	if err := w.decodeFrames(r, h); err != nil {
		return nil, err
	}
	if err := w.decodeAnimations(r, h); err != nil {
		return nil, err
	}
	if err := w.decodeFrameOffsets(r, h); err != nil {
		return nil, err
	}
	if err := w.decodePalette(r, h); err != nil {
		return nil, err
	}
	return w, nil
}

func (w *WanImage) decodeImages(r io.ReadSeeker, h header) error {
	if _, err := r.Seek(int64(h.ImageTableOff), io.SeekStart); err != nil {
		return fmt.Errorf("could not seek to image table: %v", err)
	}

	// The assembly tables are slurped in one pass; decompression seeks all
	// over the pixel data region, so it runs afterwards.
	type pendingImage struct {
		resolution FragmentResolution
		zIndex     uint32
		entries    []compression.AssemblyEntry
	}
	pending := make([]pendingImage, h.ImageCount)
	for i := range pending {
		var head diskImageHead
		if err := binary.Read(r, binary.LittleEndian, &head); err != nil {
			return fmt.Errorf("could not read image %d directory entry: %v", i, err)
		}
		p := pendingImage{
			resolution: FragmentResolution{X: head.ResX, Y: head.ResY},
			zIndex:     head.ZIndex,
			entries:    make([]compression.AssemblyEntry, head.EntryCount),
		}
		for j := range p.entries {
			var e diskAssemblyEntry
			if err := binary.Read(r, binary.LittleEndian, &e); err != nil {
				return fmt.Errorf("could not read image %d assembly entry %d: %v", i, j, err)
			}
			p.entries[j] = compression.AssemblyEntry{
				SourceOffset: e.SourceOffset,
				PixelAmount:  e.PixelAmount,
				ByteAmount:   e.PixelAmount / 2,
				ZIndex:       head.ZIndex,
				Filler:       e.Flags&fillerFlag != 0,
			}
		}
		pending[i] = p
	}

	w.ImageStore.Images = make([]ImageBytes, len(pending))
	for i, p := range pending {
		pixels, err := compression.Decompress(p.entries, r, uint64(p.resolution.NbPixels()))
		if err != nil {
			return fmt.Errorf("could not decompress image %d: %v", i, err)
		}
		w.ImageStore.Images[i] = ImageBytes{
			Resolution: p.resolution,
			ZIndex:     p.zIndex,
			Pixels:     pixels,
		}
	}
	return nil
}

func (w *WanImage) decodeFrames(r io.ReadSeeker, h header) error {
	if _, err := r.Seek(int64(h.FrameTableOff), io.SeekStart); err != nil {
		return fmt.Errorf("could not seek to frame table: %v", err)
	}
	w.FrameStore.Frames = make([]Frame, h.FrameCount)
	for i := range w.FrameStore.Frames {
		var count uint16
		if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
			return fmt.Errorf("could not read frame %d fragment count: %v", i, err)
		}
		fragments := make([]Fragment, count)
		for j := range fragments {
			var f diskFragment
			if err := binary.Read(r, binary.LittleEndian, &f); err != nil {
				return fmt.Errorf("could not read frame %d fragment %d: %v", i, j, err)
			}
			if int(f.ImageIndex) >= len(w.ImageStore.Images) {
				return fmt.Errorf("frame %d fragment %d references image %d, have %d",
					i, j, f.ImageIndex, len(w.ImageStore.Images))
			}
			fragments[j] = Fragment{
				ImageIndex: int(f.ImageIndex),
				Offset:     image.Pt(int(f.OffsetX), int(f.OffsetY)),
				Flip:       FragmentFlip(f.Flip),
			}
		}
		w.FrameStore.Frames[i] = Frame{Fragments: fragments}
	}
	return nil
}

func (w *WanImage) decodeAnimations(r io.ReadSeeker, h header) error {
	if _, err := r.Seek(int64(h.AnimTableOff), io.SeekStart); err != nil {
		return fmt.Errorf("could not seek to animation table: %v", err)
	}
	w.AnimationStore.Animations = make([]Animation, h.AnimationCount)
	for i := range w.AnimationStore.Animations {
		var count uint16
		if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
			return fmt.Errorf("could not read animation %d frame count: %v", i, err)
		}
		frames := make([]AnimationFrame, count)
		for j := range frames {
			var f diskAnimationFrame
			if err := binary.Read(r, binary.LittleEndian, &f); err != nil {
				return fmt.Errorf("could not read animation %d frame %d: %v", i, j, err)
			}
			if int(f.FrameIndex) >= len(w.FrameStore.Frames) {
				return fmt.Errorf("animation %d frame %d references frame %d, have %d",
					i, j, f.FrameIndex, len(w.FrameStore.Frames))
			}
			frames[j] = AnimationFrame{
				Duration:    f.Duration,
				FrameIndex:  f.FrameIndex,
				Offset:      image.Pt(int(f.OffsetX), int(f.OffsetY)),
				ShiftOffset: image.Pt(int(f.ShiftX), int(f.ShiftY)),
			}
		}
		w.AnimationStore.Animations[i] = Animation{Frames: frames}
	}
	return nil
}

func (w *WanImage) decodeFrameOffsets(r io.ReadSeeker, h header) error {
	if h.FrameOffsetCount == 0 {
		return nil
	}
	if h.FrameOffsetCount != h.FrameCount {
		return fmt.Errorf("got %d frame offsets, want 0 or %d", h.FrameOffsetCount, h.FrameCount)
	}
	if _, err := r.Seek(int64(h.FrameOffsetsOff), io.SeekStart); err != nil {
		return fmt.Errorf("could not seek to frame offset table: %v", err)
	}
	w.FrameOffsets = make([]FrameOffset, h.FrameOffsetCount)
	for i := range w.FrameOffsets {
		var o diskFrameOffset
		if err := binary.Read(r, binary.LittleEndian, &o); err != nil {
			return fmt.Errorf("could not read frame offset %d: %v", i, err)
		}
		w.FrameOffsets[i] = FrameOffset{
			Head:      image.Pt(int(o.HeadX), int(o.HeadY)),
			LeftHand:  image.Pt(int(o.LeftHandX), int(o.LeftHandY)),
			RightHand: image.Pt(int(o.RightHandX), int(o.RightHandY)),
			Center:    image.Pt(int(o.CenterX), int(o.CenterY)),
		}
	}
	return nil
}

func (w *WanImage) decodePalette(r io.ReadSeeker, h header) error {
	if _, err := r.Seek(int64(h.PaletteOff), io.SeekStart); err != nil {
		return fmt.Errorf("could not seek to palette: %v", err)
	}
	w.Palette.Colors = make([]color.RGBA, h.PaletteLen)
	for i := range w.Palette.Colors {
		var c diskColor
		if err := binary.Read(r, binary.LittleEndian, &c); err != nil {
			return fmt.Errorf("could not read palette color %d: %v", i, err)
		}
		w.Palette.Colors[i] = color.RGBA{R: c.R, G: c.G, B: c.B, A: c.A}
	}
	return nil
}
