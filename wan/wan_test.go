package wan

import (
	"image"
	"image/color"
	"io"
	"testing"

	"github.com/bradfitz/iter"
	"github.com/xaionaro-go/bytesextra"

	"github.com/arcln/pmd-wan/compression"
	"github.com/arcln/pmd-wan/wtesting"
)

func testWanImage() *WanImage {
	img0 := make([]uint8, 2*compression.TilePixels)
	for i := range img0 {
		img0[i] = uint8(i % 16)
	}
	img1 := make([]uint8, compression.TilePixels) // fully transparent

	w := &WanImage{
		SpriteType: SpriteTypeChara,
		ImageStore: ImageStore{Images: []ImageBytes{
			{Resolution: FragmentResolution{X: 16, Y: 8}, ZIndex: 2, Pixels: img0},
			{Resolution: FragmentResolution{X: 8, Y: 8}, ZIndex: 1, Pixels: img1},
		}},
		FrameStore: FrameStore{Frames: []Frame{
			{Fragments: []Fragment{
				{ImageIndex: 0, Offset: image.Pt(-4, 2), Flip: FlipNone},
				{ImageIndex: 1, Offset: image.Pt(8, 0), Flip: FlipHorizontal},
			}},
			{Fragments: []Fragment{
				{ImageIndex: 0, Offset: image.Pt(0, 0), Flip: FlipBoth},
			}},
		}},
		FrameOffsets: []FrameOffset{
			{Head: image.Pt(4, 0), Center: image.Pt(8, 8)},
			{Head: image.Pt(5, 1), Center: image.Pt(8, 9)},
		},
		AnimationStore: AnimationStore{Animations: []Animation{
			{Frames: []AnimationFrame{
				{Duration: 4, FrameIndex: 0, ShiftOffset: image.Pt(1, -1)},
				{Duration: 6, FrameIndex: 1, Offset: image.Pt(0, 2)},
			}},
		}},
	}
	w.Palette.Colors = make([]color.RGBA, 16)
	for i := range w.Palette.Colors {
		w.Palette.Colors[i] = color.RGBA{R: uint8(i * 16), G: uint8(255 - i*16), B: uint8(i), A: 255}
	}
	return w
}

func encodeToStream(t *testing.T, w *WanImage, strategy compression.Strategy) io.ReadWriteSeeker {
	t.Helper()
	stream := bytesextra.NewReadWriteSeeker(make([]byte, 1<<16))
	if err := w.Encode(stream, strategy); err != nil {
		t.Fatalf("failed to encode wan: %s", err)
	}
	if _, err := stream.Seek(0, io.SeekStart); err != nil {
		t.Fatalf("failed to rewind: %s", err)
	}
	return stream
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	strategies := map[string]compression.Strategy{
		"original":  compression.Original(),
		"optimised": compression.Optimised(compression.TilePixels, 32),
		"none":      compression.NoCompression(),
	}

	for name, strategy := range strategies {
		t.Run(name, func(t *testing.T) {
			want := testWanImage()
			stream := encodeToStream(t, want, strategy)

			got, err := Decode(stream)
			if err != nil {
				t.Fatalf("failed to decode wan: %s", err)
			}

			if got.SpriteType != want.SpriteType {
				t.Errorf("sprite type: got %v; want %v", got.SpriteType, want.SpriteType)
			}
			wtesting.AssertEqualInt(t, "image count", len(got.ImageStore.Images), len(want.ImageStore.Images))
			for i := range want.ImageStore.Images {
				wtesting.AssertEqualUint32(t, "image z-index", got.ImageStore.Images[i].ZIndex, want.ImageStore.Images[i].ZIndex)
				wtesting.AssertEqualPixels(t, "image pixels", got.ImageStore.Images[i].Pixels, want.ImageStore.Images[i].Pixels)
			}

			wtesting.AssertEqualInt(t, "frame count", len(got.FrameStore.Frames), len(want.FrameStore.Frames))
			for i, frame := range want.FrameStore.Frames {
				gotFrame := got.FrameStore.Frames[i]
				wtesting.AssertEqualInt(t, "fragment count", len(gotFrame.Fragments), len(frame.Fragments))
				for j, fragment := range frame.Fragments {
					if gotFrame.Fragments[j] != fragment {
						t.Errorf("frame %d fragment %d: got %+v; want %+v", i, j, gotFrame.Fragments[j], fragment)
					}
				}
			}

			if len(got.FrameOffsets) != len(want.FrameOffsets) {
				t.Fatalf("frame offsets: got %d; want %d", len(got.FrameOffsets), len(want.FrameOffsets))
			}
			for i := range want.FrameOffsets {
				if got.FrameOffsets[i] != want.FrameOffsets[i] {
					t.Errorf("frame offset %d: got %+v; want %+v", i, got.FrameOffsets[i], want.FrameOffsets[i])
				}
			}

			wtesting.AssertEqualInt(t, "animation count", len(got.AnimationStore.Animations), len(want.AnimationStore.Animations))
			for i, anim := range want.AnimationStore.Animations {
				gotAnim := got.AnimationStore.Animations[i]
				wtesting.AssertEqualInt(t, "animation frame count", len(gotAnim.Frames), len(anim.Frames))
				for j := range anim.Frames {
					if gotAnim.Frames[j] != anim.Frames[j] {
						t.Errorf("animation %d frame %d: got %+v; want %+v", i, j, gotAnim.Frames[j], anim.Frames[j])
					}
				}
			}

			wtesting.AssertEqualInt(t, "palette length", len(got.Palette.Colors), len(want.Palette.Colors))
			for i := range want.Palette.Colors {
				if got.Palette.Colors[i] != want.Palette.Colors[i] {
					t.Errorf("palette color %d: got %v; want %v", i, got.Palette.Colors[i], want.Palette.Colors[i])
				}
			}
		})
	}
}

func TestEncodeIsDeterministic(t *testing.T) {
	var previous []byte
	for range iter.N(3) {
		storage := make([]byte, 1<<16)
		stream := bytesextra.NewReadWriteSeeker(storage)
		if err := testWanImage().Encode(stream, compression.Original()); err != nil {
			t.Fatalf("failed to encode wan: %s", err)
		}
		if previous != nil {
			for i := range storage {
				if storage[i] != previous[i] {
					t.Fatalf("encode output differs at byte %d", i)
				}
			}
		}
		previous = storage
	}
}

func TestDecodeRejectsBadSignature(t *testing.T) {
	stream := encodeToStream(t, testWanImage(), compression.NoCompression())
	storage := make([]byte, 64)
	if _, err := io.ReadFull(stream, storage); err != nil {
		t.Fatalf("failed to read encoded bytes: %s", err)
	}
	storage[0] ^= 0xff

	if _, err := Decode(bytesextra.NewReadWriteSeeker(storage)); err == nil {
		t.Error("decoding with a corrupt signature should have failed")
	}
}

func TestEncodeRejectsDanglingReferences(t *testing.T) {
	w := testWanImage()
	w.FrameStore.Frames[0].Fragments[0].ImageIndex = 99

	stream := bytesextra.NewReadWriteSeeker(make([]byte, 1<<16))
	if err := w.Encode(stream, compression.NoCompression()); err == nil {
		t.Error("encoding a frame referencing a missing image should have failed")
	}
}
