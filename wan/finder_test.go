package wan

import (
	"testing"
)

func tileWithMark(mark uint8) []uint8 {
	// An 8x8 tile with one off-center opaque pixel, so every flip of it is
	// distinct.
	pixels := make([]uint8, 64)
	pixels[1] = mark
	return pixels
}

func registeredLibrary(t *testing.T) *FragmentLibrary {
	t.Helper()
	lib := &FragmentLibrary{}
	res := FragmentResolution{X: 8, Y: 8}
	for i, mark := range []uint8{1, 2, 3} {
		if err := lib.Register(i, res, tileWithMark(mark)); err != nil {
			t.Fatalf("failed to register fragment %d: %s", i, err)
		}
	}
	return lib
}

func TestFinderIdentityMatch(t *testing.T) {
	lib := registeredLibrary(t)
	res := FragmentResolution{X: 8, Y: 8}

	match, found, err := lib.FindMatchingFragment(tileWithMark(2), res)
	if err != nil {
		t.Fatalf("find failed: %s", err)
	}
	if !found {
		t.Fatal("expected a match for a registered buffer")
	}
	if match.ImageIndex != 1 || match.Flip != FlipNone {
		t.Errorf("got image %d flip %v; want image 1 flip none", match.ImageIndex, match.Flip)
	}
}

func TestFinderFlippedMatch(t *testing.T) {
	lib := registeredLibrary(t)
	res := FragmentResolution{X: 8, Y: 8}

	flipped, err := FlipHorizontal.Apply(tileWithMark(3), res)
	if err != nil {
		t.Fatalf("flip failed: %s", err)
	}
	match, found, err := lib.FindMatchingFragment(flipped, res)
	if err != nil {
		t.Fatalf("find failed: %s", err)
	}
	if !found {
		t.Fatal("expected a match for a flipped copy")
	}
	if match.ImageIndex != 2 || match.Flip != FlipHorizontal {
		t.Errorf("got image %d flip %v; want image 2 flip horizontal", match.ImageIndex, match.Flip)
	}
}

func TestFinderNoMatch(t *testing.T) {
	lib := registeredLibrary(t)
	res := FragmentResolution{X: 8, Y: 8}

	candidate := tileWithMark(1)
	candidate[63] = 9 // differs by one pixel from everything registered

	_, found, err := lib.FindMatchingFragment(candidate, res)
	if err != nil {
		t.Fatalf("find failed: %s", err)
	}
	if found {
		t.Error("expected no match for a buffer differing by one pixel")
	}
}

func TestFinderPadsCandidate(t *testing.T) {
	lib := registeredLibrary(t)

	// A 5x3 candidate equal to the top-left corner of fragment 0 matches it
	// once padded out with trailing transparency.
	res := FragmentResolution{X: 5, Y: 3}
	candidate := make([]uint8, res.NbPixels())
	candidate[1] = 1

	match, found, err := lib.FindMatchingFragment(candidate, res)
	if err != nil {
		t.Fatalf("find failed: %s", err)
	}
	if !found {
		t.Fatal("expected padded candidate to match")
	}
	if match.ImageIndex != 0 || match.Flip != FlipNone {
		t.Errorf("got image %d flip %v; want image 0 flip none", match.ImageIndex, match.Flip)
	}
}

func TestFinderRegistrationOrderWins(t *testing.T) {
	lib := &FragmentLibrary{}
	res := FragmentResolution{X: 8, Y: 8}
	same := tileWithMark(4)
	for i := 0; i < 2; i++ {
		if err := lib.Register(i, res, same); err != nil {
			t.Fatalf("failed to register fragment %d: %s", i, err)
		}
	}

	match, found, err := lib.FindMatchingFragment(same, res)
	if err != nil {
		t.Fatalf("find failed: %s", err)
	}
	if !found || match.ImageIndex != 0 {
		t.Errorf("got image %d; duplicate registrations should resolve to the first", match.ImageIndex)
	}
}

func TestRegisterRejectsUnalignedResolution(t *testing.T) {
	lib := &FragmentLibrary{}
	if err := lib.Register(0, FragmentResolution{X: 5, Y: 8}, make([]uint8, 40)); err == nil {
		t.Error("registering an unaligned canonical buffer should have failed")
	}
}
