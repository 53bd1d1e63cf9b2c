package wan

import "image"

// Frame composes one displayable sprite pose out of placed fragments.
// Fragments are painted in slice order; the compressor's z-index only
// orders whole images relative to other sprites, not within a frame.
type Frame struct {
	Fragments []Fragment
}

// FrameStore holds every frame of an archive, in directory order.
type FrameStore struct {
	Frames []Frame
}

// FrameOffset carries the anchor points the game engine attaches to a
// character frame: where the head, hands and body center sit. Archives for
// props and UI elements carry none.
type FrameOffset struct {
	Head      image.Point
	LeftHand  image.Point
	RightHand image.Point
	Center    image.Point
}
