package wan

import "image"

// AnimationFrame shows one frame for Duration ticks. Offset moves the
// sprite; ShiftOffset moves the camera/shadow anchor with it.
type AnimationFrame struct {
	Duration    uint8
	FrameIndex  uint16
	Offset      image.Point
	ShiftOffset image.Point
}

// Animation is an ordered sequence of timed frames.
type Animation struct {
	Frames []AnimationFrame
}

// AnimationStore holds every animation of an archive, in directory order.
type AnimationStore struct {
	Animations []Animation
}
