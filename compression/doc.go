// Package compression converts flat buffers of 4-bit color indices into the
// packed, run-based byte streams stored inside WAN sprite archives, and back.
//
// A compressed image is described by an ordered assembly table. Replaying the
// table reproduces the pixel buffer: filler entries expand to transparent
// pixels without ever touching the byte stream, literal entries are read back
// from the recorded stream offset and unpacked two pixels per byte.
//
// The wan package sits on top of this and decides which strategy each image
// is compressed with; the table itself replays the same way regardless of the
// strategy that produced it.
package compression
