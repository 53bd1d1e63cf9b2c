// Package wan implements a reader and writer for WAN sprite archives.
//
// A WAN archive is a directed composition: a 16-color palette, a store of
// compressed pixel images, frames that place those images with flip and
// offset metadata, and animations that sequence frames with per-frame
// timing. The pixel runs themselves are encoded and decoded by the
// compression package; this package owns the archive directory and the data
// model, plus the fragment-deduplication search used when assembling an
// archive from plain images.
package wan
