// Package atlas packs rectangles into a single square power-of-two texture
// atlas and reports where each one landed.
//
// The package is pure computation: it never touches pixel data. Callers pass
// the sizes of their source images and receive an atlas dimension plus, for
// each input, a pixel offset and a normalized UV rectangle. Creating the
// destination image and copying pixels is left to the caller (see the
// compose package).
//
// # Algorithm
//
// Packing runs in four steps:
//
//  1. Inputs are sorted by descending area. Ties keep their input order, so
//     the same input always produces the same layout.
//  2. The smallest candidate dimension D whose area holds the sum of all
//     bordered rectangle areas is chosen. Candidates default to
//     8, 16, 32, ..., 1024 and can be replaced with [WithCandidates].
//  3. Rectangles are inserted one at a time into a binary space-partition
//     tree rooted at a DxD region. Each insert either fills an exactly
//     matching free leaf or splits a larger leaf along the axis with more
//     leftover space and recurses into the new left child.
//  4. Placements are converted to pixel offsets (inside the border) and UV
//     coordinates, keyed back to the caller's input order.
//
// Every rectangle is padded by [DefaultBorder] pixels on each side before
// insertion, so neighbouring images never bleed into each other when sampled
// with linear filtering.
//
// # Failure
//
// Packing is all or nothing. If the bordered area exceeds the largest
// candidate, Pack returns a [*TooLargeError]. If the area fits but the tree
// fragments so that some rectangle has nowhere to go, Pack returns a
// [*PlacementError]. Neither case returns a partial layout, and retrying the
// same input reproduces the same error.
//
// # Usage
//
//	layout, err := atlas.Pack([]atlas.Size{{Width: 64, Height: 64}, {Width: 32, Height: 32}})
//	if errors.Is(err, atlas.ErrAtlasTooLarge) {
//	    // split the input or raise the candidate ceiling
//	}
//	for _, e := range layout.Entries {
//	    fmt.Println(e.ID, e.X, e.Y, e.U, e.V)
//	}
//
// # Concurrency
//
// A [Packer] is immutable after construction. Each Pack call builds and
// discards its own tree, so one Packer may be shared across goroutines.
package atlas
