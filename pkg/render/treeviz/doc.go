// Package treeviz renders the packing tree of an atlas as a Graphviz diagram.
//
// Each node of the tree is one region of the atlas. Internal nodes show the
// split they made, filled leaves show the sprite placed there (including its
// border), and empty leaves are the space left over. Leaves are shaded by
// state so that fragmentation is easy to spot.
//
// # Usage
//
//	_, tree, err := packer.PackTree(sizes)
//	dot := treeviz.ToDOT(tree, treeviz.Options{})
//	svg, err := treeviz.RenderSVG(dot)
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering. No Graphviz installation is required.
package treeviz
