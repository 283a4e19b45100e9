// Package render holds debug renderers for packing results.
//
// The [treeviz] subpackage draws the guillotine tree behind a layout as a
// Graphviz diagram, which makes split decisions and wasted regions visible:
//
//	layout, tree, err := packer.PackTree(sizes)
//	dot := treeviz.ToDOT(tree, treeviz.Options{Names: names})
//	svg, err := treeviz.RenderSVG(dot)
//
// [treeviz]: github.com/matzehuels/texatlas/pkg/render/treeviz
package render
