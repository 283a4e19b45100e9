package treeviz

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/texatlas/pkg/atlas"
)

// Options configures tree rendering.
type Options struct {
	// Names labels filled leaves. Names[i] belongs to input i.
	Names []string

	// HideEmpty drops empty leaves from the diagram.
	HideEmpty bool
}

// ToDOT converts a packing tree to Graphviz DOT format.
// The resulting DOT string can be rendered with [RenderSVG].
func ToDOT(t *atlas.Tree, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=12, margin=\"0.15,0.05\"];\n")
	fmt.Fprintf(&buf, "  label=%q;\n", fmt.Sprintf("%dx%d atlas, border %d", t.Dimension, t.Dimension, t.Border))
	buf.WriteString("  labelloc=t;\n")
	buf.WriteString("\n")

	hidden := make([]bool, len(t.Nodes))
	for i, n := range t.Nodes {
		if opts.HideEmpty && n.Leaf() && !n.Filled {
			hidden[i] = true
			continue
		}
		fmt.Fprintf(&buf, "  n%d [%s];\n", i, strings.Join(fmtAttrs(t, n, opts.Names), ", "))
	}

	buf.WriteString("\n")
	for i, n := range t.Nodes {
		if n.Leaf() {
			continue
		}
		for _, child := range []int{n.Left, n.Right} {
			if !hidden[child] {
				fmt.Fprintf(&buf, "  n%d -> n%d;\n", i, child)
			}
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtAttrs(t *atlas.Tree, n atlas.TreeNode, names []string) []string {
	rect := fmt.Sprintf("%dx%d @ %d,%d", n.W, n.H, n.X, n.Y)
	switch {
	case !n.Leaf():
		return []string{fmt.Sprintf("label=%q", split(n, t.Nodes[n.Left])+"\n"+rect), "shape=ellipse", "fillcolor=lightgrey"}
	case n.Filled:
		label := fmt.Sprintf("#%d", n.ID)
		if n.ID >= 0 && n.ID < len(names) && names[n.ID] != "" {
			label = names[n.ID]
		}
		return []string{fmt.Sprintf("label=%q", label+"\n"+rect), "fillcolor=palegreen"}
	default:
		return []string{fmt.Sprintf("label=%q", "free\n"+rect), "style=\"rounded,dashed\"", "fontcolor=grey40"}
	}
}

// split describes the cut an internal node made. A vertical cut keeps the
// full height in the left child.
func split(n, left atlas.TreeNode) string {
	if left.H == n.H && left.W < n.W {
		return fmt.Sprintf("x = %d", left.X+left.W)
	}
	return fmt.Sprintf("y = %d", left.Y+left.H)
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(dot string) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's point-based svg header with one that
// scales to its container.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	header := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(header))
}
