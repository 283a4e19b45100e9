package atlas

// noChild marks an absent child index in the arena.
const noChild = -1

// node is one region of the atlas. A node is an empty leaf, a filled leaf,
// or an internal node with exactly two children. Children are indices into
// tree.nodes and are owned by their parent alone.
type node struct {
	x, y, w, h  int32
	size        int64
	filled      bool
	id          int // input index of a filled leaf, otherwise -1
	left, right int32
}

func (n *node) internal() bool { return n.left != noChild }

// tree is a binary space-partition of a square atlas held in an index arena.
// The root is nodes[0]. It exists only for the duration of one Pack call.
type tree struct {
	nodes []node
}

func newTree(dim uint32, capacity int) *tree {
	t := &tree{nodes: make([]node, 0, capacity)}
	t.add(0, 0, int32(dim), int32(dim))
	return t
}

func (t *tree) add(x, y, w, h int32) int32 {
	t.nodes = append(t.nodes, node{
		x: x, y: y, w: w, h: h,
		size:  int64(w) * int64(h),
		id:    -1,
		left:  noChild,
		right: noChild,
	})
	return int32(len(t.nodes) - 1)
}

// insert places a w x h rectangle under node i and returns the index of the
// filled leaf, or -1 when the subtree has no room.
func (t *tree) insert(i int32, w, h int64, id int) int32 {
	if t.nodes[i].internal() {
		if got := t.insert(t.nodes[i].left, w, h, id); got != noChild {
			return got
		}
		return t.insert(t.nodes[i].right, w, h, id)
	}

	n := t.nodes[i]
	if n.filled || n.size < w*h || int64(n.w) < w || int64(n.h) < h {
		return noChild
	}

	if n.size == w*h && int64(n.w) == w && int64(n.h) == h {
		t.nodes[i].filled = true
		t.nodes[i].id = id
		return i
	}

	// Split along the axis with more leftover space. The left child always
	// starts at the parent's origin and is wide or tall enough for the
	// rectangle, so the recursion below terminates in a fit.
	iw, ih := int32(w), int32(h)
	var left, right int32
	if int64(n.w)-w > int64(n.h)-h {
		left = t.add(n.x, n.y, iw, n.h)
		right = t.add(n.x+iw, n.y, n.w-iw, n.h)
	} else {
		left = t.add(n.x, n.y, n.w, ih)
		right = t.add(n.x, n.y+ih, n.w, n.h-ih)
	}
	t.nodes[i].left = left
	t.nodes[i].right = right
	return t.insert(left, w, h, id)
}

// TreeNode is a read-only copy of one region of the packing tree.
type TreeNode struct {
	X, Y, W, H int32
	Filled     bool
	ID         int // input index for filled leaves, -1 otherwise
	Left       int // index into Tree.Nodes, -1 for leaves
	Right      int // index into Tree.Nodes, -1 for leaves
}

// Leaf reports whether the node has no children.
func (n TreeNode) Leaf() bool { return n.Left < 0 }

// Tree is a snapshot of the packing tree after a successful pack, returned
// by [Packer.PackTree] for debugging and visualization. Nodes[0] is the root.
type Tree struct {
	Dimension uint32
	Border    uint32
	Nodes     []TreeNode
}

func (t *tree) snapshot(dim, border uint32) *Tree {
	out := &Tree{Dimension: dim, Border: border, Nodes: make([]TreeNode, len(t.nodes))}
	for i, n := range t.nodes {
		out.Nodes[i] = TreeNode{
			X: n.x, Y: n.y, W: n.w, H: n.h,
			Filled: n.filled,
			ID:     n.id,
			Left:   int(n.left),
			Right:  int(n.right),
		}
	}
	return out
}

// Leaves returns the number of empty and filled leaves.
func (t *Tree) Leaves() (empty, filled int) {
	for _, n := range t.Nodes {
		if !n.Leaf() {
			continue
		}
		if n.Filled {
			filled++
		} else {
			empty++
		}
	}
	return empty, filled
}
