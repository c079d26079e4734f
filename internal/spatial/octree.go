package spatial

import (
	"github.com/Faultbox/reconview/pkg/geom"
	"github.com/Faultbox/reconview/pkg/math"
)

// SplitFunc decides whether a node holding count items inside a cell of
// the given radius is subdivided further.
type SplitFunc func(count int, radius float32) bool

// LeafSize returns a SplitFunc that splits while a node holds more than n
// items.
func LeafSize(n int) SplitFunc {
	return func(count int, radius float32) bool {
		return count > n && radius > 0
	}
}

const (
	// DefaultFaceLeafSize is the face count above which a mesh node splits.
	DefaultFaceLeafSize = 256
	// DefaultPointLeafSize is the point count above which a cloud node splits.
	DefaultPointLeafSize = 512
	// maxDepth stops subdivision of coincident items.
	maxDepth = 20
)

// node bounds are tight over all items of the subtree, so queries prune
// against what is actually stored rather than the cell.
type node struct {
	bounds   geom.AABB
	children []int32
	items    []int32
}

// octree partitions item indices by their centers.
type octree struct {
	nodes []node
}

type itemSource struct {
	count  int
	center func(i int) math.Vec3
	bounds func(i int) geom.AABB
}

func buildOctree(src itemSource, split SplitFunc) *octree {
	t := &octree{}
	if src.count == 0 {
		return t
	}
	items := make([]int32, src.count)
	cell := geom.EmptyAABB()
	for i := range items {
		items[i] = int32(i)
		cell.Insert(src.center(i))
	}
	// Cubic cells keep children balanced.
	half := cell.Size().MaxComponent() / 2
	c := cell.Center()
	cell = geom.AABB{
		Min: c.Sub(math.V3(half, half, half)),
		Max: c.Add(math.V3(half, half, half)),
	}
	t.build(src, items, cell, 0, split)
	return t
}

func (t *octree) build(src itemSource, items []int32, cell geom.AABB, depth int, split SplitFunc) int32 {
	id := int32(len(t.nodes))
	t.nodes = append(t.nodes, node{})

	bounds := geom.EmptyAABB()
	for _, it := range items {
		bounds.InsertBox(src.bounds(int(it)))
	}
	radius := cell.Size().X / 2

	if depth >= maxDepth || !split(len(items), radius) {
		t.nodes[id] = node{bounds: bounds, items: items}
		return id
	}

	var buckets [8][]int32
	c := cell.Center()
	for _, it := range items {
		o := octant(src.center(int(it)), c)
		buckets[o] = append(buckets[o], it)
	}

	var children []int32
	for o, b := range buckets {
		if len(b) == 0 {
			continue
		}
		children = append(children, t.build(src, b, childCell(cell, c, o), depth+1, split))
	}
	t.nodes[id] = node{bounds: bounds, children: children}
	return id
}

func octant(p, c math.Vec3) int {
	o := 0
	if p.X >= c.X {
		o |= 1
	}
	if p.Y >= c.Y {
		o |= 2
	}
	if p.Z >= c.Z {
		o |= 4
	}
	return o
}

func childCell(cell geom.AABB, c math.Vec3, o int) geom.AABB {
	child := geom.AABB{Min: cell.Min, Max: c}
	if o&1 != 0 {
		child.Min.X, child.Max.X = c.X, cell.Max.X
	}
	if o&2 != 0 {
		child.Min.Y, child.Max.Y = c.Y, cell.Max.Y
	}
	if o&4 != 0 {
		child.Min.Z, child.Max.Z = c.Z, cell.Max.Z
	}
	return child
}

// walk visits the leaves whose node passes enter, depth first. enter gets
// the node bounds and returns false to prune the subtree.
func (t *octree) walk(enter func(bounds geom.AABB) bool, leaf func(items []int32)) {
	if len(t.nodes) == 0 {
		return
	}
	stack := []int32{0}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		n := &t.nodes[id]
		if !enter(n.bounds) {
			continue
		}
		if n.children == nil {
			leaf(n.items)
			continue
		}
		stack = append(stack, n.children...)
	}
}

func (t *octree) leafCount() int {
	n := 0
	for i := range t.nodes {
		if t.nodes[i].children == nil {
			n++
		}
	}
	return n
}
