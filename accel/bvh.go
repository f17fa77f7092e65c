package accel

import (
	"fmt"
	"time"

	"github.com/Jianli-Huang/GAMES101/log"
)

// Upper limit for Options.MaxPrimsInNode.
const maxPrimsInNodeLimit = 255

type Options struct {
	// Max number of primitives per leaf. Clamped to [1, 255]; both split
	// methods always emit single-primitive leafs.
	MaxPrimsInNode int

	// Partitioning strategy.
	SplitMethod SplitMethod
}

// Get the default options: single-primitive leafs partitioned with SAH.
func DefaultOptions() Options {
	return Options{
		MaxPrimsInNode: 1,
		SplitMethod:    SplitSAH,
	}
}

func (o Options) normalize() Options {
	if o.MaxPrimsInNode < 1 {
		o.MaxPrimsInNode = 1
	} else if o.MaxPrimsInNode > maxPrimsInNodeLimit {
		o.MaxPrimsInNode = maxPrimsInNodeLimit
	}
	return o
}

// BVHAccel is a bounding volume hierarchy over a set of objects. A BVHAccel
// is immutable once built and can be queried from multiple goroutines.
//
// The accelerator keeps its own copy of the object handles, ordered so that
// leaf primitive ranges index into it, but the objects themselves are owned
// by the caller and must outlive the accelerator.
type BVHAccel struct {
	opts    Options
	nodes   []BvhNode
	objects []Object
	stats   Stats
}

type builder struct {
	logger log.Logger

	// Bvh nodes stored as a contiguous list; the root is at index 0.
	nodes []BvhNode

	// The split strategy to use.
	split splitFunc

	// Stats
	stats Stats
}

// Construct a BVH over objects. An empty object list produces an empty tree
// that reports no hits.
func New(objects []Object, opts Options) *BVHAccel {
	opts = opts.normalize()
	accel := &BVHAccel{opts: opts}
	if len(objects) == 0 {
		return accel
	}

	b := &builder{
		logger: log.New("bvh"),
		nodes:  make([]BvhNode, 0, 2*len(objects)-1),
		split:  splitterFor(opts.SplitMethod),
		stats: Stats{
			Primitives: len(objects),
		},
	}

	items := make([]buildItem, len(objects))
	for i, obj := range objects {
		bounds := obj.Bounds()
		items[i] = buildItem{
			obj:      obj,
			bounds:   bounds,
			centroid: bounds.Centroid(),
		}
	}

	start := time.Now()
	b.partition(items, 0, 0)
	b.stats.BuildTime = time.Since(start)

	accel.nodes = b.nodes
	accel.objects = make([]Object, len(items))
	for i := range items {
		accel.objects[i] = items[i].obj
	}
	accel.stats = b.stats
	accel.stats.SAHCost = treeCost(accel.nodes)

	b.logger.Debugf(
		"BVH tree build time: %d ms, split: %s, maxDepth: %d, nodes: %d, leafs: %d",
		accel.stats.BuildTime.Nanoseconds()/1e6,
		opts.SplitMethod, b.stats.MaxDepth, b.stats.Nodes, b.stats.Leafs,
	)
	return accel
}

// Partition the items that start at offset inside the accelerator's object
// list and return the index of the generated node.
func (b *builder) partition(items []buildItem, offset int, depth int) uint32 {
	if depth > b.stats.MaxDepth {
		b.stats.MaxDepth = depth
	}

	nodeIndex := uint32(len(b.nodes))
	b.nodes = append(b.nodes, BvhNode{})

	if len(items) == 1 {
		b.nodes[nodeIndex].Bounds = items[0].bounds
		b.nodes[nodeIndex].SetPrimitives(uint32(offset), 1)
		b.stats.Leafs++
		return nodeIndex
	}

	// Two items always end up in separate leafs; no need to score splits.
	mid := 1
	if len(items) > 2 {
		mid = b.split(items, itemBounds(items))
	}

	leftNodeIndex := b.partition(items[:mid], offset, depth+1)
	rightNodeIndex := b.partition(items[mid:], offset+mid, depth+1)

	node := &b.nodes[nodeIndex]
	node.Bounds = Union(b.nodes[leftNodeIndex].Bounds, b.nodes[rightNodeIndex].Bounds)
	node.SetChildNodes(leftNodeIndex, rightNodeIndex)
	b.stats.Nodes++

	return nodeIndex
}

// Restore an accelerator from a node arena and the matching ordered object
// list, as returned by Nodes and Objects. The tree layout is validated but
// node bounds are trusted.
func Restore(nodes []BvhNode, objects []Object, opts Options) (*BVHAccel, error) {
	accel := &BVHAccel{
		opts:    opts.normalize(),
		nodes:   nodes,
		objects: objects,
		stats: Stats{
			Primitives: len(objects),
		},
	}

	if len(nodes) == 0 {
		if len(objects) != 0 {
			return nil, fmt.Errorf("%w: %d objects but no nodes", ErrUnreferencedPrimitive, len(objects))
		}
		return accel, nil
	}

	refs := make([]int, len(objects))
	visited := make([]bool, len(nodes))
	type entry struct {
		index uint32
		depth int
	}
	stack := []entry{{0, 0}}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if visited[cur.index] {
			return nil, fmt.Errorf("%w: node %d referenced twice", ErrInvalidNode, cur.index)
		}
		visited[cur.index] = true
		if cur.depth > accel.stats.MaxDepth {
			accel.stats.MaxDepth = cur.depth
		}

		node := &nodes[cur.index]
		if node.IsLeaf() {
			first, count := node.Primitives()
			if count == 0 || int(first)+int(count) > len(objects) {
				return nil, fmt.Errorf("%w: node %d references [%d, %d)", ErrPrimitiveRange, cur.index, first, first+count)
			}
			for i := first; i < first+count; i++ {
				refs[i]++
			}
			accel.stats.Leafs++
			continue
		}

		left, right := node.ChildNodes()
		for _, child := range []uint32{left, right} {
			// Children are always emitted after their parent.
			if child <= cur.index || int(child) >= len(nodes) {
				return nil, fmt.Errorf("%w: node %d has child index %d", ErrInvalidNode, cur.index, child)
			}
			stack = append(stack, entry{child, cur.depth + 1})
		}
		accel.stats.Nodes++
	}

	for index, seen := range visited {
		if !seen {
			return nil, fmt.Errorf("%w: node %d is unreachable", ErrInvalidNode, index)
		}
	}
	for index, count := range refs {
		if count != 1 {
			return nil, fmt.Errorf("%w: object %d referenced %d times", ErrUnreferencedPrimitive, index, count)
		}
	}

	accel.stats.SAHCost = treeCost(nodes)
	return accel, nil
}

// Intersect returns the nearest hit along the ray.
func (a *BVHAccel) Intersect(r *Ray) Intersection {
	if len(a.nodes) == 0 {
		return NoHit()
	}
	return a.getIntersection(0, r)
}

// Both children of an internal node are always visited; the closer of the two
// results wins.
func (a *BVHAccel) getIntersection(nodeIndex uint32, r *Ray) Intersection {
	node := &a.nodes[nodeIndex]
	if !node.Bounds.IntersectP(r, r.InvDir, r.DirIsNeg) {
		return NoHit()
	}

	if node.IsLeaf() {
		first, count := node.Primitives()
		if count == 1 {
			return a.objects[first].Intersect(r)
		}

		isect := NoHit()
		for _, obj := range a.objects[first : first+count] {
			isect = Closer(isect, obj.Intersect(r))
		}
		return isect
	}

	left, right := node.ChildNodes()
	return Closer(a.getIntersection(left, r), a.getIntersection(right, r))
}

// Get the bounds of all objects in the tree; empty for an empty tree.
func (a *BVHAccel) Bounds() Bounds3 {
	if len(a.nodes) == 0 {
		return EmptyBounds()
	}
	return a.nodes[0].Bounds
}

// Get the number of objects in the tree.
func (a *BVHAccel) Len() int {
	return len(a.objects)
}

// Get the build options.
func (a *BVHAccel) Options() Options {
	return a.opts
}

// Get the node arena. The returned slice must not be modified.
func (a *BVHAccel) Nodes() []BvhNode {
	return a.nodes
}

// Get the objects in leaf order. The returned slice must not be modified.
func (a *BVHAccel) Objects() []Object {
	return a.objects
}

// Get tree statistics.
func (a *BVHAccel) Stats() Stats {
	return a.stats
}
