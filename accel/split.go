package accel

import (
	"fmt"
	"math"
	"strings"
	"sync"

	"github.com/Jianli-Huang/GAMES101/types"
)

// SplitMethod selects the partitioning strategy used by the BVH builder.
type SplitMethod uint8

const (
	// Surface area heuristic with bucketed split candidates.
	SplitSAH SplitMethod = iota

	// Split at the median centroid along the axis of largest extent.
	SplitMiddle
)

const (
	// Number of buckets used for evaluating SAH split candidates along an axis.
	nBuckets = 12

	// Relative cost of traversing a node compared to a primitive test.
	traversalCost = 0.125

	// Nodes with at most this many items are split at the midpoint of an
	// order statistic instead of using the bucket histogram.
	smallNodeItems = 4
)

// Nodes with at least this many items evaluate the three axes in parallel.
var parallelAxisItems = 4096

var splitMethodNames = map[SplitMethod]string{
	SplitSAH:    "sah",
	SplitMiddle: "middle",
}

func (m SplitMethod) String() string {
	if name, ok := splitMethodNames[m]; ok {
		return name
	}
	return fmt.Sprintf("SplitMethod(%d)", uint8(m))
}

// ParseSplitMethod maps a method name ("sah" or "middle") to a SplitMethod.
func ParseSplitMethod(name string) (SplitMethod, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	switch name {
	case "sah", "":
		return SplitSAH, nil
	case "middle", "median":
		return SplitMiddle, nil
	}
	return SplitSAH, fmt.Errorf("%w: %q", ErrUnknownSplitMethod, name)
}

// A primitive together with its cached bounds and centroid.
type buildItem struct {
	obj      Object
	bounds   Bounds3
	centroid types.Vec3
}

// Per-bucket aggregation used while scoring SAH splits.
type bucketInfo struct {
	count  int
	bounds Bounds3
}

// The best split found along a single axis.
type splitCandidate struct {
	axis   Axis
	bucket int
	cost   float64
	valid  bool
}

// A split strategy reorders items in place and returns the index that
// separates the left and right subsets. It is only invoked for 3 or more
// items and must return an index in [1, len(items)-1].
type splitFunc func(items []buildItem, bounds Bounds3) int

func splitterFor(method SplitMethod) splitFunc {
	if method == SplitMiddle {
		return splitMiddle
	}
	return splitSAH
}

// Split at the median centroid along the axis with the largest centroid extent.
func splitMiddle(items []buildItem, _ Bounds3) int {
	cb := centroidBounds(items)
	mid := len(items) / 2
	selectNth(items, mid, cb.MaxExtent())
	return mid
}

// Split using the surface area heuristic:
//
// cost = traversalCost + (leftCount * leftArea + rightCount * rightArea) / nodeArea
//
// The candidate with the lowest cost over all three axes wins. If no valid
// candidate exists (flat node or all centroids in a single bucket) the items
// are split at the median centroid along the axis of largest extent.
func splitSAH(items []buildItem, bounds Bounds3) int {
	cb := centroidBounds(items)
	area := bounds.surfaceArea64()

	if len(items) <= smallNodeItems {
		return splitSmall(items, cb, area)
	}

	var candidates [3]splitCandidate
	if len(items) >= parallelAxisItems {
		var wg sync.WaitGroup
		for axis := XAxis; axis <= ZAxis; axis++ {
			wg.Add(1)
			go func(axis Axis) {
				defer wg.Done()
				candidates[axis] = scoreAxis(items, cb, area, axis)
			}(axis)
		}
		wg.Wait()
	} else {
		for axis := XAxis; axis <= ZAxis; axis++ {
			candidates[axis] = scoreAxis(items, cb, area, axis)
		}
	}

	// Reduce in axis order so ties favor the first axis.
	best := splitCandidate{cost: math.Inf(1)}
	for _, candidate := range candidates {
		if candidate.valid && candidate.cost < best.cost {
			best = candidate
		}
	}

	if !best.valid {
		mid := len(items) / 2
		selectNth(items, mid, cb.MaxExtent())
		return mid
	}

	return partitionItems(items, func(item *buildItem) bool {
		return bucketIndex(cb, item.centroid, best.axis) <= best.bucket
	})
}

// Evaluate the SAH cost of every bucket boundary along axis and return the
// cheapest one. Boundaries that leave one side empty are skipped.
func scoreAxis(items []buildItem, cb Bounds3, area float64, axis Axis) splitCandidate {
	best := splitCandidate{axis: axis, cost: math.Inf(1)}
	if area <= 0 {
		return best
	}

	var buckets [nBuckets]bucketInfo
	for i := range buckets {
		buckets[i].bounds = EmptyBounds()
	}
	for i := range items {
		b := bucketIndex(cb, items[i].centroid, axis)
		buckets[b].count++
		buckets[b].bounds = Union(buckets[b].bounds, items[i].bounds)
	}

	// Sweep from the right so that each boundary's right side is available
	// in O(1) when scanning left to right.
	var rightCount [nBuckets - 1]int
	var rightArea [nBuckets - 1]float64
	acc := EmptyBounds()
	count := 0
	for i := nBuckets - 1; i > 0; i-- {
		acc = Union(acc, buckets[i].bounds)
		count += buckets[i].count
		rightCount[i-1] = count
		rightArea[i-1] = acc.surfaceArea64()
	}

	acc = EmptyBounds()
	count = 0
	for i := 0; i < nBuckets-1; i++ {
		acc = Union(acc, buckets[i].bounds)
		count += buckets[i].count
		if count == 0 || rightCount[i] == 0 {
			continue
		}

		cost := traversalCost + (float64(count)*acc.surfaceArea64()+float64(rightCount[i])*rightArea[i])/area
		if cost < best.cost {
			best.cost = cost
			best.bucket = i
			best.valid = true
		}
	}

	return best
}

// Split 3-4 items at their midpoint. Every axis is tried and the ordering
// whose midpoint split has the lowest SAH cost is kept; the x ordering is
// kept if no cost compares lower.
func splitSmall(items []buildItem, cb Bounds3, area float64) int {
	mid := len(items) / 2
	if area <= 0 {
		selectNth(items, mid, cb.MaxExtent())
		return mid
	}

	var best [smallNodeItems]buildItem
	bestCost := math.Inf(1)
	for axis := XAxis; axis <= ZAxis; axis++ {
		selectNth(items, mid, axis)
		left, right := itemBounds(items[:mid]), itemBounds(items[mid:])
		cost := traversalCost + (float64(mid)*left.surfaceArea64()+float64(len(items)-mid)*right.surfaceArea64())/area
		if axis == XAxis || cost < bestCost {
			bestCost = cost
			copy(best[:], items)
		}
	}

	copy(items, best[:len(items)])
	return mid
}

// Map a centroid to its bucket along axis.
func bucketIndex(cb Bounds3, centroid types.Vec3, axis Axis) int {
	b := int(nBuckets * cb.Offset(centroid)[axis])
	if b >= nBuckets {
		b = nBuckets - 1
	} else if b < 0 {
		b = 0
	}
	return b
}

// Union of the item bounding boxes.
func itemBounds(items []buildItem) Bounds3 {
	b := EmptyBounds()
	for i := range items {
		b = Union(b, items[i].bounds)
	}
	return b
}

// Bounds of the item centroids.
func centroidBounds(items []buildItem) Bounds3 {
	b := EmptyBounds()
	for i := range items {
		b = UnionPoint(b, items[i].centroid)
	}
	return b
}

// Reorder items so that the ones matching pred come first and return their
// count.
func partitionItems(items []buildItem, pred func(*buildItem) bool) int {
	mid := 0
	for i := range items {
		if pred(&items[i]) {
			items[i], items[mid] = items[mid], items[i]
			mid++
		}
	}
	return mid
}

// Partially order items so that items[k] holds the element that would be at
// position k if items were sorted by centroid along axis, with no greater
// element before it and no smaller element after it.
func selectNth(items []buildItem, k int, axis Axis) {
	lo, hi := 0, len(items)-1
	for lo < hi {
		pivot := items[(lo+hi)/2].centroid[axis]
		i, j := lo, hi
		for i <= j {
			for items[i].centroid[axis] < pivot {
				i++
			}
			for items[j].centroid[axis] > pivot {
				j--
			}
			if i <= j {
				items[i], items[j] = items[j], items[i]
				i++
				j--
			}
		}

		switch {
		case k <= j:
			hi = j
		case k >= i:
			lo = i
		default:
			return
		}
	}
}
