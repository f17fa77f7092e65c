package accel

import (
	"math"

	"github.com/Jianli-Huang/GAMES101/types"
)

type Axis uint8

const (
	XAxis Axis = iota
	YAxis
	ZAxis
)

// Bounds3 is an axis-aligned bounding box. The zero value is a degenerate box
// at the origin; use EmptyBounds to get the identity element for Union.
type Bounds3 struct {
	Min types.Vec3
	Max types.Vec3
}

// Return a box that contains nothing. Its union with any other box b is b.
func EmptyBounds() Bounds3 {
	return Bounds3{
		Min: types.Vec3{math.MaxFloat32, math.MaxFloat32, math.MaxFloat32},
		Max: types.Vec3{-math.MaxFloat32, -math.MaxFloat32, -math.MaxFloat32},
	}
}

// Create a box spanning two arbitrary corner points.
func NewBounds(p1, p2 types.Vec3) Bounds3 {
	return Bounds3{
		Min: types.MinVec3(p1, p2),
		Max: types.MaxVec3(p1, p2),
	}
}

// Create a box containing a single point.
func PointBounds(p types.Vec3) Bounds3 {
	return Bounds3{Min: p, Max: p}
}

// Union returns the smallest box enclosing both a and b.
func Union(a, b Bounds3) Bounds3 {
	return Bounds3{
		Min: types.MinVec3(a.Min, b.Min),
		Max: types.MaxVec3(a.Max, b.Max),
	}
}

// UnionPoint grows b so that it contains p.
func UnionPoint(b Bounds3, p types.Vec3) Bounds3 {
	return Bounds3{
		Min: types.MinVec3(b.Min, p),
		Max: types.MaxVec3(b.Max, p),
	}
}

// Returns true if Min exceeds Max along any axis.
func (b Bounds3) IsEmpty() bool {
	return b.Min[0] > b.Max[0] || b.Min[1] > b.Max[1] || b.Min[2] > b.Max[2]
}

// Get the box diagonal (Max - Min). Empty boxes have a zero diagonal.
func (b Bounds3) Diagonal() types.Vec3 {
	if b.IsEmpty() {
		return types.Vec3{}
	}
	return b.Max.Sub(b.Min)
}

// Get the box center.
func (b Bounds3) Centroid() types.Vec3 {
	return b.Min.Add(b.Max).Mul(0.5)
}

// Offset returns the position of p relative to the box corners so that Min
// maps to 0 and Max maps to 1. Axes with no extent are not normalized.
func (b Bounds3) Offset(p types.Vec3) types.Vec3 {
	o := p.Sub(b.Min)
	for axis := 0; axis < 3; axis++ {
		if b.Max[axis] > b.Min[axis] {
			o[axis] /= b.Max[axis] - b.Min[axis]
		}
	}
	return o
}

// MaxExtent returns the axis with the largest extent. Ties resolve in x, y, z
// order.
func (b Bounds3) MaxExtent() Axis {
	d := b.Diagonal()
	axis := XAxis
	if d[1] > d[axis] {
		axis = YAxis
	}
	if d[2] > d[axis] {
		axis = ZAxis
	}
	return axis
}

// Surface area of the box; zero for empty or flat boxes.
func (b Bounds3) SurfaceArea() float32 {
	d := b.Diagonal()
	return 2 * (d[0]*d[1] + d[1]*d[2] + d[2]*d[0])
}

// Surface area in double precision. Boxes with extents above ~1e19 overflow
// the float32 product, which turns SAH cost ratios into Inf/Inf.
func (b Bounds3) surfaceArea64() float64 {
	d := b.Diagonal()
	x, y, z := float64(d[0]), float64(d[1]), float64(d[2])
	return 2 * (x*y + y*z + z*x)
}

// Returns true if p lies inside or on the box.
func (b Bounds3) Contains(p types.Vec3) bool {
	return p[0] >= b.Min[0] && p[0] <= b.Max[0] &&
		p[1] >= b.Min[1] && p[1] <= b.Max[1] &&
		p[2] >= b.Min[2] && p[2] <= b.Max[2]
}

// Returns true if other lies entirely inside the box.
func (b Bounds3) ContainsBounds(other Bounds3) bool {
	if other.IsEmpty() {
		return true
	}
	return b.Contains(other.Min) && b.Contains(other.Max)
}

// IntersectP performs a slab test against the ray. The entry/exit distances
// of an axis are swapped when the ray travels towards -axis. The test passes
// if the per-axis intervals overlap each other and the ray's [TMin, TMax]
// range.
//
// A slab that evaluates to NaN (ray parallel to the slab with its origin on
// one of the planes) does not narrow the interval.
func (b Bounds3) IntersectP(r *Ray, invDir types.Vec3, dirIsNeg [3]bool) bool {
	tEnter := float32(math.Inf(-1))
	tExit := float32(math.Inf(1))

	for axis := 0; axis < 3; axis++ {
		t0 := (b.Min[axis] - r.Origin[axis]) * invDir[axis]
		t1 := (b.Max[axis] - r.Origin[axis]) * invDir[axis]
		if dirIsNeg[axis] {
			t0, t1 = t1, t0
		}

		if t0 > tEnter {
			tEnter = t0
		}
		if t1 < tExit {
			tExit = t1
		}
	}

	return tEnter <= tExit && tExit >= r.TMin && tEnter <= r.TMax
}
