package geometry

import (
	"math"

	"github.com/Jianli-Huang/GAMES101/accel"
	"github.com/Jianli-Huang/GAMES101/types"
)

// An axis-aligned solid box.
type Box struct {
	Min types.Vec3
	Max types.Vec3
}

// Create a box spanning two corner points.
func NewBox(p1, p2 types.Vec3) *Box {
	return &Box{
		Min: types.MinVec3(p1, p2),
		Max: types.MaxVec3(p1, p2),
	}
}

// Create a box from its center and half extent along each axis.
func NewBoxAt(center, halfExtent types.Vec3) *Box {
	return NewBox(center.Sub(halfExtent), center.Add(halfExtent))
}

// Get the box AABB.
func (b *Box) Bounds() accel.Bounds3 {
	return accel.Bounds3{Min: b.Min, Max: b.Max}
}

// Intersect returns the point where the ray enters the box, or the exit
// point if the ray starts inside it.
func (b *Box) Intersect(r *accel.Ray) accel.Intersection {
	tEnter := float32(math.Inf(-1))
	tExit := float32(math.Inf(1))
	enterAxis, exitAxis := -1, -1

	for axis := 0; axis < 3; axis++ {
		t0 := (b.Min[axis] - r.Origin[axis]) * r.InvDir[axis]
		t1 := (b.Max[axis] - r.Origin[axis]) * r.InvDir[axis]
		if r.DirIsNeg[axis] {
			t0, t1 = t1, t0
		}

		if t0 > tEnter {
			tEnter = t0
			enterAxis = axis
		}
		if t1 < tExit {
			tExit = t1
			exitAxis = axis
		}
	}

	if tEnter > tExit {
		return accel.NoHit()
	}

	dist, axis, sign := tEnter, enterAxis, float32(-1)
	if !r.InRange(dist) {
		dist, axis, sign = tExit, exitAxis, 1
		if !r.InRange(dist) {
			return accel.NoHit()
		}
	}

	var normal types.Vec3
	if axis >= 0 {
		if r.DirIsNeg[axis] {
			sign = -sign
		}
		normal[axis] = sign
	}

	return accel.Intersection{
		Happened: true,
		Distance: dist,
		Coords:   r.At(dist),
		Normal:   normal,
		Object:   b,
	}
}
