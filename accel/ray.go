package accel

import (
	"math"

	"github.com/Jianli-Huang/GAMES101/types"
)

// A Ray with precomputed traversal data. Rays are read-only once created so
// the same ray may be shared between goroutines.
type Ray struct {
	Origin    types.Vec3
	Direction types.Vec3

	// Component-wise reciprocal of Direction.
	InvDir types.Vec3

	// Per-axis flag set when the ray travels towards -axis.
	DirIsNeg [3]bool

	// The valid parametric range.
	TMin float32
	TMax float32
}

// Create a ray from an origin and a direction. The direction is normalized so
// that the ray parameter measures distance.
func NewRay(origin, dir types.Vec3) Ray {
	r := Ray{
		Origin:    origin,
		Direction: dir.Normalize(),
		TMin:      0,
		TMax:      float32(math.Inf(1)),
	}
	r.InvDir = r.Direction.Inv()

	// Derive the sign from the reciprocal so -0 directions are flagged too.
	for axis := 0; axis < 3; axis++ {
		r.DirIsNeg[axis] = r.InvDir[axis] < 0
	}
	return r
}

// Evaluate the point at distance t along the ray.
func (r *Ray) At(t float32) types.Vec3 {
	return r.Origin.Add(r.Direction.Mul(t))
}

// Returns true if t lies inside the ray's valid range. TMin and TMax are
// excluded so that infinite distances never count as hits.
func (r *Ray) InRange(t float32) bool {
	return t > r.TMin && t < r.TMax
}
