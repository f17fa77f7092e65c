package geometry

import (
	"github.com/Jianli-Huang/GAMES101/accel"
	"github.com/Jianli-Huang/GAMES101/types"
)

// Determinants below this threshold mean the ray is parallel to the
// triangle plane (or the triangle is degenerate).
const detEpsilon float32 = 1e-10

// A Triangle primitive. Edges and normal are cached at construction time.
type Triangle struct {
	V0, V1, V2 types.Vec3

	E1, E2 types.Vec3
	Normal types.Vec3
}

// Create a triangle from three vertices in counter-clockwise order.
func NewTriangle(v0, v1, v2 types.Vec3) *Triangle {
	e1 := v1.Sub(v0)
	e2 := v2.Sub(v0)
	return &Triangle{
		V0:     v0,
		V1:     v1,
		V2:     v2,
		E1:     e1,
		E2:     e2,
		Normal: e1.Cross(e2).Normalize(),
	}
}

// Get the triangle AABB.
func (t *Triangle) Bounds() accel.Bounds3 {
	return accel.UnionPoint(accel.NewBounds(t.V0, t.V1), t.V2)
}

// Get the triangle area.
func (t *Triangle) Area() float32 {
	return t.E1.Cross(t.E2).Len() * 0.5
}

// Get the triangle centroid.
func (t *Triangle) Center() types.Vec3 {
	return t.V0.Add(t.V1).Add(t.V2).Mul(1.0 / 3.0)
}

// Intersect uses the Möller-Trumbore algorithm. The barycentric coordinates
// (u, v) of the hit are returned as a types.Vec2 in the intersection Data.
func (t *Triangle) Intersect(r *accel.Ray) accel.Intersection {
	pvec := r.Direction.Cross(t.E2)
	det := t.E1.Dot(pvec)
	if det > -detEpsilon && det < detEpsilon {
		return accel.NoHit()
	}
	invDet := 1 / det

	tvec := r.Origin.Sub(t.V0)
	u := tvec.Dot(pvec) * invDet
	if u < 0 || u > 1 {
		return accel.NoHit()
	}

	qvec := tvec.Cross(t.E1)
	v := r.Direction.Dot(qvec) * invDet
	if v < 0 || u+v > 1 {
		return accel.NoHit()
	}

	dist := t.E2.Dot(qvec) * invDet
	if !r.InRange(dist) {
		return accel.NoHit()
	}

	return accel.Intersection{
		Happened: true,
		Distance: dist,
		Coords:   r.At(dist),
		Normal:   t.Normal,
		Object:   t,
		Data:     types.XY(u, v),
	}
}
