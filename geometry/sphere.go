package geometry

import (
	"math"

	"github.com/Jianli-Huang/GAMES101/accel"
	"github.com/Jianli-Huang/GAMES101/types"
)

type Sphere struct {
	Center types.Vec3
	Radius float32
}

// Create a sphere. Negative radii are flipped.
func NewSphere(center types.Vec3, radius float32) *Sphere {
	if radius < 0 {
		radius = -radius
	}
	return &Sphere{Center: center, Radius: radius}
}

// Get the sphere AABB.
func (s *Sphere) Bounds() accel.Bounds3 {
	ext := types.XYZ(s.Radius, s.Radius, s.Radius)
	return accel.Bounds3{
		Min: s.Center.Sub(ext),
		Max: s.Center.Add(ext),
	}
}

// Intersect returns the nearest root of |o + t*d - c|^2 = r^2 inside the
// ray range. Ray directions are unit length so the quadratic term is 1.
func (s *Sphere) Intersect(r *accel.Ray) accel.Intersection {
	l := r.Origin.Sub(s.Center)
	b := 2 * r.Direction.Dot(l)
	c := l.Dot(l) - s.Radius*s.Radius

	disc := b*b - 4*c
	if disc < 0 {
		return accel.NoHit()
	}
	sq := float32(math.Sqrt(float64(disc)))

	dist := (-b - sq) * 0.5
	if !r.InRange(dist) {
		dist = (-b + sq) * 0.5
		if !r.InRange(dist) {
			return accel.NoHit()
		}
	}

	hit := r.At(dist)
	return accel.Intersection{
		Happened: true,
		Distance: dist,
		Coords:   hit,
		Normal:   hit.Sub(s.Center).Normalize(),
		Object:   s,
	}
}
