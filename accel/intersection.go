package accel

import (
	"math"

	"github.com/Jianli-Huang/GAMES101/types"
)

// Intersection describes the result of a ray query.
type Intersection struct {
	Happened bool

	// Distance along the ray; +Inf when nothing was hit.
	Distance float32

	// Hit point and surface normal.
	Coords types.Vec3
	Normal types.Vec3

	// The primitive that was hit.
	Object Object

	// Opaque primitive-supplied shading data.
	Data interface{}
}

// Get the "no hit" intersection.
func NoHit() Intersection {
	return Intersection{Distance: float32(math.Inf(1))}
}

// Closer returns whichever of a and b lies nearer along the ray. A miss has
// infinite distance so any hit wins over it.
func Closer(a, b Intersection) Intersection {
	if a.Distance < b.Distance {
		return a
	}
	return b
}
