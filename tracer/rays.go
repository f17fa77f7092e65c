package tracer

import (
	"math"
	"math/rand"

	"github.com/Jianli-Huang/GAMES101/accel"
	"github.com/Jianli-Huang/GAMES101/types"
)

// RandomRays generates n rays that start on a sphere enclosing bounds and
// point at a random location inside bounds. The same seed always produces
// the same rays.
func RandomRays(bounds accel.Bounds3, n int, seed int64) []accel.Ray {
	if bounds.IsEmpty() {
		bounds = accel.NewBounds(types.XYZ(-1, -1, -1), types.XYZ(1, 1, 1))
	}

	center := bounds.Centroid()
	diag := bounds.Diagonal()
	radius := diag.Len()*0.5 + 1

	rng := rand.New(rand.NewSource(seed))
	rays := make([]accel.Ray, n)
	for i := range rays {
		// Uniform direction on the unit sphere.
		z := rng.Float64()*2 - 1
		phi := rng.Float64() * 2 * math.Pi
		s := math.Sqrt(1 - z*z)
		onSphere := types.XYZ(float32(s*math.Cos(phi)), float32(s*math.Sin(phi)), float32(z))
		origin := center.Add(onSphere.Mul(radius))

		target := types.XYZ(
			bounds.Min[0]+rng.Float32()*diag[0],
			bounds.Min[1]+rng.Float32()*diag[1],
			bounds.Min[2]+rng.Float32()*diag[2],
		)

		dir := target.Sub(origin)
		if dir.Len() == 0 {
			dir = onSphere.Mul(-1)
		}
		rays[i] = accel.NewRay(origin, dir)
	}
	return rays
}
