// Package bezier evaluates Bézier curves over 2D control points.
package bezier

import (
	"errors"

	"github.com/Jianli-Huang/GAMES101/types"
)

// ErrNoControlPoints is returned when a curve has an empty control polygon.
var ErrNoControlPoints = errors.New("bezier: no control points")

// Eval returns the curve point at parameter t using de Casteljau's
// algorithm. Curves of any degree are supported; a single control point is
// a constant curve.
func Eval(points []types.Vec2, t float32) (types.Vec2, error) {
	if len(points) == 0 {
		return types.Vec2{}, ErrNoControlPoints
	}

	work := make([]types.Vec2, len(points))
	copy(work, points)
	for n := len(work) - 1; n > 0; n-- {
		for i := 0; i < n; i++ {
			work[i] = work[i].Lerp(work[i+1], t)
		}
	}
	return work[0], nil
}

// Cubic evaluates a cubic curve in its Bernstein form:
//
//	(1-t)^3 p0 + 3t(1-t)^2 p1 + 3t^2(1-t) p2 + t^3 p3
func Cubic(p0, p1, p2, p3 types.Vec2, t float32) types.Vec2 {
	mt := 1 - t
	return p0.Mul(mt * mt * mt).
		Add(p1.Mul(3 * t * mt * mt)).
		Add(p2.Mul(3 * t * t * mt)).
		Add(p3.Mul(t * t * t))
}

// Sample evaluates the curve at segments+1 evenly spaced parameters,
// including both end points.
func Sample(points []types.Vec2, segments int) ([]types.Vec2, error) {
	if len(points) == 0 {
		return nil, ErrNoControlPoints
	}
	if segments < 1 {
		segments = 1
	}

	out := make([]types.Vec2, segments+1)
	for i := range out {
		// Eval cannot fail past the length check above.
		out[i], _ = Eval(points, float32(i)/float32(segments))
	}
	return out, nil
}
