package accel

// The Object interface is implemented by all primitives that can be stored
// in a BVH. Implementations must return a tight, finite bounding box and must
// support concurrent Intersect calls.
type Object interface {
	Bounds() Bounds3

	// Intersect the ray with the object. Misses must return NoHit().
	Intersect(r *Ray) Intersection
}

// The Intersector interface is implemented by anything that answers nearest
// hit queries: objects, the BVH and the brute-force List.
type Intersector interface {
	Intersect(r *Ray) Intersection
}
