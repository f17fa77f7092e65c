package accel

// List tests a ray against every object. It serves as the reference result
// for the BVH.
type List []Object

// Intersect returns the nearest hit among all objects.
func (l List) Intersect(r *Ray) Intersection {
	isect := NoHit()
	for _, obj := range l {
		isect = Closer(isect, obj.Intersect(r))
	}
	return isect
}

// Get the union of all object bounds.
func (l List) Bounds() Bounds3 {
	b := EmptyBounds()
	for _, obj := range l {
		b = Union(b, obj.Bounds())
	}
	return b
}
