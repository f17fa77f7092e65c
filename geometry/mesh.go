package geometry

import (
	"encoding/gob"

	"github.com/Jianli-Huang/GAMES101/accel"
)

// A Mesh is a named set of triangles with its own BVH. Meshes are objects
// themselves so a scene BVH over meshes forms a two-level hierarchy.
type Mesh struct {
	Name  string
	Accel *accel.BVHAccel
}

// Create a mesh and build its BVH.
func NewMesh(name string, triangles []*Triangle, opts accel.Options) *Mesh {
	objects := make([]accel.Object, len(triangles))
	for i, tri := range triangles {
		objects[i] = tri
	}
	return &Mesh{
		Name:  name,
		Accel: accel.New(objects, opts),
	}
}

// Get the mesh AABB.
func (m *Mesh) Bounds() accel.Bounds3 {
	return m.Accel.Bounds()
}

// Intersect the mesh BVH. The returned Object is the triangle that was hit.
func (m *Mesh) Intersect(r *accel.Ray) accel.Intersection {
	return m.Accel.Intersect(r)
}

// Get the number of triangles.
func (m *Mesh) Len() int {
	return m.Accel.Len()
}

// Get the total surface area.
func (m *Mesh) Area() float32 {
	var area float32
	for _, obj := range m.Accel.Objects() {
		if tri, ok := obj.(*Triangle); ok {
			area += tri.Area()
		}
	}
	return area
}

func init() {
	gob.Register(&Triangle{})
	gob.Register(&Sphere{})
	gob.Register(&Box{})
	gob.Register(&Mesh{})
}
