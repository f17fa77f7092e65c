package reader

import (
	"context"
	"runtime"

	"github.com/Jianli-Huang/GAMES101/accel"
	"github.com/Jianli-Huang/GAMES101/geometry"
	"golang.org/x/sync/errgroup"
)

// A named group of triangles parsed from a "g" or "o" statement.
type Mesh struct {
	Name      string
	Triangles []*geometry.Triangle
}

// A parsed scene: triangle meshes plus analytic shapes.
type Scene struct {
	Meshes []*Mesh
	Shapes []accel.Object
}

// Get the total number of triangles across all meshes.
func (s *Scene) TriangleCount() int {
	count := 0
	for _, mesh := range s.Meshes {
		count += len(mesh.Triangles)
	}
	return count
}

// Objects returns the scene contents as BVH objects. If flatten is set every
// triangle becomes a top-level object; otherwise each mesh is wrapped in a
// geometry.Mesh with its own BVH, built with opts. Meshes not yet started
// when ctx is cancelled are skipped and ctx.Err() is returned.
func (s *Scene) Objects(ctx context.Context, flatten bool, opts accel.Options) ([]accel.Object, error) {
	if flatten {
		objects := make([]accel.Object, 0, s.TriangleCount()+len(s.Shapes))
		for _, mesh := range s.Meshes {
			for _, tri := range mesh.Triangles {
				objects = append(objects, tri)
			}
		}
		return append(objects, s.Shapes...), nil
	}

	meshes := make([]accel.Object, len(s.Meshes))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for index, mesh := range s.Meshes {
		index, mesh := index, mesh
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			meshes[index] = geometry.NewMesh(mesh.Name, mesh.Triangles, opts)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return append(meshes, s.Shapes...), nil
}
