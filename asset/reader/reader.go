package reader

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/Jianli-Huang/GAMES101/accel"
	"github.com/Jianli-Huang/GAMES101/asset"
	"github.com/Jianli-Huang/GAMES101/asset/archive"
)

type Options struct {
	// Build a single-level BVH over all triangles instead of one BVH per mesh.
	Flatten bool

	// Options for every BVH built while loading the scene.
	Accel accel.Options
}

// ReadScene loads a BVH from filename. Wavefront (.obj) scenes are parsed and
// built with opts; archives (.zip) are loaded as-is.
func ReadScene(ctx context.Context, filename string, opts Options) (*accel.BVHAccel, error) {
	res, err := asset.Open(ctx, filename, nil)
	if err != nil {
		return nil, err
	}
	defer res.Close()

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".obj":
		sc, err := ReadWavefront(ctx, res)
		if err != nil {
			return nil, err
		}
		objects, err := sc.Objects(ctx, opts.Flatten, opts.Accel)
		if err != nil {
			return nil, err
		}
		return accel.New(objects, opts.Accel), nil
	case ".zip":
		return archive.Read(res)
	}
	return nil, fmt.Errorf("readScene: unsupported file format %q", filepath.Ext(filename))
}
