package cmd

import (
	"fmt"

	"github.com/Jianli-Huang/GAMES101/accel"
	"github.com/urfave/cli"
)

// Trace a single ray through a scene and display the nearest hit.
func TraceRay(ctx *cli.Context) error {
	setupLogging(ctx)

	origin, err := parseVec3(ctx.String("origin"))
	if err != nil {
		return fmt.Errorf("invalid origin: %w", err)
	}
	dir, err := parseVec3(ctx.String("dir"))
	if err != nil {
		return fmt.Errorf("invalid direction: %w", err)
	}
	if dir.Len() == 0 {
		return fmt.Errorf("invalid direction: zero length vector")
	}

	runCtx, cancel := interruptContext()
	defer cancel()

	bvh, err := loadScene(ctx, runCtx)
	if err != nil {
		return err
	}

	r := accel.NewRay(origin, dir)
	res := bvh.Intersect(&r)
	if !res.Happened {
		fmt.Fprintln(ctx.App.Writer, "no hit")
		return nil
	}

	fmt.Fprintf(
		ctx.App.Writer,
		"hit %T at distance %g\n  point:  %v\n  normal: %v\n",
		res.Object, res.Distance, res.Coords, res.Normal,
	)
	return nil
}
