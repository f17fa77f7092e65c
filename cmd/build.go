package cmd

import (
	"fmt"

	"github.com/Jianli-Huang/GAMES101/asset/archive"
	"github.com/urfave/cli"
)

// Build a BVH for a scene, display its statistics and optionally write it
// to an archive.
func BuildScene(ctx *cli.Context) error {
	setupLogging(ctx)

	runCtx, cancel := interruptContext()
	defer cancel()

	logger.Noticef("building BVH for scene: %s", ctx.Args().First())
	bvh, err := loadScene(ctx, runCtx)
	if err != nil {
		return err
	}

	fmt.Fprintf(ctx.App.Writer, "BVH information (%s split):\n%s", bvh.Options().SplitMethod, bvh.Stats().Table())

	if out := ctx.String("out"); out != "" {
		return archive.Write(out, bvh)
	}
	return nil
}
