package cmd

import (
	"fmt"

	"github.com/Jianli-Huang/GAMES101/accel"
	"github.com/Jianli-Huang/GAMES101/tracer"
	"github.com/urfave/cli"
)

// Trace random rays through a scene BVH and optionally verify the results
// against a brute-force scan of the same objects.
func Bench(ctx *cli.Context) error {
	setupLogging(ctx)

	runCtx, cancel := interruptContext()
	defer cancel()

	bvh, err := loadScene(ctx, runCtx)
	if err != nil {
		return err
	}

	rays := tracer.RandomRays(bvh.Bounds(), ctx.Int("rays"), ctx.Int64("seed"))
	opts := tracer.Options{
		Workers:   ctx.Int("workers"),
		BlockSize: ctx.Int("block-size"),
	}

	logger.Noticef("tracing %d rays", len(rays))
	results, stats, err := tracer.Trace(runCtx, bvh, rays, opts)
	if err != nil {
		return err
	}
	fmt.Fprintf(ctx.App.Writer, "BVH:\n%s", stats.Table())

	if !ctx.Bool("verify") {
		return nil
	}

	logger.Notice("verifying results against brute force")
	list := accel.List(bvh.Objects())
	expected, listStats, err := tracer.Trace(runCtx, list, rays, opts)
	if err != nil {
		return err
	}
	fmt.Fprintf(ctx.App.Writer, "Brute force:\n%s", listStats.Table())

	if mismatches := tracer.Mismatches(expected, results); len(mismatches) != 0 {
		return fmt.Errorf("bench: %d of %d rays disagree with brute force (first mismatch at ray %d)", len(mismatches), len(rays), mismatches[0])
	}

	if stats.Elapsed > 0 {
		fmt.Fprintf(ctx.App.Writer, "verified %d rays; speedup: %.1fx\n", len(rays), float64(listStats.Elapsed)/float64(stats.Elapsed))
	}
	return nil
}
