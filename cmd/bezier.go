package cmd

import (
	"fmt"

	"github.com/Jianli-Huang/GAMES101/bezier"
	"github.com/urfave/cli"
)

// Sample a Bézier curve and print one "x y" pair per line.
func SampleBezier(ctx *cli.Context) error {
	setupLogging(ctx)

	points, err := parsePoints(ctx.String("points"))
	if err != nil {
		return err
	}

	samples, err := bezier.Sample(points, ctx.Int("segments"))
	if err != nil {
		return err
	}

	logger.Infof("sampled %d points from a degree %d curve", len(samples), len(points)-1)
	for _, p := range samples {
		fmt.Fprintf(ctx.App.Writer, "%g %g\n", p[0], p[1])
	}
	return nil
}
