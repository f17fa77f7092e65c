package main

import (
	"fmt"
	"os"

	"github.com/Jianli-Huang/GAMES101/cmd"
	"github.com/urfave/cli"
)

// Flags shared by all commands that load a scene.
var sceneFlags = []cli.Flag{
	cli.StringFlag{
		Name:  "split",
		Value: "sah",
		Usage: "BVH split method: sah or middle",
	},
	cli.IntFlag{
		Name:  "max-prims",
		Value: 1,
		Usage: "max primitives per BVH leaf (1-255)",
	},
	cli.BoolFlag{
		Name:  "flatten",
		Usage: "build a single BVH over all triangles instead of one BVH per mesh",
	},
}

func main() {
	cli.VersionFlag = cli.BoolFlag{
		Name:  "version",
		Usage: "print only the version",
	}

	app := cli.NewApp()
	app.Name = "bvhaccel"
	app.Usage = "build and query bounding volume hierarchies"
	app.Version = "0.0.1"
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "v",
			Usage: "enable verbose logging",
		},
		cli.BoolFlag{
			Name:  "vv",
			Usage: "enable even more verbose logging",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:  "build",
			Usage: "build a BVH for a scene and display its statistics",
			Description: `
Parse a scene definition from a wavefront obj file (or load a previously built
archive) and build a BVH tree to optimize ray intersection tests.

The tree can optionally be written to a zip archive which can be supplied as
the scene argument to the other commands.`,
			ArgsUsage: "scene.obj",
			Flags: append([]cli.Flag{
				cli.StringFlag{
					Name:  "out, o",
					Usage: "write the BVH to this zip archive",
				},
			}, sceneFlags...),
			Action: cmd.BuildScene,
		},
		{
			Name:      "trace",
			Usage:     "trace a single ray and display the nearest hit",
			ArgsUsage: "scene.obj|scene.zip",
			Flags: append([]cli.Flag{
				cli.StringFlag{
					Name:  "origin",
					Value: "0 0 0",
					Usage: `ray origin as "x y z"`,
				},
				cli.StringFlag{
					Name:  "dir",
					Value: "0 0 -1",
					Usage: `ray direction as "x y z"`,
				},
			}, sceneFlags...),
			Action: cmd.TraceRay,
		},
		{
			Name:  "bench",
			Usage: "trace random rays through a scene",
			Description: `
Generate random rays aimed at the scene bounds and trace them in parallel. With
--verify the same rays are traced by testing every object and the command fails
if any result differs.`,
			ArgsUsage: "scene.obj|scene.zip",
			Flags: append([]cli.Flag{
				cli.IntFlag{
					Name:  "rays",
					Value: 100000,
					Usage: "number of rays to trace",
				},
				cli.IntFlag{
					Name:  "workers",
					Usage: "number of tracing workers (0 = number of CPUs)",
				},
				cli.IntFlag{
					Name:  "block-size",
					Usage: "rays per work block (0 = default)",
				},
				cli.Int64Flag{
					Name:  "seed",
					Value: 1,
					Usage: "random seed for ray generation",
				},
				cli.BoolFlag{
					Name:  "verify",
					Usage: "compare results against a brute force scan",
				},
			}, sceneFlags...),
			Action: cmd.Bench,
		},
		{
			Name:  "bezier",
			Usage: "sample a bezier curve",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "points",
					Value: "0,0 100,300 400,350 600,50",
					Usage: `control points as "x,y x,y ..."`,
				},
				cli.IntFlag{
					Name:  "segments",
					Value: 100,
					Usage: "number of curve segments",
				},
			},
			Action: cmd.SampleBezier,
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", err)
		os.Exit(1)
	}
}
