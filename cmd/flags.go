package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"github.com/Jianli-Huang/GAMES101/accel"
	"github.com/Jianli-Huang/GAMES101/asset/reader"
	"github.com/Jianli-Huang/GAMES101/types"
	"github.com/urfave/cli"
)

// Build scene loading options from the split, max-prims and flatten flags.
func sceneOptions(ctx *cli.Context) (reader.Options, error) {
	method, err := accel.ParseSplitMethod(ctx.String("split"))
	if err != nil {
		return reader.Options{}, err
	}

	return reader.Options{
		Flatten: ctx.Bool("flatten"),
		Accel: accel.Options{
			MaxPrimsInNode: ctx.Int("max-prims"),
			SplitMethod:    method,
		},
	}, nil
}

// Load the scene passed as the single command argument.
func loadScene(ctx *cli.Context, runCtx context.Context) (*accel.BVHAccel, error) {
	if ctx.NArg() != 1 {
		return nil, errors.New("missing scene file argument")
	}

	opts, err := sceneOptions(ctx)
	if err != nil {
		return nil, err
	}
	return reader.ReadScene(runCtx, ctx.Args().First(), opts)
}

// Get a context that is cancelled on SIGINT.
func interruptContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

// Parse a "x y z" (or "x,y,z") vector.
func parseVec3(value string) (types.Vec3, error) {
	fields := strings.FieldsFunc(value, isSeparator)
	if len(fields) != 3 {
		return types.Vec3{}, fmt.Errorf("expected 3 vector components; got %d in %q", len(fields), value)
	}

	var v types.Vec3
	for i, field := range fields {
		f, err := strconv.ParseFloat(field, 32)
		if err != nil {
			return types.Vec3{}, fmt.Errorf("invalid vector component %q: %w", field, err)
		}
		v[i] = float32(f)
	}
	return v, nil
}

// Parse a whitespace separated list of "x,y" points.
func parsePoints(value string) ([]types.Vec2, error) {
	var points []types.Vec2
	for _, token := range strings.Fields(value) {
		coords := strings.Split(token, ",")
		if len(coords) != 2 {
			return nil, fmt.Errorf(`expected point in "x,y" format; got %q`, token)
		}

		var p types.Vec2
		for i, coord := range coords {
			f, err := strconv.ParseFloat(coord, 32)
			if err != nil {
				return nil, fmt.Errorf("invalid point coordinate %q: %w", coord, err)
			}
			p[i] = float32(f)
		}
		points = append(points, p)
	}
	return points, nil
}

func isSeparator(r rune) bool {
	return r == ',' || r == ' ' || r == '\t'
}
