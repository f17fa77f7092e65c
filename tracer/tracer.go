package tracer

import (
	"bytes"
	"context"
	"fmt"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/Jianli-Huang/GAMES101/accel"
	"github.com/Jianli-Huang/GAMES101/log"
	"github.com/olekukonko/tablewriter"
	"golang.org/x/sync/errgroup"
)

// Default number of rays processed by a worker per block.
const DefaultBlockSize = 1024

type Options struct {
	// Max number of concurrent workers; 0 selects runtime.NumCPU().
	Workers int

	// Number of rays per block; 0 selects DefaultBlockSize.
	BlockSize int
}

func (o Options) normalize() Options {
	if o.Workers <= 0 {
		o.Workers = runtime.NumCPU()
	}
	if o.BlockSize <= 0 {
		o.BlockSize = DefaultBlockSize
	}
	return o
}

// Batch statistics.
type Stats struct {
	Rays    int
	Hits    int
	Blocks  int
	Workers int
	Elapsed time.Duration
}

// Get the traced rays per second.
func (s Stats) RaysPerSecond() float64 {
	if s.Elapsed <= 0 {
		return 0
	}
	return float64(s.Rays) / s.Elapsed.Seconds()
}

// Build a tabular representation of the batch statistics.
func (s Stats) Table() string {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetAutoFormatHeaders(false)
	table.SetHeader([]string{"Metric", "Value"})
	table.Append([]string{"Rays", fmt.Sprintf("%d", s.Rays)})
	table.Append([]string{"Hits", fmt.Sprintf("%d", s.Hits)})
	table.Append([]string{"Blocks", fmt.Sprintf("%d", s.Blocks)})
	table.Append([]string{"Workers", fmt.Sprintf("%d", s.Workers)})
	table.Append([]string{"Rays/sec", fmt.Sprintf("%.0f", s.RaysPerSecond())})
	table.SetFooter([]string{"Elapsed", s.Elapsed.String()})
	table.Render()
	return buf.String()
}

var logger = log.New("tracer")

// Trace finds the nearest intersection for each ray. Rays are split into
// blocks that are processed by a bounded pool of workers; results[i]
// corresponds to rays[i]. The scene must be safe for concurrent queries.
//
// Cancelling ctx stops the batch before the next block starts and Trace
// returns ctx.Err().
func Trace(ctx context.Context, scene accel.Intersector, rays []accel.Ray, opts Options) ([]accel.Intersection, Stats, error) {
	opts = opts.normalize()
	start := time.Now()

	results := make([]accel.Intersection, len(rays))
	stats := Stats{
		Rays:    len(rays),
		Blocks:  (len(rays) + opts.BlockSize - 1) / opts.BlockSize,
		Workers: opts.Workers,
	}
	if stats.Blocks < stats.Workers {
		stats.Workers = stats.Blocks
	}

	var hits int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Workers)
	for blockStart := 0; blockStart < len(rays); blockStart += opts.BlockSize {
		blockEnd := blockStart + opts.BlockSize
		if blockEnd > len(rays) {
			blockEnd = len(rays)
		}
		if gctx.Err() != nil {
			break
		}

		from, to := blockStart, blockEnd
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			var blockHits int64
			for i := from; i < to; i++ {
				// Work on a copy so callers can reuse the ray slice.
				r := rays[i]
				results[i] = scene.Intersect(&r)
				if results[i].Happened {
					blockHits++
				}
			}
			atomic.AddInt64(&hits, blockHits)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, stats, err
	}
	// Blocks that were never scheduled do not surface through the group.
	if err := ctx.Err(); err != nil {
		return nil, stats, err
	}

	stats.Hits = int(hits)
	stats.Elapsed = time.Since(start)
	logger.Debugf("traced %d rays in %d ms (%d blocks, %d workers)", stats.Rays, stats.Elapsed.Nanoseconds()/1e6, stats.Blocks, stats.Workers)
	return results, stats, nil
}

// Mismatches returns the indices where two result sets disagree on whether
// a hit happened or on the hit distance.
func Mismatches(exp, got []accel.Intersection) []int {
	var out []int
	for i := range exp {
		if i >= len(got) || exp[i].Happened != got[i].Happened || (exp[i].Happened && exp[i].Distance != got[i].Distance) {
			out = append(out, i)
		}
	}
	for i := len(exp); i < len(got); i++ {
		out = append(out, i)
	}
	return out
}
