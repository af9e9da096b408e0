package fractal

import (
	"context"
	"runtime"
	"sync"

	"github.com/ironsheep/fractal-heatmap/internal/grid"
)

// Field holds per-pixel fractal dimension estimates. Cell (y,x) is the
// local dimension of the neighborhood centered at (x,y) in the source
// grid; the field has exactly the source grid's shape.
type Field [][]float64

// BuildField estimates the fractal dimension at every pixel of g.
//
// Each cell is independent of every other cell, so rows are distributed
// over a worker pool sized to the available CPUs. Workers write only to
// their own pre-sized output rows, so no locking is needed. Cancellation
// is honored between rows: a worker observing ctx.Done() stops before
// starting its next row, and BuildField returns ctx.Err(). Rows completed
// before cancellation are simply discarded with the partial field.
func BuildField(ctx context.Context, g grid.Grid, est Estimator) (Field, error) {
	if err := est.Validate(); err != nil {
		return nil, err
	}

	height := g.Height()
	width := g.Width()
	sizes := est.boxSizes()

	field := make(Field, height)
	for y := range field {
		field[y] = make([]float64, width)
	}

	workers := runtime.NumCPU()
	if workers > height {
		workers = height
	}
	if workers < 1 {
		workers = 1
	}

	rows := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for y := range rows {
				for x := 0; x < width; x++ {
					field[y][x] = est.estimate(Neighborhood(g, x, y, est.NeighborhoodSize), sizes)
				}
			}
		}()
	}

	var cancelled error
feed:
	for y := 0; y < height; y++ {
		if err := ctx.Err(); err != nil {
			cancelled = err
			break
		}
		select {
		case rows <- y:
		case <-ctx.Done():
			cancelled = ctx.Err()
			break feed
		}
	}
	close(rows)
	wg.Wait()

	if cancelled != nil {
		return nil, cancelled
	}
	return field, nil
}
