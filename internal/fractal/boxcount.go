package fractal

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/ironsheep/fractal-heatmap/internal/grid"
)

// ErrInsufficientSamples indicates a box-size progression too short for
// regression: fewer than 2 sizes fit the configured neighborhood, so no
// line can be fitted.
var ErrInsufficientSamples = errors.New("insufficient box-size samples for regression")

// Occupancy selects which boxes count as occupied during box counting.
// Both variants are legitimate fractal-counting definitions and appear in
// the literature, so the choice is configuration, not a fixed behavior.
type Occupancy int

const (
	// OccupancyAny counts a box when at least one pixel in it is non-zero.
	// This is the common box-counting definition and the default.
	OccupancyAny Occupancy = iota

	// OccupancyAll counts a box only when every pixel in it is non-zero.
	OccupancyAll
)

// Estimator computes a local fractal dimension from a binarized
// neighborhood via multi-scale box counting and log-log regression.
//
// Box sizes progress MinBoxSize, MinBoxSize·ScaleFactor, … while
// boxSize ≤ NeighborhoodSize/2. The inclusive bound is the pinned contract
// of this implementation: it guarantees at least two sizes for any
// neighborhood of side ≥ 4 with MinBoxSize 1 and ScaleFactor 2.
type Estimator struct {
	// NeighborhoodSize is the side length of the square window examined
	// around each pixel. Must be at least 2·MinBoxSize·ScaleFactor so the
	// progression yields two or more sizes.
	NeighborhoodSize int

	// MinBoxSize is the smallest box side in the progression. Must be ≥ 1.
	MinBoxSize int

	// ScaleFactor multiplies the box size between scales. Must be ≥ 2.
	ScaleFactor int

	// Occupancy selects the box occupancy predicate.
	Occupancy Occupancy
}

// Validate checks the progression up front so per-pixel estimation cannot
// fail midway through a field build.
func (e Estimator) Validate() error {
	if e.NeighborhoodSize < 1 || e.MinBoxSize < 1 || e.ScaleFactor < 2 {
		return fmt.Errorf("%w: neighborhood %d, min box %d, scale factor %d",
			ErrInsufficientSamples, e.NeighborhoodSize, e.MinBoxSize, e.ScaleFactor)
	}
	if len(e.boxSizes()) < 2 {
		return fmt.Errorf("%w: progression from %d by ×%d within neighborhood %d yields fewer than 2 sizes",
			ErrInsufficientSamples, e.MinBoxSize, e.ScaleFactor, e.NeighborhoodSize)
	}
	return nil
}

// boxSizes returns the progression under the pinned boxSize ≤ N/2 rule.
// The integer comparison 2·b ≤ N is exact for odd N as well.
func (e Estimator) boxSizes() []int {
	var sizes []int
	for b := e.MinBoxSize; 2*b <= e.NeighborhoodSize; b *= e.ScaleFactor {
		sizes = append(sizes, b)
	}
	return sizes
}

// Dimension estimates the local fractal dimension of a binarized
// neighborhood of side NeighborhoodSize.
//
// For each box size b the neighborhood is tiled into ⌈N/b⌉×⌈N/b⌉ boxes
// (edge boxes are clipped to the available pixels, never wrapped or
// skipped) and the boxes satisfying the occupancy predicate are counted.
// The data points (ln b, ln count) are fitted with ordinary least squares
// and the negated slope is returned.
//
// A zero count would put −∞ into the fit; by contract it is substituted
// with the sentinel 0 (positive zero, so serialized output is stable).
// The sentinel biases the fit toward flatness for sparse neighborhoods,
// which is accepted numerical policy rather than an error. A degenerate
// fit yields dimension 0 instead of NaN.
func (e Estimator) Dimension(neighborhood grid.Grid) (float64, error) {
	if err := e.Validate(); err != nil {
		return 0, err
	}
	return e.estimate(neighborhood, e.boxSizes()), nil
}

// estimate runs the counting and regression for a pre-validated size
// progression.
func (e Estimator) estimate(neighborhood grid.Grid, sizes []int) float64 {
	xs := make([]float64, len(sizes))
	ys := make([]float64, len(sizes))
	for i, b := range sizes {
		count := countBoxes(neighborhood, b, e.Occupancy)
		xs[i] = math.Log(float64(b))
		if count > 0 {
			ys[i] = math.Log(float64(count))
		}
	}

	_, slope := stat.LinearRegression(xs, ys, nil, false)
	if math.IsNaN(slope) || math.IsInf(slope, 0) || slope == 0 {
		// Flat and degenerate fits report +0 so serialized fields never
		// carry a negative zero.
		return 0
	}
	return -slope
}

// countBoxes tiles the neighborhood with boxes of side b and counts the
// ones satisfying the occupancy predicate. Boxes that run past the edge
// are clipped to the pixels that exist.
func countBoxes(g grid.Grid, b int, occ Occupancy) int {
	side := len(g)
	count := 0
	for by := 0; by < side; by += b {
		yEnd := by + b
		if yEnd > side {
			yEnd = side
		}
		for bx := 0; bx < side; bx += b {
			xEnd := bx + b
			if xEnd > side {
				xEnd = side
			}
			if boxOccupied(g, bx, by, xEnd, yEnd, occ) {
				count++
			}
		}
	}
	return count
}

func boxOccupied(g grid.Grid, x0, y0, x1, y1 int, occ Occupancy) bool {
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			filled := g[y][x] != 0
			switch occ {
			case OccupancyAll:
				if !filled {
					return false
				}
			default:
				if filled {
					return true
				}
			}
		}
	}
	return occ == OccupancyAll
}
