package fractal

import (
	"github.com/ironsheep/fractal-heatmap/internal/grid"
)

// Neighborhood extracts the n×n window logically centered on (x, y).
//
// Offsets run over [−⌊n/2⌋, n−⌊n/2⌋) along both axes, which yields exactly
// n rows and n columns for both odd and even n. Samples outside the source
// grid contribute 0, so windows near the border systematically contain
// more zero-filled area than interior ones — an accepted bias of the
// zero-padding policy, not a defect.
func Neighborhood(g grid.Grid, x, y, n int) grid.Grid {
	start := -(n / 2)
	out := make(grid.Grid, n)
	for j := 0; j < n; j++ {
		row := make([]uint8, n)
		sy := y + start + j
		for i := 0; i < n; i++ {
			row[i] = g.At(x+start+i, sy)
		}
		out[j] = row
	}
	return out
}
