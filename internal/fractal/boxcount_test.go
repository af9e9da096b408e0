package fractal

import (
	"errors"
	"math"
	"testing"

	"github.com/ironsheep/fractal-heatmap/internal/grid"
)

func TestEstimator_BoxSizes(t *testing.T) {
	tests := []struct {
		name string
		est  Estimator
		want []int
	}{
		// The stopping condition is pinned to boxSize <= N/2.
		{"n=4 reaches 2", Estimator{NeighborhoodSize: 4, MinBoxSize: 1, ScaleFactor: 2}, []int{1, 2}},
		{"n=16", Estimator{NeighborhoodSize: 16, MinBoxSize: 1, ScaleFactor: 2}, []int{1, 2, 4, 8}},
		{"n=5 odd bound", Estimator{NeighborhoodSize: 5, MinBoxSize: 1, ScaleFactor: 2}, []int{1, 2}},
		{"factor 3", Estimator{NeighborhoodSize: 18, MinBoxSize: 1, ScaleFactor: 3}, []int{1, 3, 9}},
		{"min box 2", Estimator{NeighborhoodSize: 16, MinBoxSize: 2, ScaleFactor: 2}, []int{2, 4, 8}},
		{"too small", Estimator{NeighborhoodSize: 2, MinBoxSize: 1, ScaleFactor: 2}, []int{1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.est.boxSizes()
			if len(got) != len(tt.want) {
				t.Fatalf("sizes: got %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("sizes: got %v, want %v", got, tt.want)
				}
			}
		})
	}
}

func TestEstimator_Validate(t *testing.T) {
	tests := []struct {
		name    string
		est     Estimator
		wantErr bool
	}{
		{"ok", Estimator{NeighborhoodSize: 16, MinBoxSize: 1, ScaleFactor: 2}, false},
		{"one size only", Estimator{NeighborhoodSize: 2, MinBoxSize: 1, ScaleFactor: 2}, true},
		{"zero neighborhood", Estimator{NeighborhoodSize: 0, MinBoxSize: 1, ScaleFactor: 2}, true},
		{"zero min box", Estimator{NeighborhoodSize: 16, MinBoxSize: 0, ScaleFactor: 2}, true},
		{"scale factor 1 would never terminate", Estimator{NeighborhoodSize: 16, MinBoxSize: 1, ScaleFactor: 1}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.est.Validate()
			if tt.wantErr && !errors.Is(err, ErrInsufficientSamples) {
				t.Errorf("got %v, want ErrInsufficientSamples", err)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestCountBoxes_FilledNeighborhood(t *testing.T) {
	// A fully foreground window counts exactly (N/b)² boxes at every size,
	// under both occupancy predicates.
	nb := filledGrid(16, 255)

	for _, b := range []int{1, 2, 4, 8} {
		want := (16 / b) * (16 / b)
		for _, occ := range []Occupancy{OccupancyAny, OccupancyAll} {
			if got := countBoxes(nb, b, occ); got != want {
				t.Errorf("b=%d occ=%d: got %d, want %d", b, occ, got, want)
			}
		}
	}
}

func TestCountBoxes_ClipsEdgeBoxes(t *testing.T) {
	// 5x5 window with b=2 tiles into ceil(5/2)=3 boxes per axis; the edge
	// boxes are clipped, not skipped, so a filled grid counts all 9.
	nb := filledGrid(5, 1)

	if got := countBoxes(nb, 2, OccupancyAny); got != 9 {
		t.Errorf("clipped tiling: got %d boxes, want 9", got)
	}
	if got := countBoxes(nb, 2, OccupancyAll); got != 9 {
		t.Errorf("clipped tiling (all): got %d boxes, want 9", got)
	}
}

func TestCountBoxes_Occupancy(t *testing.T) {
	// Checkerboard: every 2x2 box holds exactly 2 foreground pixels.
	nb := make(grid.Grid, 4)
	for y := range nb {
		nb[y] = make([]uint8, 4)
		for x := range nb[y] {
			if (x+y)%2 == 0 {
				nb[y][x] = 1
			}
		}
	}

	if got := countBoxes(nb, 2, OccupancyAny); got != 4 {
		t.Errorf("any: got %d, want 4", got)
	}
	if got := countBoxes(nb, 2, OccupancyAll); got != 0 {
		t.Errorf("all: got %d, want 0", got)
	}
	// b=1 boxes are single pixels, where the predicates agree.
	if got := countBoxes(nb, 1, OccupancyAny); got != 8 {
		t.Errorf("any b=1: got %d, want 8", got)
	}
	if got := countBoxes(nb, 1, OccupancyAll); got != 8 {
		t.Errorf("all b=1: got %d, want 8", got)
	}
}

func TestDimension_FilledRegion(t *testing.T) {
	// Counts (N/b)² at every size lie exactly on a log-log line of slope
	// -2, so the fit must recover dimension 2 to regression precision.
	est := Estimator{NeighborhoodSize: 16, MinBoxSize: 1, ScaleFactor: 2, Occupancy: OccupancyAny}

	d, err := est.Dimension(filledGrid(16, 255))
	if err != nil {
		t.Fatalf("Dimension failed: %v", err)
	}
	if math.Abs(d-2.0) > 1e-9 {
		t.Errorf("filled region dimension: got %.12f, want 2.0", d)
	}
}

func TestDimension_EmptyRegion(t *testing.T) {
	// Every count is 0, every ln substituted with the 0 sentinel: the fit
	// is a flat line and the dimension is 0, not NaN.
	est := Estimator{NeighborhoodSize: 16, MinBoxSize: 1, ScaleFactor: 2, Occupancy: OccupancyAny}

	d, err := est.Dimension(filledGrid(16, 0))
	if err != nil {
		t.Fatalf("Dimension failed: %v", err)
	}
	if d != 0 {
		t.Errorf("empty region dimension: got %g, want 0", d)
	}
}

func TestDimension_SmallFilledProgression(t *testing.T) {
	// 4x4 all-foreground with B_min=1, k=2 pins the stopping condition:
	// sizes [1, 2] with counts [16, 4], slope -2, dimension 2.
	est := Estimator{NeighborhoodSize: 4, MinBoxSize: 1, ScaleFactor: 2, Occupancy: OccupancyAny}
	nb := filledGrid(4, 1)

	if got := countBoxes(nb, 1, est.Occupancy); got != 16 {
		t.Errorf("count at b=1: got %d, want 16", got)
	}
	if got := countBoxes(nb, 2, est.Occupancy); got != 4 {
		t.Errorf("count at b=2: got %d, want 4", got)
	}

	d, err := est.Dimension(nb)
	if err != nil {
		t.Fatalf("Dimension failed: %v", err)
	}
	if math.Abs(d-2.0) > 1e-9 {
		t.Errorf("dimension: got %.12f, want 2.0", d)
	}
}

func TestDimension_InsufficientSamples(t *testing.T) {
	est := Estimator{NeighborhoodSize: 2, MinBoxSize: 1, ScaleFactor: 2}

	if _, err := est.Dimension(filledGrid(2, 1)); !errors.Is(err, ErrInsufficientSamples) {
		t.Errorf("got %v, want ErrInsufficientSamples", err)
	}
}

func TestDimension_SentinelBiasesSparseAllPredicate(t *testing.T) {
	// Under OccupancyAll a checkerboard counts 8 single-pixel boxes but no
	// fully filled 2x2 box. The zero count becomes the ln sentinel 0,
	// steepening the fit past 2 — the documented bias of the policy.
	est := Estimator{NeighborhoodSize: 4, MinBoxSize: 1, ScaleFactor: 2, Occupancy: OccupancyAll}
	nb := make(grid.Grid, 4)
	for y := range nb {
		nb[y] = make([]uint8, 4)
		for x := range nb[y] {
			if (x+y)%2 == 0 {
				nb[y][x] = 1
			}
		}
	}

	d, err := est.Dimension(nb)
	if err != nil {
		t.Fatalf("Dimension failed: %v", err)
	}
	// Points (0, ln 8) and (ln 2, 0): slope -ln8/ln2 = -3.
	if math.Abs(d-3.0) > 1e-9 {
		t.Errorf("dimension: got %.12f, want 3.0", d)
	}
}

func TestDimension_PartiallyFilledBetweenBounds(t *testing.T) {
	// Half-plane fill: structure with a straight boundary should land in
	// (0, 2] and stay finite.
	est := Estimator{NeighborhoodSize: 16, MinBoxSize: 1, ScaleFactor: 2, Occupancy: OccupancyAny}
	nb := make(grid.Grid, 16)
	for y := range nb {
		nb[y] = make([]uint8, 16)
		for x := range nb[y] {
			if x < 8 {
				nb[y][x] = 1
			}
		}
	}

	d, err := est.Dimension(nb)
	if err != nil {
		t.Fatalf("Dimension failed: %v", err)
	}
	if d <= 0 || d > 2+1e-9 || math.IsNaN(d) {
		t.Errorf("half-filled dimension out of range: %g", d)
	}
}
