package analysis

import (
	"context"
	"fmt"

	"github.com/ironsheep/fractal-heatmap/internal/fractal"
	"github.com/ironsheep/fractal-heatmap/internal/grid"
	"github.com/ironsheep/fractal-heatmap/internal/heatmap"
)

// Binarization selects the thresholding strategy.
type Binarization int

const (
	// BinarizeOtsu picks the threshold adaptively per image.
	BinarizeOtsu Binarization = iota
	// BinarizeFixed uses the configured constant threshold.
	BinarizeFixed
)

// Palette selects the color mapping strategy for rendering.
type Palette int

const (
	// PaletteGradient blends continuously between keypoints.
	PaletteGradient Palette = iota
	// PaletteBuckets maps through discrete half-open value ranges.
	PaletteBuckets
)

// Payload selects which 2D array the caller-facing response carries
// alongside the heatmap: the dimension field or the binarized grid.
type Payload int

const (
	PayloadDimensionField Payload = iota
	PayloadGrayscale
)

// Config collects every tunable of the pipeline in one place. Nothing in
// the algorithm packages carries implicit defaults; callers start from
// DefaultConfig and override.
type Config struct {
	// GridSize is the standardized square canvas side the source grid is
	// cropped or zero-padded to before analysis.
	GridSize int

	// NeighborhoodSize is the window side examined around each pixel.
	NeighborhoodSize int

	// MinBoxSize and ScaleFactor drive the box-size progression
	// MinBoxSize, MinBoxSize·ScaleFactor, … while ≤ NeighborhoodSize/2.
	MinBoxSize  int
	ScaleFactor int

	// Binarization strategy, with Threshold used by BinarizeFixed and
	// Foreground the encoding of set pixels (1 or 255).
	Binarization Binarization
	Threshold    uint8
	Foreground   uint8

	// Occupancy is the box occupancy predicate.
	Occupancy fractal.Occupancy

	// Palette selects the heatmap color mapping.
	Palette Palette

	// Payload selects the 2D array reported back to the caller.
	Payload Payload
}

// DefaultConfig returns the tuning used by the service when the caller
// does not override anything.
func DefaultConfig() Config {
	return Config{
		GridSize:         256,
		NeighborhoodSize: 16,
		MinBoxSize:       1,
		ScaleFactor:      2,
		Binarization:     BinarizeOtsu,
		Threshold:        128,
		Foreground:       grid.ForegroundFull,
		Occupancy:        fractal.OccupancyAny,
		Palette:          PaletteGradient,
		Payload:          PayloadDimensionField,
	}
}

// Validate rejects configurations the pipeline cannot run.
func (c Config) Validate() error {
	if c.GridSize < 1 {
		return fmt.Errorf("%w: grid size %d", grid.ErrMalformedInput, c.GridSize)
	}
	if c.Foreground == 0 {
		return fmt.Errorf("foreground encoding must be non-zero")
	}
	return c.estimator().Validate()
}

func (c Config) estimator() fractal.Estimator {
	return fractal.Estimator{
		NeighborhoodSize: c.NeighborhoodSize,
		MinBoxSize:       c.MinBoxSize,
		ScaleFactor:      c.ScaleFactor,
		Occupancy:        c.Occupancy,
	}
}

func (c Config) binarizer() grid.Binarizer {
	if c.Binarization == BinarizeFixed {
		return grid.FixedThreshold{T: c.Threshold, Foreground: c.Foreground}
	}
	return grid.Otsu{Foreground: c.Foreground}
}

func (c Config) mapper() heatmap.Mapper {
	if c.Palette == PaletteBuckets {
		return heatmap.DimensionBuckets()
	}
	return heatmap.DimensionGradient()
}

// Result carries every intermediate the pipeline produced. All values are
// fresh per invocation and in-memory only; filenames and encoding belong
// to the caller and the codec collaborator.
type Result struct {
	Grid   grid.Grid     // normalized square intensity grid
	Binary grid.Grid     // binarized grid actually analyzed
	Field  fractal.Field // per-pixel fractal dimension estimates
	Raster *heatmap.Raster
}

// Analyze runs the full pipeline over a raw grayscale pixel buffer:
// grid build → normalize → binarize → per-pixel box counting → heatmap
// render. The computation is pure; ctx only bounds the per-pixel field
// build, which is the dominant cost.
func Analyze(ctx context.Context, pixels []byte, width int, cfg Config) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	g, err := grid.FromBytes(pixels, width)
	if err != nil {
		return nil, err
	}

	square := grid.Normalize(g, cfg.GridSize)
	binary := cfg.binarizer().Binarize(square)

	field, err := fractal.BuildField(ctx, binary, cfg.estimator())
	if err != nil {
		return nil, err
	}

	raster, err := heatmap.Render(field, cfg.mapper())
	if err != nil {
		return nil, err
	}

	return &Result{Grid: square, Binary: binary, Field: field, Raster: raster}, nil
}
