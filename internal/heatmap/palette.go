package heatmap

import (
	"errors"
	"fmt"
	"sort"

	"github.com/lucasb-eyer/go-colorful"
)

// ErrPaletteGap indicates a field value with no covering palette entry.
// Gaps fail loudly rather than defaulting to a silent fallback color, so a
// miscalibrated palette is caught instead of rendering misleading output.
var ErrPaletteGap = errors.New("value outside palette coverage")

// RGB is one rendered pixel.
type RGB struct {
	R, G, B uint8
}

// Mapper maps a scalar fractal-dimension value to a color. Implementations
// must be exhaustive over their declared domain and return ErrPaletteGap
// outside it.
type Mapper interface {
	Map(v float64) (RGB, error)
}

// Stop is a gradient keypoint: the color taken exactly at position Pos.
type Stop struct {
	Col colorful.Color
	Pos float64
}

// Gradient maps values continuously by blending between keypoints in Luv
// space, which interpolates perceptually more evenly than raw RGB.
//
// The domain is [stops[0].Pos, stops[len-1].Pos]; values outside it are a
// palette gap. Within the domain coverage is exhaustive by construction.
type Gradient struct {
	stops []Stop
}

// NewGradient builds a gradient from at least two keypoints. Stops are
// sorted by position.
func NewGradient(stops []Stop) (*Gradient, error) {
	if len(stops) < 2 {
		return nil, fmt.Errorf("gradient needs at least 2 stops, got %d", len(stops))
	}
	sorted := make([]Stop, len(stops))
	copy(sorted, stops)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Pos < sorted[j].Pos })
	return &Gradient{stops: sorted}, nil
}

// DimensionGradient is the default palette for box-counting output: cold
// blue for flat regions through yellow to hot red as the local dimension
// approaches 2.
func DimensionGradient() *Gradient {
	g, _ := NewGradient([]Stop{
		{colorful.Color{R: 0.0, G: 0.0, B: 0.5}, 0.0},
		{colorful.Color{R: 0.0, G: 0.6, B: 1.0}, 0.7},
		{colorful.Color{R: 1.0, G: 0.9, B: 0.0}, 1.4},
		{colorful.Color{R: 1.0, G: 0.0, B: 0.0}, 2.0},
	})
	return g
}

// Map blends the two keypoints surrounding v.
func (g *Gradient) Map(v float64) (RGB, error) {
	first := g.stops[0]
	last := g.stops[len(g.stops)-1]
	if v < first.Pos || v > last.Pos {
		return RGB{}, fmt.Errorf("%w: %g outside gradient domain [%g, %g]",
			ErrPaletteGap, v, first.Pos, last.Pos)
	}
	for i := 0; i < len(g.stops)-1; i++ {
		lo, hi := g.stops[i], g.stops[i+1]
		if v <= hi.Pos {
			t := 0.0
			if hi.Pos > lo.Pos {
				t = (v - lo.Pos) / (hi.Pos - lo.Pos)
			}
			r, gc, b := lo.Col.BlendLuv(hi.Col, t).Clamped().RGB255()
			return RGB{r, gc, b}, nil
		}
	}
	r, gc, b := last.Col.RGB255()
	return RGB{r, gc, b}, nil
}

// Bucket is one half-open range [Lo, Hi) carrying a fixed color. The final
// bucket of a palette is treated as closed at Hi so the domain's upper
// edge has a color.
type Bucket struct {
	Lo, Hi float64
	Col    RGB
}

// Buckets maps values by discrete range lookup.
type Buckets struct {
	buckets []Bucket
}

// NewBuckets builds a discrete palette. Buckets are sorted by lower bound
// and must be contiguous: a hole between adjacent buckets would make some
// in-domain value unmappable, so it is rejected at construction time
// rather than surfacing later as a per-pixel palette gap.
func NewBuckets(buckets []Bucket) (*Buckets, error) {
	if len(buckets) == 0 {
		return nil, errors.New("bucket palette needs at least 1 bucket")
	}
	sorted := make([]Bucket, len(buckets))
	copy(sorted, buckets)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Lo < sorted[j].Lo })
	for i, b := range sorted {
		if b.Hi <= b.Lo {
			return nil, fmt.Errorf("bucket %d has empty range [%g, %g)", i, b.Lo, b.Hi)
		}
		if i > 0 && sorted[i-1].Hi != b.Lo {
			return nil, fmt.Errorf("gap between bucket %d ending %g and bucket %d starting %g",
				i-1, sorted[i-1].Hi, i, b.Lo)
		}
	}
	return &Buckets{buckets: sorted}, nil
}

// DimensionBuckets is a discrete palette over [0, 2] in 0.25 steps,
// stepping from deep blue to red.
func DimensionBuckets() *Buckets {
	b, _ := NewBuckets([]Bucket{
		{0.00, 0.25, RGB{0, 0, 128}},
		{0.25, 0.50, RGB{0, 64, 192}},
		{0.50, 0.75, RGB{0, 128, 255}},
		{0.75, 1.00, RGB{0, 200, 200}},
		{1.00, 1.25, RGB{128, 220, 64}},
		{1.25, 1.50, RGB{255, 220, 0}},
		{1.50, 1.75, RGB{255, 128, 0}},
		{1.75, 2.00, RGB{255, 0, 0}},
	})
	return b
}

// Map finds the bucket covering v. Lookups honor the half-open convention
// except at the very top of the domain, which belongs to the last bucket.
func (b *Buckets) Map(v float64) (RGB, error) {
	last := b.buckets[len(b.buckets)-1]
	if v == last.Hi {
		return last.Col, nil
	}
	for _, bucket := range b.buckets {
		if v >= bucket.Lo && v < bucket.Hi {
			return bucket.Col, nil
		}
	}
	return RGB{}, fmt.Errorf("%w: %g outside bucket coverage [%g, %g]",
		ErrPaletteGap, v, b.buckets[0].Lo, last.Hi)
}
