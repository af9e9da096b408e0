package grid

import (
	"errors"
	"fmt"
)

// ErrMalformedInput indicates a pixel buffer that does not describe a
// rectangular grid: a length that is not a multiple of the stated width,
// or a zero dimension.
var ErrMalformedInput = errors.New("malformed input grid")

// Grid is a row-major rectangular grid of 8-bit intensity samples.
//
// Every row has the same length. A Grid is built once and treated as
// immutable afterwards; all operations in this package return new grids
// rather than mutating their input.
type Grid [][]uint8

// FromBytes partitions a flat grayscale pixel buffer into consecutive rows
// of width samples each.
//
// The buffer length must divide evenly by width; a remainder is a caller
// contract violation and fails with ErrMalformedInput. No resampling or
// interpolation occurs.
func FromBytes(data []byte, width int) (Grid, error) {
	if width <= 0 {
		return nil, fmt.Errorf("%w: width %d", ErrMalformedInput, width)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty pixel buffer", ErrMalformedInput)
	}
	if len(data)%width != 0 {
		return nil, fmt.Errorf("%w: buffer length %d not a multiple of width %d",
			ErrMalformedInput, len(data), width)
	}

	height := len(data) / width
	g := make(Grid, height)
	for y := 0; y < height; y++ {
		row := make([]uint8, width)
		copy(row, data[y*width:(y+1)*width])
		g[y] = row
	}
	return g, nil
}

// Width returns the number of columns, or 0 for an empty grid.
func (g Grid) Width() int {
	if len(g) == 0 {
		return 0
	}
	return len(g[0])
}

// Height returns the number of rows.
func (g Grid) Height() int {
	return len(g)
}

// At returns the sample at (x, y), or 0 when the coordinate lies outside
// the grid. Out-of-bounds reads are deliberate: neighborhood extraction
// relies on zero padding past the borders.
func (g Grid) At(x, y int) uint8 {
	if y < 0 || y >= len(g) {
		return 0
	}
	row := g[y]
	if x < 0 || x >= len(row) {
		return 0
	}
	return row[x]
}

// Normalize crops or pads g to a size×size square, independently per axis.
//
// Rows and columns beyond size are truncated (the first size are kept, no
// scaling or centering); missing rows and columns are appended as zeros.
// This is a canvas crop/pad, not a resize: aspect ratio and content scale
// are not preserved.
func Normalize(g Grid, size int) Grid {
	out := make(Grid, size)
	for y := 0; y < size; y++ {
		row := make([]uint8, size)
		if y < len(g) {
			copy(row, g[y])
		}
		out[y] = row
	}
	return out
}
