// Package grid provides the intensity-grid primitives for fractal analysis:
// building a rectangular grid from a flat grayscale pixel buffer,
// normalizing it to a fixed square canvas, and binarizing it with either a
// fixed or an Otsu adaptive threshold.
//
// # Coordinate System
//
// Grids are row-major with (0,0) at the top-left corner; X increases
// rightward, Y increases downward. Reads outside the grid bounds return 0,
// which downstream neighborhood extraction depends on for zero padding.
//
// # Immutability
//
// Grids are never mutated in place. Every operation allocates and returns
// a fresh grid, so values can be shared freely across goroutines.
package grid
