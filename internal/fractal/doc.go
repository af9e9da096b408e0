// Package fractal estimates local textural complexity of a binarized grid
// by computing, at every pixel, a box-counting fractal dimension over a
// surrounding zero-padded neighborhood.
//
// # Algorithm
//
// For one pixel:
//
//  1. Extract the N×N neighborhood centered on the pixel, sampling 0 for
//     coordinates outside the grid.
//  2. For each box size in the progression B, B·k, B·k², … (while the size
//     stays ≤ N/2), tile the neighborhood into boxes, clipping at the
//     edges, and count the boxes satisfying the occupancy predicate.
//  3. Fit ordinary least squares to the points (ln size, ln count) and
//     take the negated slope as the dimension.
//
// A fully filled neighborhood counts (N/b)² boxes at every size and comes
// out at dimension 2, an empty one at 0; natural textures land in between.
//
// # Numerical Policy
//
// Zero box counts substitute ln(0) with 0 rather than propagating −∞ into
// the regression, and degenerate fits yield 0 rather than NaN. Both are
// documented contract, chosen so a field is always fully populated with
// finite values.
package fractal
