// Package analysis wires the fractal-dimension pipeline together: grid
// building, square normalization, binarization, per-pixel box counting
// and heatmap rendering, driven by a single explicit Config.
//
// Analyze is pure: it takes a raw grayscale pixel buffer and returns
// in-memory structures only. File decoding, encoding and placement belong
// to the codec and server packages.
package analysis
