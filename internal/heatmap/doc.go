// Package heatmap renders a scalar fractal-dimension field as a
// false-color RGB raster.
//
// Two mapping strategies are provided: a continuous gradient blended in
// Luv space between keypoints, and a discrete palette of half-open value
// buckets. Both declare an explicit domain (typically [0, 2], the output
// range of box counting on a plane region) and fail with ErrPaletteGap for
// values outside it instead of silently defaulting.
package heatmap
