// Package codec is the image encode/decode collaborator surrounding the
// pure analysis core: it turns uploaded image files into raw grayscale
// pixel buffers on the way in and rendered heatmap rasters into PNG files
// on the way out. All file-format concerns live here; the core packages
// never touch encoders, decoders or the filesystem.
package codec
