// Package server implements the HTTP upload surface of the fractal
// heatmap service.
//
// # Endpoints
//
//   - POST /analyze: multipart upload with an "image" field. The upload is
//     staged to a temporary file, decoded to grayscale, run through the
//     analysis pipeline, and the rendered heatmap is written to the output
//     directory. Responds with JSON naming the heatmap file (basename
//     only) plus either the fractal dimension matrix or the binarized
//     grid, per server configuration.
//   - GET /heatmaps/<name>: serves previously rendered heatmap PNGs.
//   - GET /healthz: liveness check.
//
// # Error Handling
//
// Pipeline errors map onto HTTP statuses by taxonomy: malformed pixel
// buffers and codec failures are client errors (422), configuration and
// palette problems are server errors (500). No error is retried; a bad
// upload is not transient.
package server
