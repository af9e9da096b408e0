package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/ironsheep/fractal-heatmap/internal/analysis"
	"github.com/ironsheep/fractal-heatmap/internal/codec"
	"github.com/ironsheep/fractal-heatmap/internal/fractal"
	"github.com/ironsheep/fractal-heatmap/internal/grid"
	"github.com/ironsheep/fractal-heatmap/internal/heatmap"
)

// maxUploadBytes bounds the multipart form kept in memory before spilling
// to disk.
const maxUploadBytes = 32 << 20

// AnalyzeResponse is the JSON payload returned for an accepted upload.
// Exactly one of the two matrix fields is populated, selected by the
// server's configured payload mode. HeatmapImageSourceName is a basename
// only; the heatmap is served under /heatmaps/<name>.
type AnalyzeResponse struct {
	HeatmapImageSourceName string      `json:"heatmapImageSourceName"`
	FractalDimensionMatrix [][]float64 `json:"fractalDimensionMatrix,omitempty"`
	GrayscaleData          [][]int     `json:"grayscaleData,omitempty"`
}

// analyzeHandler accepts a multipart image upload, stages it to a
// temporary file, runs the analysis pipeline and writes the rendered
// heatmap PNG to the output directory.
func (s *Server) analyzeHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		http.Error(w, fmt.Sprintf("Failed to parse upload: %v", err), http.StatusBadRequest)
		return
	}
	upload, _, err := r.FormFile("image")
	if err != nil {
		http.Error(w, "Missing image field in upload", http.StatusBadRequest)
		return
	}
	defer upload.Close()

	staged, err := stageUpload(upload)
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to stage upload: %v", err), http.StatusInternalServerError)
		return
	}
	defer os.Remove(staged)

	resp, err := s.analyzeFile(r, staged)
	if err != nil {
		log.Printf("analysis failed: %v", err)
		http.Error(w, err.Error(), statusFor(err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

// analyzeFile runs decode → analyze → encode for one staged upload.
func (s *Server) analyzeFile(r *http.Request, path string) (*AnalyzeResponse, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open staged upload: %w", err)
	}
	pixels, width, _, err := codec.DecodeGray(f)
	f.Close()
	if err != nil {
		return nil, err
	}

	result, err := analysis.Analyze(r.Context(), pixels, width, s.cfg)
	if err != nil {
		return nil, err
	}

	name := "heatmap-" + uuid.NewString() + ".png"
	if err := codec.SavePNG(filepath.Join(s.outputDir, name), result.Raster); err != nil {
		return nil, err
	}

	resp := &AnalyzeResponse{HeatmapImageSourceName: name}
	if s.cfg.Payload == analysis.PayloadGrayscale {
		resp.GrayscaleData = gridMatrix(result.Binary)
	} else {
		resp.FractalDimensionMatrix = result.Field
	}
	return resp, nil
}

// stageUpload copies the uploaded stream to a temporary file and returns
// its path. The caller removes the file when done with it.
func stageUpload(upload io.Reader) (string, error) {
	tmp, err := os.CreateTemp("", "fractal-upload-*")
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(tmp, upload); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", err
	}
	return tmp.Name(), nil
}

// statusFor maps the pipeline error taxonomy onto HTTP statuses. Bad
// uploads are the client's fault; everything else is the server's.
func statusFor(err error) int {
	switch {
	case errors.Is(err, grid.ErrMalformedInput), errors.Is(err, codec.ErrCodec):
		return http.StatusUnprocessableEntity
	case errors.Is(err, fractal.ErrInsufficientSamples), errors.Is(err, heatmap.ErrPaletteGap):
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

func gridMatrix(g grid.Grid) [][]int {
	out := make([][]int, len(g))
	for y, row := range g {
		dst := make([]int, len(row))
		for x, v := range row {
			dst[x] = int(v)
		}
		out[y] = dst
	}
	return out
}
