package server

import (
	"net/http"

	"github.com/ironsheep/fractal-heatmap/internal/analysis"
)

// Server exposes the fractal analysis pipeline over HTTP. It owns upload
// staging and output placement; the analysis itself stays pure and
// in-memory.
type Server struct {
	cfg       analysis.Config
	outputDir string
}

// New creates a server that analyzes uploads with cfg and writes heatmap
// PNGs into outputDir.
func New(cfg analysis.Config, outputDir string) *Server {
	return &Server{cfg: cfg, outputDir: outputDir}
}

// ServeMux returns the route table.
func (s *Server) ServeMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/analyze", s.analyzeHandler)
	mux.Handle("/heatmaps/", http.StripPrefix("/heatmaps/", http.FileServer(http.Dir(s.outputDir))))
	mux.HandleFunc("/healthz", s.healthHandler)
	return mux
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte("ok"))
}
