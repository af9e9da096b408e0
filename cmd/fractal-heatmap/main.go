package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/ironsheep/fractal-heatmap/internal/analysis"
	"github.com/ironsheep/fractal-heatmap/internal/codec"
	"github.com/ironsheep/fractal-heatmap/internal/fractal"
	"github.com/ironsheep/fractal-heatmap/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	var (
		showVersion = flag.Bool("version", false, "Print version information and exit")
		addr        = flag.String("addr", ":8080", "HTTP listen address")
		outputDir   = flag.String("output-dir", "heatmaps", "Directory for rendered heatmap PNGs")
		input       = flag.String("input", "", "Analyze a single image file and exit instead of serving HTTP")

		gridSize     = flag.Int("grid-size", 256, "Standardized square canvas size the input is cropped/padded to")
		neighborhood = flag.Int("neighborhood", 16, "Neighborhood window side examined around each pixel")
		minBox       = flag.Int("min-box", 1, "Smallest box size in the counting progression")
		scaleFactor  = flag.Int("scale-factor", 2, "Multiplier between box sizes")
		binarization = flag.String("binarization", "otsu", "Threshold strategy: otsu or fixed")
		threshold    = flag.Uint("threshold", 128, "Cutoff for fixed binarization (0-255)")
		occupancy    = flag.String("occupancy", "any", "Box occupancy predicate: any or all")
		palette      = flag.String("palette", "gradient", "Heatmap palette: gradient or buckets")
		payload      = flag.String("payload", "field", "Response matrix: field or grayscale")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("fractal-heatmap %s\n", Version)
		fmt.Printf("  Build time: %s\n", BuildTime)
		fmt.Printf("  Git commit: %s\n", GitCommit)
		return
	}

	log.SetOutput(os.Stderr)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	cfg := analysis.DefaultConfig()
	cfg.GridSize = *gridSize
	cfg.NeighborhoodSize = *neighborhood
	cfg.MinBoxSize = *minBox
	cfg.ScaleFactor = *scaleFactor
	cfg.Threshold = uint8(*threshold)

	switch *binarization {
	case "otsu":
		cfg.Binarization = analysis.BinarizeOtsu
	case "fixed":
		cfg.Binarization = analysis.BinarizeFixed
	default:
		log.Fatalf("unknown binarization strategy %q", *binarization)
	}
	switch *occupancy {
	case "any":
		cfg.Occupancy = fractal.OccupancyAny
	case "all":
		cfg.Occupancy = fractal.OccupancyAll
	default:
		log.Fatalf("unknown occupancy predicate %q", *occupancy)
	}
	switch *palette {
	case "gradient":
		cfg.Palette = analysis.PaletteGradient
	case "buckets":
		cfg.Palette = analysis.PaletteBuckets
	default:
		log.Fatalf("unknown palette %q", *palette)
	}
	switch *payload {
	case "field":
		cfg.Payload = analysis.PayloadDimensionField
	case "grayscale":
		cfg.Payload = analysis.PayloadGrayscale
	default:
		log.Fatalf("unknown payload mode %q", *payload)
	}

	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	if err := os.MkdirAll(*outputDir, 0o755); err != nil {
		log.Fatalf("failed to create output dir: %v", err)
	}

	if *input != "" {
		if err := analyzeOnce(*input, *outputDir, cfg); err != nil {
			log.Fatalf("Analysis failed: %v", err)
		}
		return
	}

	srv := server.New(cfg, *outputDir)
	log.Printf("fractal-heatmap %s listening on %s", Version, *addr)
	if err := http.ListenAndServe(*addr, srv.ServeMux()); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

// analyzeOnce runs the pipeline over a single file and writes the heatmap
// next to the other rendered output, for use without the HTTP surface.
func analyzeOnce(path, outputDir string, cfg analysis.Config) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	pixels, width, _, err := codec.DecodeGray(f)
	f.Close()
	if err != nil {
		return err
	}

	result, err := analysis.Analyze(context.Background(), pixels, width, cfg)
	if err != nil {
		return err
	}

	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	out := filepath.Join(outputDir, base+"-heatmap.png")
	if err := codec.SavePNG(out, result.Raster); err != nil {
		return err
	}
	log.Printf("wrote %s", out)
	return nil
}
