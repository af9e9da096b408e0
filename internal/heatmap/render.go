package heatmap

import (
	"fmt"

	"github.com/ironsheep/fractal-heatmap/internal/fractal"
)

// Raster is a rendered heatmap: 3 bytes (R, G, B) per pixel, row-major,
// with the shape of the field it was rendered from. Encoding the raster to
// a file format is the codec collaborator's job, not the renderer's.
type Raster struct {
	Pix      []byte
	Width    int
	Height   int
	Channels int
}

// Render maps every field cell through the palette.
//
// The first palette gap aborts the render: a value the palette cannot
// cover means the palette and the estimator's output range disagree, and
// a partially meaningful image is worse than a hard failure.
func Render(field fractal.Field, m Mapper) (*Raster, error) {
	height := len(field)
	width := 0
	if height > 0 {
		width = len(field[0])
	}

	pix := make([]byte, height*width*3)
	for y, row := range field {
		for x, v := range row {
			c, err := m.Map(v)
			if err != nil {
				return nil, fmt.Errorf("render cell (%d,%d): %w", x, y, err)
			}
			i := (y*width + x) * 3
			pix[i] = c.R
			pix[i+1] = c.G
			pix[i+2] = c.B
		}
	}

	return &Raster{Pix: pix, Width: width, Height: height, Channels: 3}, nil
}
