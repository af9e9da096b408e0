package codec

import (
	"errors"
	"fmt"
	"image"
	"io"

	"github.com/anthonynsimon/bild/imgio"
	"github.com/disintegration/imaging"

	"github.com/ironsheep/fractal-heatmap/internal/heatmap"
)

// ErrCodec indicates the external image encode/decode collaborator failed.
// Codec failures are terminal for the invocation: a corrupted or
// unsupported upload is not transient, so nothing is retried.
var ErrCodec = errors.New("image codec failure")

// DecodeGray decodes an image stream and flattens it to a grayscale pixel
// buffer, one byte per pixel, row-major, plus its dimensions.
//
// Color sources are converted to grayscale first; the core never sees
// color data. Format sniffing and decoding are delegated to the imaging
// library, which registers PNG, JPEG, GIF, TIFF and BMP decoders.
func DecodeGray(r io.Reader) ([]byte, int, int, error) {
	img, err := imaging.Decode(r)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("%w: decode: %v", ErrCodec, err)
	}

	gray := imaging.Grayscale(img)
	bounds := gray.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	if width == 0 || height == 0 {
		return nil, 0, 0, fmt.Errorf("%w: decoded image has zero dimension %dx%d", ErrCodec, width, height)
	}

	// Grayscale output has R == G == B; the red channel is the intensity.
	pixels := make([]byte, width*height)
	for y := 0; y < height; y++ {
		src := gray.Pix[y*gray.Stride : y*gray.Stride+width*4]
		for x := 0; x < width; x++ {
			pixels[y*width+x] = src[x*4]
		}
	}
	return pixels, width, height, nil
}

// RasterImage converts a rendered heatmap raster into an image.Image,
// expanding the packed 3-byte RGB rows into RGBA with full opacity so the
// standard encoders can consume it.
func RasterImage(r *heatmap.Raster) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, r.Width, r.Height))
	for i := 0; i < r.Width*r.Height; i++ {
		img.Pix[i*4] = r.Pix[i*3]
		img.Pix[i*4+1] = r.Pix[i*3+1]
		img.Pix[i*4+2] = r.Pix[i*3+2]
		img.Pix[i*4+3] = 0xff
	}
	return img
}

// EncodePNG writes the raster to w as PNG.
func EncodePNG(w io.Writer, r *heatmap.Raster) error {
	if err := imgio.PNGEncoder()(w, RasterImage(r)); err != nil {
		return fmt.Errorf("%w: encode png: %v", ErrCodec, err)
	}
	return nil
}

// SavePNG writes the raster to a PNG file at path. The file is created,
// fully written and closed before SavePNG returns.
func SavePNG(path string, r *heatmap.Raster) error {
	if err := imgio.Save(path, RasterImage(r), imgio.PNGEncoder()); err != nil {
		return fmt.Errorf("%w: save %s: %v", ErrCodec, path, err)
	}
	return nil
}
