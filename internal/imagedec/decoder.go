// Package imagedec decodes camera images for display in camera view mode.
//
// Decoding runs on the background worker only. Formats are detected from
// the file contents (JPEG, PNG, BMP, TIFF, WebP); TGA, which has no magic
// number, is recognized by extension.
package imagedec

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/anthonynsimon/bild/transform"
	"github.com/h2non/filetype"
	"go.uber.org/zap"
	_ "golang.org/x/image/bmp"
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/Faultbox/reconview/internal/logger"
)

// ErrUnsupportedFormat is returned for files that are not a known image
// format.
var ErrUnsupportedFormat = errors.New("unsupported image format")

// Decoder loads images from disk.
type Decoder struct {
	log *zap.Logger
}

// New creates a decoder.
func New() *Decoder {
	return &Decoder{log: logger.Named("imagedec")}
}

// Decode reads the image at path and returns it as RGBA. Images larger than
// maxResolution on their longest side are scaled down; maxResolution <= 0
// keeps the full size. The width of the result is a multiple of 4 whenever
// the source is at least 4 pixels wide.
func (d *Decoder) Decode(path string, maxResolution int) (*image.RGBA, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read image: %w", err)
	}
	img, err := DecodeBytes(data, filepath.Ext(path), maxResolution)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	d.log.Debug("image decoded",
		zap.String("path", path),
		zap.Int("width", img.Bounds().Dx()),
		zap.Int("height", img.Bounds().Dy()))
	return img, nil
}

// DecodeBytes decodes data; ext (".tga", ".png", ...) is only consulted
// when the contents carry no recognizable signature.
func DecodeBytes(data []byte, ext string, maxResolution int) (*image.RGBA, error) {
	var (
		rgba *image.RGBA
		err  error
	)
	switch {
	case filetype.IsImage(data):
		var img image.Image
		img, _, err = image.Decode(bytes.NewReader(data))
		if err != nil {
			if errors.Is(err, image.ErrFormat) {
				kind, _ := filetype.Match(data)
				return nil, fmt.Errorf("%s: %w", kind.MIME.Value, ErrUnsupportedFormat)
			}
			return nil, err
		}
		rgba = toRGBA(img)
	case strings.EqualFold(ext, ".tga"):
		rgba, err = decodeTGA(data)
		if err != nil {
			return nil, err
		}
	default:
		return nil, ErrUnsupportedFormat
	}
	return conform(rgba, maxResolution), nil
}

func toRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok && rgba.Bounds().Min == (image.Point{}) {
		return rgba
	}
	b := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	xdraw.Draw(rgba, rgba.Bounds(), img, b.Min, xdraw.Src)
	return rgba
}

// conform limits the longest side to maxResolution and trims the width to a
// multiple of 4.
func conform(img *image.RGBA, maxResolution int) *image.RGBA {
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	if longest := max(w, h); maxResolution > 0 && longest > maxResolution {
		scale := float64(maxResolution) / float64(longest)
		nw, nh := max(int(float64(w)*scale+0.5), 1), max(int(float64(h)*scale+0.5), 1)
		dst := image.NewRGBA(image.Rect(0, 0, nw, nh))
		xdraw.BiLinear.Scale(dst, dst.Bounds(), img, img.Bounds(), xdraw.Src, nil)
		img, w, h = dst, nw, nh
	}
	if w >= 4 && w%4 != 0 {
		img = transform.Resize(img, w&^3, h, transform.Linear)
	}
	return img
}
