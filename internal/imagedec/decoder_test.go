package imagedec

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePNG(t *testing.T, w, h int) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	path := filepath.Join(t.TempDir(), "img.png")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
	return path
}

func TestDecodePNG(t *testing.T) {
	path := writePNG(t, 16, 8)
	img, err := New().Decode(path, 0)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 16, 8), img.Bounds())
	assert.Equal(t, color.RGBA{R: 3, G: 2, B: 128, A: 255}, img.RGBAAt(3, 2))
}

func TestDecodeDownscales(t *testing.T) {
	tests := []struct {
		name         string
		w, h, maxRes int
		wantW, wantH int
	}{
		{"landscape", 200, 100, 64, 64, 32},
		{"portrait", 100, 200, 64, 32, 64},
		{"no limit", 200, 100, 0, 200, 100},
		{"already small", 40, 20, 64, 40, 20},
		{"width trimmed to multiple of 4", 30, 10, 0, 28, 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img, err := New().Decode(writePNG(t, tt.w, tt.h), tt.maxRes)
			require.NoError(t, err)
			assert.Equal(t, tt.wantW, img.Bounds().Dx())
			assert.Equal(t, tt.wantH, img.Bounds().Dy())
		})
	}
}

func TestDecodeUnsupported(t *testing.T) {
	_, err := DecodeBytes([]byte("definitely not an image"), ".txt", 0)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestDecodeMissingFile(t *testing.T) {
	_, err := New().Decode(filepath.Join(t.TempDir(), "missing.jpg"), 0)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func tgaHeader(imageType byte, w, h int, bpp byte, descriptor byte) []byte {
	hdr := make([]byte, 18)
	hdr[2] = imageType
	hdr[12], hdr[13] = byte(w), byte(w>>8)
	hdr[14], hdr[15] = byte(h), byte(h>>8)
	hdr[16] = bpp
	hdr[17] = descriptor
	return hdr
}

func TestDecodeTGAUncompressed(t *testing.T) {
	// 2x1 bottom-up BGR: blue, red.
	data := append(tgaHeader(tgaUncompressed, 2, 1, 24, 0), 255, 0, 0, 0, 0, 255)
	img, err := decodeTGA(data)
	require.NoError(t, err)
	assert.Equal(t, color.RGBA{B: 255, A: 255}, img.RGBAAt(0, 0))
	assert.Equal(t, color.RGBA{R: 255, A: 255}, img.RGBAAt(1, 0))
}

func TestDecodeTGAOrientation(t *testing.T) {
	// 1x2 image, first stored pixel green, second white.
	px := []byte{0, 255, 0, 255, 255, 255}

	bottomUp, err := decodeTGA(append(tgaHeader(tgaUncompressed, 1, 2, 24, 0), px...))
	require.NoError(t, err)
	assert.Equal(t, color.RGBA{G: 255, A: 255}, bottomUp.RGBAAt(0, 1))

	topDown, err := decodeTGA(append(tgaHeader(tgaUncompressed, 1, 2, 24, 0x20), px...))
	require.NoError(t, err)
	assert.Equal(t, color.RGBA{G: 255, A: 255}, topDown.RGBAAt(0, 0))
}

func TestDecodeTGARLE(t *testing.T) {
	// 4x1 32-bit: run of 3 red pixels, then one raw half-transparent blue.
	data := tgaHeader(tgaRLE, 4, 1, 32, 0x20)
	data = append(data, 0x82, 0, 0, 255, 255)
	data = append(data, 0x00, 255, 0, 0, 128)
	img, err := DecodeBytes(data, ".TGA", 0)
	require.NoError(t, err)
	for x := 0; x < 3; x++ {
		assert.Equal(t, color.RGBA{R: 255, A: 255}, img.RGBAAt(x, 0))
	}
	assert.Equal(t, color.RGBA{B: 255, A: 128}, img.RGBAAt(3, 0))
}

func TestDecodeTGAErrors(t *testing.T) {
	tests := []struct {
		name        string
		data        []byte
		unsupported bool
	}{
		{"short header", []byte{0, 0, 2}, false},
		{"color mapped", func() []byte { h := tgaHeader(tgaUncompressed, 1, 1, 24, 0); h[1] = 1; return h }(), true},
		{"grayscale type", tgaHeader(3, 1, 1, 8, 0), true},
		{"16 bit", tgaHeader(tgaUncompressed, 1, 1, 16, 0), true},
		{"truncated pixels", append(tgaHeader(tgaUncompressed, 2, 2, 24, 0), 1, 2, 3), false},
		{"truncated rle", append(tgaHeader(tgaRLE, 4, 1, 24, 0), 0x83), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := decodeTGA(tt.data)
			require.Error(t, err)
			assert.Equal(t, tt.unsupported, errors.Is(err, ErrUnsupportedFormat))
		})
	}
}
