package fraccert

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/tiff"
)

// RGBA unpacks a pixel word (red in the top byte, low byte unused) into an opaque color.
func RGBA(word uint32) color.RGBA {
	return color.RGBA{R: uint8(word >> 24), G: uint8(word >> 16), B: uint8(word >> 8), A: 255}
}

// ToRGBA converts a full pixel buffer to an image.
func ToRGBA(pixels []uint32, res Resolution) *image.RGBA {
	return TileRGBA(pixels, res.W, res.Full())
}

// TileRGBA converts the tile of a buffer with row stride w to an image whose
// bounds are the tile's global coordinates.
func TileRGBA(pixels []uint32, w int, tile Range) *image.RGBA {
	img := image.NewRGBA(image.Rect(tile.XMin, tile.YMin, tile.XMax, tile.YMax))
	for y := tile.YMin; y < tile.YMax; y++ {
		for x := tile.XMin; x < tile.XMax; x++ {
			img.SetRGBA(x, y, RGBA(pixels[y*w+x]))
		}
	}
	return img
}

// TilePixels copies the tile of a buffer with row stride w into a buffer of
// its own, row by row.
func TilePixels(pixels []uint32, w int, tile Range) []uint32 {
	out := make([]uint32, 0, tile.Pixels())
	for y := tile.YMin; y < tile.YMax; y++ {
		out = append(out, pixels[y*w+tile.XMin:y*w+tile.XMax]...)
	}
	return out
}

// Downsample shrinks img by factor in both axes. Rendering at factor times the
// target size first gives a smoothed image.
func Downsample(img image.Image, factor int) *image.RGBA {
	b := img.Bounds()
	if factor <= 1 {
		dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
		xdraw.Draw(dst, dst.Bounds(), img, b.Min, xdraw.Src)
		return dst
	}
	dst := image.NewRGBA(image.Rect(0, 0, max(b.Dx()/factor, 1), max(b.Dy()/factor, 1)))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, b, xdraw.Src, nil)
	return dst
}

// SaveImage writes img to path, picking the encoder from the extension:
// .png, .bmp, .tif or .tiff.
func SaveImage(path string, img image.Image) (err error) {
	var encode func(f *os.File) error
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".png", "":
		encode = func(f *os.File) error { return png.Encode(f, img) }
	case ".bmp":
		encode = func(f *os.File) error { return bmp.Encode(f, img) }
	case ".tif", ".tiff":
		encode = func(f *os.File) error {
			return tiff.Encode(f, img, &tiff.Options{Compression: tiff.Deflate, Predictor: true})
		}
	default:
		return fmt.Errorf("unsupported image format %q", ext)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	if err := encode(f); err != nil {
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	return nil
}
