package fraccert

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

func TestRGBA(t *testing.T) {
	diff(t, color.RGBA{R: 0x11, G: 0x22, B: 0x33, A: 0xFF}, RGBA(0x11223303))
}

// testPixels is a 4x3 buffer whose pixel words encode their own coordinates.
func testPixels() ([]uint32, Resolution) {
	res := Resolution{W: 4, H: 3}
	pixels := make([]uint32, res.W*res.H)
	for y := range res.H {
		for x := range res.W {
			pixels[y*res.W+x] = uint32(x)<<24 | uint32(y)<<16
		}
	}
	return pixels, res
}

func TestToRGBA(t *testing.T) {
	pixels, res := testPixels()
	img := ToRGBA(pixels, res)
	if img.Bounds() != image.Rect(0, 0, 4, 3) {
		t.Fatalf("bounds %v", img.Bounds())
	}
	diff(t, color.RGBA{R: 3, G: 2, A: 0xFF}, img.RGBAAt(3, 2))
}

func TestTileRGBA(t *testing.T) {
	pixels, res := testPixels()
	tile := Range{XMin: 1, XMax: 3, YMin: 1, YMax: 3}
	img := TileRGBA(pixels, res.W, tile)
	if img.Bounds() != image.Rect(1, 1, 3, 3) {
		t.Fatalf("bounds %v", img.Bounds())
	}
	diff(t, color.RGBA{R: 2, G: 1, A: 0xFF}, img.RGBAAt(2, 1))
}

func TestTilePixels(t *testing.T) {
	pixels, res := testPixels()
	got := TilePixels(pixels, res.W, Range{XMin: 2, XMax: 4, YMin: 0, YMax: 2})
	want := []uint32{2 << 24, 3 << 24, 2<<24 | 1<<16, 3<<24 | 1<<16}
	diff(t, want, got)
}

func TestDownsample(t *testing.T) {
	pixels := make([]uint32, 40*30)
	img := ToRGBA(pixels, Resolution{W: 40, H: 30})

	if got := Downsample(img, 4).Bounds(); got != image.Rect(0, 0, 10, 7) {
		t.Errorf("Downsample(4) bounds = %v", got)
	}

	same := Downsample(img, 1)
	diff(t, img.Pix, same.Pix)
}

func TestSaveImage(t *testing.T) {
	pixels, res := testPixels()
	img := ToRGBA(pixels, res)
	dir := t.TempDir()

	decoders := map[string]func(f *os.File) (image.Image, error){
		"out.png":  func(f *os.File) (image.Image, error) { return png.Decode(f) },
		"out.bmp":  func(f *os.File) (image.Image, error) { return bmp.Decode(f) },
		"out.tiff": func(f *os.File) (image.Image, error) { return tiff.Decode(f) },
	}
	for name, decode := range decoders {
		path := filepath.Join(dir, name)
		if err := SaveImage(path, img); err != nil {
			t.Fatalf("SaveImage(%q): %v", name, err)
		}

		f, err := os.Open(path)
		if err != nil {
			t.Fatal(err)
		}
		got, err := decode(f)
		f.Close()
		if err != nil {
			t.Fatalf("decode %q: %v", name, err)
		}
		for y := range res.H {
			for x := range res.W {
				if c := color.RGBAModel.Convert(got.At(x, y)); c != img.RGBAAt(x, y) {
					t.Errorf("%s: pixel (%d,%d) = %v, want %v", name, x, y, c, img.RGBAAt(x, y))
				}
			}
		}
	}

	if err := SaveImage(filepath.Join(dir, "out.gif"), img); err == nil {
		t.Error("saved an unsupported format")
	}
}
