package resizer

import (
	"image"
	"image/color"
	"testing"
)

func flat(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func TestBilinearPreservesFlatColor(t *testing.T) {
	// Downscaling a flat color must not introduce new colors, regardless of
	// the kernel.
	src := flat(4, 4, color.RGBA{0, 0, 0, 255})
	dst := image.NewRGBA(image.Rect(0, 0, 2, 2))

	NewBilinearResizer().Resize(dst, src)

	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			got := dst.RGBAAt(x, y)
			if got.R != 0 || got.G != 0 || got.B != 0 {
				t.Fatalf("pixel (%d,%d) = %v, want black", x, y, got)
			}
		}
	}
}

func TestBilinearUpscale(t *testing.T) {
	src := flat(2, 2, color.RGBA{200, 100, 50, 255})
	dst := image.NewRGBA(image.Rect(0, 0, 5, 7))

	NewBilinearResizer().Resize(dst, src)

	if dst.Bounds().Dx() != 5 || dst.Bounds().Dy() != 7 {
		t.Fatalf("unexpected target bounds %v", dst.Bounds())
	}
	got := dst.RGBAAt(2, 3)
	if got.R != 200 || got.G != 100 || got.B != 50 {
		t.Errorf("center pixel = %v, want (200,100,50)", got)
	}
}

func TestNearestKeepsExactColors(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 2, 1))
	src.SetRGBA(0, 0, color.RGBA{10, 20, 30, 255})
	src.SetRGBA(1, 0, color.RGBA{250, 240, 230, 255})

	dst := image.NewRGBA(image.Rect(0, 0, 4, 2))
	NewNearestResizer().Resize(dst, src)

	left := dst.RGBAAt(0, 0)
	right := dst.RGBAAt(3, 1)
	if left.R != 10 || left.G != 20 || left.B != 30 {
		t.Errorf("left half = %v, want (10,20,30)", left)
	}
	if right.R != 250 || right.G != 240 || right.B != 230 {
		t.Errorf("right half = %v, want (250,240,230)", right)
	}
}
